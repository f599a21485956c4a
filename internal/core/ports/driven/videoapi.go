package driven

import (
	"context"
	"time"
)

// VideoSummary is a lightweight search hit from the video platform.
type VideoSummary struct {
	// ID is the platform video identifier.
	ID string
}

// VideoDetails carries the full metadata for one video.
type VideoDetails struct {
	// ID is the platform video identifier.
	ID string

	// Title is the video title.
	Title string

	// Description is the video description.
	Description string

	// PublishedAt is when the video was published.
	PublishedAt time.Time

	// ThumbnailURL is the best available thumbnail.
	ThumbnailURL string

	// DurationSeconds is the video length in seconds.
	DurationSeconds int
}

// VideoAPI is the external video-platform search client. Non-2xx responses,
// malformed payloads and quota errors surface as ordinary errors (wrapping
// domain.ErrQuota where applicable) and never propagate past the owning
// method's outcome.
type VideoAPI interface {
	// ResolveHandle resolves a channel handle (with or without a leading
	// "@") to a channel ID. Returns domain.ErrNotFound when the handle
	// doesn't resolve.
	ResolveHandle(ctx context.Context, handle string) (string, error)

	// SearchChannel returns videos on a channel matching the query, newest
	// first, up to maxResults.
	SearchChannel(ctx context.Context, channelID, query string, maxResults int) ([]VideoSummary, error)

	// VideoDetails fetches full metadata for the given video IDs.
	VideoDetails(ctx context.Context, ids []string) ([]VideoDetails, error)
}
