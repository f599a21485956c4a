// Package youtube implements the video platform search client on top of the
// YouTube Data API v3. Search results and video metadata feed the video-api
// discovery method; quota exhaustion is surfaced as domain.ErrQuota so the
// orchestrator can tell it apart from plain network failures.
package youtube

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"

	"github.com/ristream/ricast/internal/core/domain"
	"github.com/ristream/ricast/internal/core/ports/driven"
)

// detailsBatchSize is the maximum number of video IDs per videos.list call.
const detailsBatchSize = 50

var _ driven.VideoAPI = (*Client)(nil)

// Client talks to the YouTube Data API.
type Client struct {
	svc *youtube.Service
}

// NewClient creates an API-key authenticated YouTube client.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", domain.ErrInvalidInput)
	}

	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating YouTube service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// ResolveHandle resolves a channel handle to its channel ID.
func (c *Client) ResolveHandle(ctx context.Context, handle string) (string, error) {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return "", fmt.Errorf("%w: empty channel handle", domain.ErrInvalidInput)
	}

	resp, err := c.svc.Channels.List([]string{"id"}).
		ForHandle(handle).
		Context(ctx).
		Do()
	if err != nil {
		return "", classifyAPIError("resolving channel handle", err)
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("%w: channel handle %q", domain.ErrNotFound, handle)
	}

	return resp.Items[0].Id, nil
}

// SearchChannel returns up to maxResults videos on the channel matching the
// query, newest first.
func (c *Client) SearchChannel(ctx context.Context, channelID, query string, maxResults int) ([]driven.VideoSummary, error) {
	resp, err := c.svc.Search.List([]string{"id"}).
		ChannelId(channelID).
		Q(query).
		Type("video").
		Order("date").
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyAPIError("searching channel", err)
	}

	summaries := make([]driven.VideoSummary, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		summaries = append(summaries, driven.VideoSummary{ID: item.Id.VideoId})
	}
	return summaries, nil
}

// VideoDetails fetches full metadata for the given video IDs, batching calls
// to stay within the API's per-request ID limit.
func (c *Client) VideoDetails(ctx context.Context, ids []string) ([]driven.VideoDetails, error) {
	details := make([]driven.VideoDetails, 0, len(ids))

	for start := 0; start < len(ids); start += detailsBatchSize {
		end := min(start+detailsBatchSize, len(ids))

		resp, err := c.svc.Videos.List([]string{"snippet", "contentDetails"}).
			Id(ids[start:end]...).
			Context(ctx).
			Do()
		if err != nil {
			return nil, classifyAPIError("fetching video details", err)
		}

		for _, item := range resp.Items {
			detail := driven.VideoDetails{
				ID: item.Id,
			}
			if item.Snippet != nil {
				detail.Title = item.Snippet.Title
				detail.Description = item.Snippet.Description
				detail.ThumbnailURL = bestThumbnail(item.Snippet.Thumbnails)
				if published, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
					detail.PublishedAt = published
				}
			}
			if item.ContentDetails != nil {
				detail.DurationSeconds = parseISODuration(item.ContentDetails.Duration)
			}
			details = append(details, detail)
		}
	}

	return details, nil
}

// bestThumbnail picks the highest-resolution thumbnail available.
func bestThumbnail(thumbs *youtube.ThumbnailDetails) string {
	if thumbs == nil {
		return ""
	}
	for _, t := range []*youtube.Thumbnail{thumbs.High, thumbs.Medium, thumbs.Default} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}
	return ""
}

// classifyAPIError maps API failures to domain sentinels. Quota exhaustion
// comes back as HTTP 403 with a quota reason, or as a plain 429.
func classifyAPIError(op string, err error) error {
	if apiErr, ok := err.(*googleapi.Error); ok {
		if apiErr.Code == http.StatusTooManyRequests || isQuotaReason(apiErr) {
			return fmt.Errorf("%s: %w: %v", op, domain.ErrQuota, err)
		}
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrNetwork, err)
}

func isQuotaReason(apiErr *googleapi.Error) bool {
	if apiErr.Code != http.StatusForbidden {
		return false
	}
	for _, item := range apiErr.Errors {
		switch item.Reason {
		case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded":
			return true
		}
	}
	return false
}
