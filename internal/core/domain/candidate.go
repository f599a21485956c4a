package domain

import "time"

// SourceType classifies where a candidate's media is hosted.
type SourceType string

const (
	// SourceAPIVideo is a video hosted on a platform reachable through its
	// search API (e.g. a YouTube video).
	SourceAPIVideo SourceType = "api-video"

	// SourceMediaFile is a directly downloadable media file (.mp3, .m4a, ...).
	SourceMediaFile SourceType = "media-file"

	// SourceExternalLink is a link to an external page or player that hosts
	// the media indirectly.
	SourceExternalLink SourceType = "external-link"
)

// ContentType classifies the kind of event a candidate records.
type ContentType string

const (
	// ContentResultCall is a quarterly results conference call.
	ContentResultCall ContentType = "result-call"

	// ContentInvestorDay is an investor day presentation.
	ContentInvestorDay ContentType = "investor-day"

	// ContentGuidance is a guidance or projections call.
	ContentGuidance ContentType = "guidance"

	// ContentPodcast is an IR podcast episode.
	ContentPodcast ContentType = "podcast"

	// ContentGenericEvent is any other investor event.
	ContentGenericEvent ContentType = "generic-event"
)

// QuarterUnknown is the quarter label used when no quarter could be
// extracted from the source text.
const QuarterUnknown = "unknown"

// Candidate is one discovered piece of media, normalised into the common
// schema every discovery method produces into. Candidates are deduplicated
// by SourceURL within a run; cross-run dedup happens at the store boundary.
type Candidate struct {
	// Title is the human-readable title. Required.
	Title string

	// Description is an optional free-text description.
	Description string

	// SourceURL is the canonical locator of the media and the dedup key.
	SourceURL string

	// SourceType classifies the hosting of the media.
	SourceType SourceType

	// ExternalID is the platform-specific media identifier (e.g. a video
	// ID), when the source exposes one.
	ExternalID string

	// ThumbnailURL is an optional preview image locator.
	ThumbnailURL string

	// DurationSeconds is the media duration, zero when unknown. Never
	// negative.
	DurationSeconds int

	// EventDate is the calendar date of the recorded event. Methods must
	// never emit a date strictly in the future relative to the run; dates
	// approximated from a quarter label go through QuarterEndDate first.
	EventDate time.Time

	// Quarter is the coarse period label ("1T24" form) or QuarterUnknown.
	Quarter string

	// Year is the calendar year of the period, zero when unknown.
	Year int

	// ContentType classifies the kind of event.
	ContentType ContentType

	// Method names the discovery method that produced this candidate.
	Method string

	// Confidence is the method-intrinsic score in [0,1]. The consolidator
	// ranks by it but never recomputes it.
	Confidence float64
}

// Validate checks the candidate invariants.
func (c *Candidate) Validate() error {
	if c.Title == "" || c.SourceURL == "" {
		return ErrInvalidInput
	}
	if c.DurationSeconds < 0 {
		return ErrInvalidInput
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return ErrInvalidInput
	}
	return nil
}
