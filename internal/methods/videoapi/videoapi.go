// Package videoapi implements the video-platform discovery method: search a
// company's channel for each IR keyword, pull the details of every hit and
// keep the long recordings. When a company runs its result calls on a video
// platform this is by far the most reliable source, hence the highest
// method confidence.
package videoapi

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/ristream/ricast/internal/core/domain"
	"github.com/ristream/ricast/internal/core/ports/driven"
	"github.com/ristream/ricast/internal/logger"
)

// MethodName identifies this method in outcomes and performance history.
const MethodName = "video-api"

const methodConfidence = 0.95

// minWebcastSeconds filters out teasers and institutional clips; a result
// call shorter than ten minutes is not a result call.
const minWebcastSeconds = 600

// resultsPerKeyword bounds each keyword search.
const resultsPerKeyword = 10

// concurrentSearches bounds the parallel keyword queries, keeping the quota
// burn per company modest.
const concurrentSearches = 3

// irKeywords are the channel search queries that surface IR recordings on
// Brazilian corporate channels.
var irKeywords = []string{
	"resultado trimestral",
	"earnings call",
	"webcast resultado",
	"teleconferência resultado",
	"conference call",
	"investor day",
	"relações com investidores",
}

var _ driven.DiscoveryMethod = (*Method)(nil)

// Method discovers IR recordings through the video platform's search API.
type Method struct {
	api driven.VideoAPI
	now func() time.Time
}

// New creates the video-api method.
func New(api driven.VideoAPI) *Method {
	return &Method{api: api, now: time.Now}
}

// Name returns the method identifier.
func (m *Method) Name() string { return MethodName }

// Run resolves the company's channel handle and searches it with every IR
// keyword. Individual keyword searches fail independently; the run only
// fails when the handle cannot be resolved or no search got through.
func (m *Method) Run(ctx context.Context, company domain.Company) domain.MethodOutcome {
	start := time.Now()

	if !company.HasChannel() {
		return domain.MethodOutcome{Method: MethodName, Elapsed: time.Since(start)}
	}

	channelID, err := m.api.ResolveHandle(ctx, company.ChannelHandle)
	if err != nil {
		return domain.MethodOutcome{
			Method:  MethodName,
			Err:     fmt.Sprintf("resolve handle %s: %v", company.ChannelHandle, err),
			Elapsed: time.Since(start),
		}
	}

	ids, searchErrs := m.searchAll(ctx, channelID)
	if len(ids) == 0 {
		outcome := domain.MethodOutcome{Method: MethodName, Elapsed: time.Since(start)}
		if len(searchErrs) > 0 {
			outcome.Err = searchErrs[0]
		}
		return outcome
	}

	details, err := m.api.VideoDetails(ctx, ids)
	if err != nil {
		return domain.MethodOutcome{
			Method:  MethodName,
			Err:     fmt.Sprintf("video details: %v", err),
			Elapsed: time.Since(start),
		}
	}

	candidates := m.buildCandidates(details)
	logger.Debug("video-api %s: %d hits, %d webcast-length", company.Ticker, len(details), len(candidates))

	return domain.MethodOutcome{
		Method:     MethodName,
		Success:    len(candidates) > 0,
		Candidates: candidates,
		Elapsed:    time.Since(start),
	}
}

// searchAll runs one channel search per keyword with bounded concurrency
// and returns the deduplicated video IDs in keyword order. A failing search
// is recorded and skipped; it must not starve the other keywords.
func (m *Method) searchAll(ctx context.Context, channelID string) ([]string, []string) {
	perKeyword := make([][]driven.VideoSummary, len(irKeywords))

	var mu sync.Mutex
	var errs []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrentSearches)
	for i, keyword := range irKeywords {
		g.Go(func() error {
			videos, err := m.api.SearchChannel(gctx, channelID, keyword, resultsPerKeyword)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Sprintf("search %q: %v", keyword, err))
				mu.Unlock()
				return nil
			}
			perKeyword[i] = videos
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]bool)
	var ids []string
	for _, videos := range perKeyword {
		for _, v := range videos {
			if v.ID == "" || seen[v.ID] {
				continue
			}
			seen[v.ID] = true
			ids = append(ids, v.ID)
		}
	}
	return ids, errs
}

func (m *Method) buildCandidates(details []driven.VideoDetails) []domain.Candidate {
	now := m.now()
	var candidates []domain.Candidate

	for _, video := range details {
		if video.DurationSeconds <= minWebcastSeconds {
			continue
		}

		quarter, year, found := domain.ExtractQuarter(video.Title)
		if !found {
			quarter = domain.QuarterUnknown
			year = video.PublishedAt.Year()
		}

		eventDate := video.PublishedAt
		if eventDate.IsZero() || eventDate.After(now) {
			eventDate = now
		}

		description := video.Description
		if len(description) > 500 {
			cut := 500
			for cut > 0 && !utf8.RuneStart(description[cut]) {
				cut--
			}
			description = description[:cut]
		}

		candidates = append(candidates, domain.Candidate{
			Title:           video.Title,
			Description:     description,
			SourceURL:       "https://www.youtube.com/watch?v=" + video.ID,
			SourceType:      domain.SourceAPIVideo,
			ExternalID:      video.ID,
			ThumbnailURL:    video.ThumbnailURL,
			DurationSeconds: video.DurationSeconds,
			EventDate:       eventDate,
			Quarter:         quarter,
			Year:            year,
			ContentType:     domain.ClassifyContent(video.Title),
			Method:          MethodName,
			Confidence:      methodConfidence,
		})
	}
	return candidates
}
