package platformpattern

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ristream/ricast/internal/core/domain"
	"github.com/ristream/ricast/internal/core/ports/driven"
)

type fakeFetcher struct {
	pages map[string]*driven.FetchResult
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*driven.FetchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if res, ok := f.pages[url]; ok {
		return res, nil
	}
	return &driven.FetchResult{StatusCode: 404}, nil
}

type fakeRenderer struct {
	html   string
	err    error
	called bool
}

func (r *fakeRenderer) Render(_ context.Context, _ string) (string, error) {
	r.called = true
	return r.html, r.err
}

func fixedNow() time.Time { return time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC) }

func newTestMethod(f driven.Fetcher, r driven.PageRenderer, cfgs map[string]CompanyConfig) *Method {
	m := New(f, r, cfgs)
	m.now = fixedNow
	return m
}

const resultsCenter = `<table>
	<tr>
		<td>3T24</td>
		<td><a href="https://api.mziq.com/mzfilemanager/v2/d/x/audio-3t24">Áudio da teleconferência</a></td>
	</tr>
	<tr>
		<td>3T24</td>
		<td><a href="https://api.mziq.com/mzfilemanager/v2/d/x/release-3t24">Release de resultados</a></td>
	</tr>
	<tr>
		<td>2T24</td>
		<td><a href="https://api.mziq.com/mzfilemanager/v2/d/x/transcricao-2t24">Transcrição</a></td>
		<td><a href="/downloads/2t24.mp3">webcast</a></td>
	</tr>
</table>`

func TestRun_ConfiguredCompany(t *testing.T) {
	pageURL := "https://ri.totvs.com/central-de-resultados/"
	fetcher := &fakeFetcher{pages: map[string]*driven.FetchResult{
		pageURL: {StatusCode: 200, Body: resultsCenter},
	}}
	m := newTestMethod(fetcher, nil, map[string]CompanyConfig{
		"TOTS3": {Name: "TOTVS", URLs: []string{pageURL}},
	})

	outcome := m.Run(context.Background(), domain.Company{
		ID: "cmp-1", Ticker: "TOTS3", Name: "TOTVS",
	})

	assert.True(t, outcome.Success)
	require.Len(t, outcome.Candidates, 2)

	audio := outcome.Candidates[0]
	assert.Equal(t, "https://api.mziq.com/mzfilemanager/v2/d/x/audio-3t24", audio.SourceURL)
	assert.Equal(t, domain.SourceMediaFile, audio.SourceType)
	assert.Equal(t, "3T24", audio.Quarter)
	assert.Equal(t, 2024, audio.Year)
	assert.Equal(t, time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC), audio.EventDate)
	assert.InDelta(t, 0.85, audio.Confidence, 1e-9)
	assert.Contains(t, audio.Title, "TOTVS")

	direct := outcome.Candidates[1]
	assert.Equal(t, "https://ri.totvs.com/downloads/2t24.mp3", direct.SourceURL)
	assert.Equal(t, "2T24", direct.Quarter)
}

func TestRun_ExcludesTranscriptsAndReleases(t *testing.T) {
	pageURL := "https://ri.totvs.com/central-de-resultados/"
	fetcher := &fakeFetcher{pages: map[string]*driven.FetchResult{
		pageURL: {StatusCode: 200, Body: `<table><tr><td>1T24</td>
			<td><a href="https://api.mziq.com/d/a">Transcrição da teleconferência</a></td>
			<td><a href="https://api.mziq.com/d/b">Apresentação 1T24</a></td>
		</tr></table>`},
	}}
	m := newTestMethod(fetcher, nil, map[string]CompanyConfig{
		"TOTS3": {Name: "TOTVS", URLs: []string{pageURL}},
	})

	outcome := m.Run(context.Background(), domain.Company{Ticker: "TOTS3", Name: "TOTVS"})
	assert.Empty(t, outcome.Candidates)
	assert.False(t, outcome.Success)
}

func TestRun_AutoDetectedCompany(t *testing.T) {
	irURL := "https://api.mziq.com/mzfilemanager/central_de_resultados"
	fetcher := &fakeFetcher{pages: map[string]*driven.FetchResult{
		irURL: {StatusCode: 200, Body: `<table><tr><td>2T24</td>
			<td><a href="https://api.mziq.com/d/audio">Áudio webcast</a></td></tr></table>`},
	}}
	m := newTestMethod(fetcher, nil, nil)

	outcome := m.Run(context.Background(), domain.Company{
		Ticker: "PRIO3", Name: "PRIO", IRSiteURL: irURL,
	})

	assert.True(t, outcome.Success)
	require.Len(t, outcome.Candidates, 1)
	// Detector: 4 of 5 MZ indicators in the URL, discounted for
	// auto-detection.
	assert.InDelta(t, 0.9*4.0/5.0*0.8, outcome.Candidates[0].Confidence, 1e-9)
}

func TestRun_RaisedDetectThresholdSkipsAutoDetect(t *testing.T) {
	irURL := "https://api.mziq.com/mzfilemanager/central_de_resultados"
	fetcher := &fakeFetcher{err: errors.New("must not be called")}
	m := New(fetcher, nil, nil, WithMinDetectConfidence(0.8))

	// The detector scores this URL 0.72; below the raised threshold the
	// company is not attempted at all.
	outcome := m.Run(context.Background(), domain.Company{
		Ticker: "PRIO3", Name: "PRIO", IRSiteURL: irURL,
	})

	assert.False(t, outcome.Success)
	assert.Empty(t, outcome.Candidates)
	assert.Empty(t, outcome.Err)
}

func TestRun_NotApplicable(t *testing.T) {
	m := newTestMethod(&fakeFetcher{}, nil, nil)

	outcome := m.Run(context.Background(), domain.Company{
		Ticker: "ABEV3", IRSiteURL: "https://ri.ambev.com.br",
	})

	assert.False(t, outcome.Success)
	assert.Empty(t, outcome.Err)
	assert.Empty(t, outcome.Candidates)
}

func TestRun_RenderedFallback(t *testing.T) {
	pageURL := "https://ri.totvs.com/central-de-resultados/"
	fetcher := &fakeFetcher{pages: map[string]*driven.FetchResult{
		pageURL: {StatusCode: 200, Body: `<script>categories.push({});</script>`},
	}}
	renderer := &fakeRenderer{html: `<table><tr><td>4T23</td>
		<td><a href="https://api.mziq.com/d/audio">Áudio da teleconferência</a></td></tr></table>`}
	m := newTestMethod(fetcher, renderer, map[string]CompanyConfig{
		"TOTS3": {Name: "TOTVS", URLs: []string{pageURL}},
	})

	outcome := m.Run(context.Background(), domain.Company{Ticker: "TOTS3", Name: "TOTVS"})

	assert.True(t, renderer.called)
	assert.True(t, outcome.Success)
	require.Len(t, outcome.Candidates, 1)
	assert.Equal(t, "4T23", outcome.Candidates[0].Quarter)
}

func TestRun_PartialPageFailure(t *testing.T) {
	okURL := "https://ri.totvs.com/resultados/"
	fetcher := &fakeFetcher{pages: map[string]*driven.FetchResult{
		okURL: {StatusCode: 200, Body: `<table><tr><td>1T24</td>
			<td><a href="https://api.mziq.com/d/audio">Áudio</a></td></tr></table>`},
	}}
	m := newTestMethod(fetcher, nil, map[string]CompanyConfig{
		"TOTS3": {Name: "TOTVS", URLs: []string{"https://ri.totvs.com/missing/", okURL}},
	})

	outcome := m.Run(context.Background(), domain.Company{Ticker: "TOTS3", Name: "TOTVS"})

	// One page 404s but the other yields, so the run is a success with no
	// error.
	assert.True(t, outcome.Success)
	assert.Empty(t, outcome.Err)
	assert.Len(t, outcome.Candidates, 1)
}

func TestRun_AllPagesFail(t *testing.T) {
	m := newTestMethod(&fakeFetcher{err: errors.New("network down")}, nil,
		map[string]CompanyConfig{
			"TOTS3": {Name: "TOTVS", URLs: []string{"https://ri.totvs.com/"}},
		})

	outcome := m.Run(context.Background(), domain.Company{Ticker: "TOTS3", Name: "TOTVS"})

	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Err, "network down")
}
