package staticsite

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
	status int
	body   string
	err    error
	urls   []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*driven.FetchResult, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return &driven.FetchResult{StatusCode: f.status, Body: f.body}, nil
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

var testCompany = domain.Company{
	ID:        "cmp-1",
	Ticker:    "WEGE3",
	Name:      "WEG",
	IRSiteURL: "https://ri.weg.net",
}

func fixedNow() time.Time { return time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC) }

func newTestMethod(f driven.Fetcher, r driven.PageRenderer, cfgs map[string]SiteConfig) *Method {
	m := New(f, r, cfgs)
	m.now = fixedNow
	return m
}

const resultsPage = `<ul>
	<li>
		<h3>Resultados 2T24</h3>
		<span class="data">07/08/2024</span>
		<a href="/downloads/webcast-2t24.mp3"></a>
	</li>
	<li>
		<h3>Resultados 1T24</h3>
		<a href="https://cdn.weg.net/webcast-1t24">Webcast 1T24</a>
	</li>
</ul>`

func TestRun_ExtractsCandidates(t *testing.T) {
	fetcher := &fakeFetcher{status: 200, body: resultsPage}
	m := newTestMethod(fetcher, nil, map[string]SiteConfig{
		"WEGE3": {PagePath: "/central-de-resultados"},
	})

	outcome := m.Run(context.Background(), testCompany)

	require.Equal(t, []string{"https://ri.weg.net/central-de-resultados"}, fetcher.urls)
	assert.True(t, outcome.Success)
	require.Len(t, outcome.Candidates, 2)

	first := outcome.Candidates[0]
	assert.Equal(t, "Resultados 2T24", first.Title, "empty anchor text falls back to the container title")
	assert.Equal(t, "https://ri.weg.net/downloads/webcast-2t24.mp3", first.SourceURL)
	assert.Equal(t, domain.SourceMediaFile, first.SourceType)
	assert.Equal(t, "2T24", first.Quarter)
	assert.Equal(t, time.Date(2024, 8, 7, 0, 0, 0, 0, time.UTC), first.EventDate,
		"explicit page date beats the quarter approximation")
	assert.Equal(t, domain.ContentResultCall, first.ContentType)
	assert.InDelta(t, 0.6, first.Confidence, 1e-9)

	second := outcome.Candidates[1]
	assert.Equal(t, "Webcast 1T24", second.Title)
	assert.Equal(t, domain.SourceExternalLink, second.SourceType)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), second.EventDate,
		"no page date: last day of the quarter")
}

func TestRun_RenderedFallback(t *testing.T) {
	// Small static shell with no audio links; the rendered page has them.
	fetcher := &fakeFetcher{status: 200, body: `<div id="app"></div>`}
	renderer := &fakeRenderer{html: `<a href="/2t24.mp3">Áudio resultados 2T24</a>`}
	m := newTestMethod(fetcher, renderer, nil)

	outcome := m.Run(context.Background(), testCompany)

	assert.True(t, renderer.called)
	assert.True(t, outcome.Success)
	require.Len(t, outcome.Candidates, 1)
	assert.Equal(t, "https://ri.weg.net/2t24.mp3", outcome.Candidates[0].SourceURL)
}

func TestRun_NoRendererNoFallback(t *testing.T) {
	fetcher := &fakeFetcher{status: 200, body: `<div id="app"></div>`}
	m := newTestMethod(fetcher, nil, nil)

	outcome := m.Run(context.Background(), testCompany)

	assert.False(t, outcome.Success)
	assert.Empty(t, outcome.Err)
}

func TestRun_RenderFailure(t *testing.T) {
	fetcher := &fakeFetcher{status: 200, body: `<div id="app"></div>`}
	renderer := &fakeRenderer{err: errors.New("browser crashed")}
	m := newTestMethod(fetcher, renderer, nil)

	outcome := m.Run(context.Background(), testCompany)

	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Err, "browser crashed")
}

func TestRun_FetchFailure(t *testing.T) {
	m := newTestMethod(&fakeFetcher{err: errors.New("dns failure")}, nil, nil)

	outcome := m.Run(context.Background(), testCompany)

	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Err, "dns failure")
}

func TestRun_HTTPError(t *testing.T) {
	m := newTestMethod(&fakeFetcher{status: 500, body: "oops"}, nil, nil)

	outcome := m.Run(context.Background(), testCompany)

	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Err, "HTTP 500")
}

func TestRun_NoIRSite(t *testing.T) {
	m := newTestMethod(&fakeFetcher{status: 200}, nil, nil)

	outcome := m.Run(context.Background(), domain.Company{ID: "x", Ticker: "XXXX4"})
	assert.False(t, outcome.Success)
	assert.Empty(t, outcome.Err)
}

func TestRun_CustomLinkSelector(t *testing.T) {
	html := `<table><tr><td><a class="gravacao" href="/rec/1t24">Gravação 1T24</a></td>
		<td><a href="/doc/1t24-audio.pdf">audio release</a></td></tr></table>`
	fetcher := &fakeFetcher{status: 200, body: html}
	m := newTestMethod(fetcher, nil, map[string]SiteConfig{
		"WEGE3": {LinkSelector: "a.gravacao"},
	})

	outcome := m.Run(context.Background(), testCompany)

	require.Len(t, outcome.Candidates, 1)
	assert.Equal(t, "Gravação 1T24", outcome.Candidates[0].Title)
}
