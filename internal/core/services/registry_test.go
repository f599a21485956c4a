package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ristream/ricast/internal/core/domain"
	"github.com/ristream/ricast/internal/core/ports/driven"
)

// fakeMethod is a configurable driven.DiscoveryMethod for service tests.
type fakeMethod struct {
	name       string
	candidates []domain.Candidate
	errText    string
	delay      time.Duration
	ignoreCtx  bool
	panics     bool
}

var _ driven.DiscoveryMethod = (*fakeMethod)(nil)

func (m *fakeMethod) Name() string { return m.name }

func (m *fakeMethod) Run(ctx context.Context, _ domain.Company) domain.MethodOutcome {
	if m.panics {
		panic("fake method exploded")
	}
	if m.delay > 0 {
		if m.ignoreCtx {
			time.Sleep(m.delay)
		} else {
			select {
			case <-ctx.Done():
				return domain.MethodOutcome{
					Method: m.name,
					Err:    ctx.Err().Error(),
				}
			case <-time.After(m.delay):
			}
		}
	}
	return domain.MethodOutcome{
		Method:     m.name,
		Success:    len(m.candidates) > 0 && m.errText == "",
		Candidates: m.candidates,
		Err:        m.errText,
	}
}

func testRegistry(configuredTickers []string) *MethodRegistry {
	return NewMethodRegistry(
		&fakeMethod{name: "platform-pattern"},
		&fakeMethod{name: "video-api"},
		&fakeMethod{name: "static-site"},
		&fakeMethod{name: "link-scan"},
		configuredTickers,
		nil,
	)
}

func methodNames(methods []driven.DiscoveryMethod) []string {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Name()
	}
	return names
}

func TestSelectMethods_ConfiguredTicker(t *testing.T) {
	registry := testRegistry([]string{"PETR4"})

	methods := registry.SelectMethods(domain.Company{
		Ticker:    "PETR4",
		IRSiteURL: "https://ri.petrobras.com.br",
	})

	// A pre-registered configuration selects platform-pattern and makes
	// generic static scraping redundant.
	assert.Equal(t, []string{"platform-pattern", "link-scan"}, methodNames(methods))
}

func TestSelectMethods_DetectedPlatform(t *testing.T) {
	registry := testRegistry(nil)

	methods := registry.SelectMethods(domain.Company{
		Ticker:    "WEGE3",
		IRSiteURL: "https://api.mziq.com/mzfilemanager/v2/d/abc/def",
	})

	assert.Equal(t, []string{"platform-pattern", "static-site", "link-scan"}, methodNames(methods))
}

func TestSelectMethods_RaisedPlatformThreshold(t *testing.T) {
	registry := NewMethodRegistry(
		&fakeMethod{name: "platform-pattern"},
		&fakeMethod{name: "video-api"},
		&fakeMethod{name: "static-site"},
		&fakeMethod{name: "link-scan"},
		nil,
		nil,
		WithMinPlatformConfidence(0.6),
	)

	// 3 of 5 MZ indicators in the URL score 0.54: enough for the default
	// threshold, not for the raised one.
	methods := registry.SelectMethods(domain.Company{
		Ticker:    "WEGE3",
		IRSiteURL: "https://api.mziq.com/mzfilemanager/v2/d/abc/def",
	})

	assert.Equal(t, []string{"static-site", "link-scan"}, methodNames(methods))
}

func TestSelectMethods_GenericSiteOnly(t *testing.T) {
	registry := testRegistry(nil)

	methods := registry.SelectMethods(domain.Company{
		Ticker:    "ABEV3",
		IRSiteURL: "https://ri.ambev.com.br",
	})

	assert.Equal(t, []string{"static-site", "link-scan"}, methodNames(methods))
}

func TestSelectMethods_ChannelHandle(t *testing.T) {
	registry := testRegistry(nil)

	methods := registry.SelectMethods(domain.Company{
		Ticker:        "VALE3",
		ChannelHandle: "@valeri",
	})

	assert.Equal(t, []string{"video-api"}, methodNames(methods))
}

func TestSelectMethods_NothingApplicable(t *testing.T) {
	registry := testRegistry(nil)

	methods := registry.SelectMethods(domain.Company{Ticker: "XXXX4"})
	assert.Empty(t, methods)
}

func TestSelectMethods_BestMethodPromoted(t *testing.T) {
	registry := testRegistry(nil)

	methods := registry.SelectMethods(domain.Company{
		Ticker:     "ABEV3",
		IRSiteURL:  "https://ri.ambev.com.br",
		BestMethod: "link-scan",
	})

	require.NotEmpty(t, methods)
	assert.Equal(t, []string{"link-scan", "static-site"}, methodNames(methods))
}

func TestSelectMethods_BestMethodNotSelectedIsIgnored(t *testing.T) {
	registry := testRegistry(nil)

	// video-api was once the best method but the handle has been removed;
	// the hint must not resurrect it.
	methods := registry.SelectMethods(domain.Company{
		Ticker:     "ABEV3",
		IRSiteURL:  "https://ri.ambev.com.br",
		BestMethod: "video-api",
	})

	assert.Equal(t, []string{"static-site", "link-scan"}, methodNames(methods))
}

func TestSelectMethods_NilMethodNeverSelected(t *testing.T) {
	registry := NewMethodRegistry(
		nil,
		nil,
		&fakeMethod{name: "static-site"},
		&fakeMethod{name: "link-scan"},
		[]string{"PETR4"},
		nil,
	)

	methods := registry.SelectMethods(domain.Company{
		Ticker:        "PETR4",
		IRSiteURL:     "https://ri.petrobras.com.br",
		ChannelHandle: "@petrobras",
	})

	assert.Equal(t, []string{"link-scan"}, methodNames(methods))
}
