package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/ristream/ricast/internal/adapters/driven/storage/memory"
	"github.com/ristream/ricast/internal/core/domain"
	"github.com/ristream/ricast/internal/core/ports/driving"
)

// fakeDiscoverer returns canned results so command tests never touch the
// network or the filesystem.
type fakeDiscoverer struct {
	result    *domain.ConsolidatedResult
	summaries []driving.RunSummary
	err       error

	discoveredID string
}

func (f *fakeDiscoverer) Discover(_ context.Context, companyID string) (*domain.ConsolidatedResult, error) {
	f.discoveredID = companyID
	return f.result, f.err
}

func (f *fakeDiscoverer) DiscoverAll(context.Context) ([]driving.RunSummary, error) {
	return f.summaries, f.err
}

// setupTestServices swaps the package-level services for in-memory fakes and
// returns a cleanup restoring the originals.
func setupTestServices(fake *fakeDiscoverer) (*memory.CompanyStore, func()) {
	oldCompanies := companyStore
	oldCandidates := candidateStore
	oldDiscoverer := discoverer

	companies := memory.NewCompanyStore()
	companyStore = companies
	candidateStore = memory.NewCandidateStore()
	discoverer = fake

	return companies, func() {
		companyStore = oldCompanies
		candidateStore = oldCandidates
		discoverer = oldDiscoverer
	}
}

func seedCompany(companies *memory.CompanyStore, id, ticker string) {
	_ = companies.Save(context.Background(), &domain.Company{
		ID:        id,
		Ticker:    ticker,
		Name:      "Company " + ticker,
		IRSiteURL: "https://ri.example.com.br",
	})
}

func discoveryResult() *domain.ConsolidatedResult {
	return &domain.ConsolidatedResult{
		CompanyID: "cmp-1",
		Candidates: []domain.Candidate{{
			Title:       "Resultados 2T24",
			SourceURL:   "https://api.mziq.com/d/audio-2t24",
			SourceType:  domain.SourceMediaFile,
			Quarter:     "2T24",
			Year:        2024,
			ContentType: domain.ContentResultCall,
			Method:      "platform-pattern",
			Confidence:  0.85,
		}},
		Outcomes: []domain.MethodOutcome{
			{Method: "platform-pattern", Success: true, Elapsed: 120 * time.Millisecond,
				Candidates: []domain.Candidate{{Title: "Resultados 2T24", SourceURL: "u"}}},
			{Method: "link-scan", Success: false, Err: "fetch failed", Elapsed: 40 * time.Millisecond},
		},
		BestMethod: "platform-pattern",
	}
}

// execute runs the root command with args and returns its combined output.
// Flag variables are package-level, so they are reset between runs.
func execute(args ...string) (string, error) {
	discoverAll = false
	discoverJSON = false
	companySector = ""
	companyIRSite = ""
	companyChannel = ""

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
