package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ristream/ricast/internal/core/domain"
	"github.com/ristream/ricast/internal/core/ports/driving"
)

var (
	discoverAll  bool
	discoverJSON bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover [ticker]",
	Short: "Run discovery for one company or the whole catalog",
	Long: `Runs every applicable discovery method for a company concurrently,
consolidates the findings and stores new candidates in the catalog.
With --all, runs the whole catalog sequentially with a pause between
companies.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverAll, "all", false, "run discovery for every company")
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	if discoverer == nil || companyStore == nil {
		return errors.New("discovery service not configured")
	}

	if discoverAll {
		if len(args) > 0 {
			return errors.New("--all cannot be combined with a ticker")
		}
		return runDiscoverAll(cmd)
	}

	if len(args) == 0 {
		return errors.New("provide a ticker or use --all")
	}
	return runDiscoverOne(cmd, args[0])
}

func runDiscoverOne(cmd *cobra.Command, ticker string) error {
	ctx := cmd.Context()
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	company, err := companyStore.GetByTicker(ctx, ticker)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("company %s not found; add it with: ricast companies add", ticker)
		}
		return fmt.Errorf("looking up company: %w", err)
	}

	result, err := discoverer.Discover(ctx, company.ID)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if discoverJSON {
		return outputJSON(cmd, result)
	}

	outputOutcomes(cmd, ticker, result)
	outputCandidates(cmd, result.Candidates)
	for _, e := range result.Errors {
		cmd.Printf("Warning: %s\n", e)
	}
	return nil
}

func runDiscoverAll(cmd *cobra.Command) error {
	summaries, err := discoverer.DiscoverAll(cmd.Context())
	if err != nil && len(summaries) == 0 {
		return fmt.Errorf("batch discovery failed: %w", err)
	}

	if discoverJSON {
		return outputJSON(cmd, summaries)
	}

	outputSummaries(cmd, summaries)

	// A cancelled batch still reports what it got through.
	if err != nil {
		cmd.Printf("Batch interrupted: %v\n", err)
	}
	return nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputOutcomes(cmd *cobra.Command, ticker string, result *domain.ConsolidatedResult) {
	cmd.Printf("Discovery for %s: %d/%d methods succeeded\n",
		ticker, result.MethodsSucceeded(), result.MethodsAttempted())
	if result.BestMethod != "" {
		cmd.Printf("Best method: %s\n", result.BestMethod)
	}
	cmd.Println()

	rows := make([][]string, 0, len(result.Outcomes))
	for i := range result.Outcomes {
		o := &result.Outcomes[i]
		rows = append(rows, []string{
			o.Method,
			yesNo(o.Success),
			strconv.Itoa(o.Yield()),
			o.Elapsed.Round(time.Millisecond).String(),
			o.Err,
		})
	}
	cmd.Println(renderTable(
		[]string{"Method", "Success", "Candidates", "Elapsed", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft}))
}

func outputCandidates(cmd *cobra.Command, candidates []domain.Candidate) {
	if len(candidates) == 0 {
		cmd.Println("No candidates found.")
		return
	}

	rows := make([][]string, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		rows = append(rows, []string{
			c.Title,
			c.Quarter,
			string(c.ContentType),
			fmt.Sprintf("%.2f", c.Confidence),
			c.Method,
			c.SourceURL,
		})
	}
	cmd.Printf("%d unique candidates:\n", len(candidates))
	cmd.Println(renderTable(
		[]string{"Title", "Quarter", "Type", "Conf", "Method", "URL"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}))
}

func outputSummaries(cmd *cobra.Command, summaries []driving.RunSummary) {
	rows := make([][]string, 0, len(summaries))
	for i := range summaries {
		s := &summaries[i]
		rows = append(rows, []string{
			s.Ticker,
			strconv.Itoa(s.NewCandidates),
			strconv.Itoa(s.TotalUnique),
			s.BestMethod,
			strings.Join(s.Errors, "; "),
		})
	}
	cmd.Println(renderTable(
		[]string{"Ticker", "New", "Unique", "Best Method", "Errors"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft}))
}
