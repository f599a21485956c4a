package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ristream/ricast/internal/core/domain"
)

var (
	companySector  string
	companyIRSite  string
	companyChannel string
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Manage the company catalog",
}

var companiesAddCmd = &cobra.Command{
	Use:   "add [ticker] [name]",
	Short: "Add a company to the catalog",
	Long: `Adds a company to the catalog. Discovery needs at least one of an IR
site URL (--ir-url) or a video channel handle (--channel) to have
anything to work with.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompaniesAdd,
}

var companiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog companies",
	Args:  cobra.NoArgs,
	RunE:  runCompaniesList,
}

var companiesRemoveCmd = &cobra.Command{
	Use:   "remove [ticker]",
	Short: "Remove a company and its discovered candidates",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompaniesRemove,
}

func init() {
	companiesAddCmd.Flags().StringVar(&companySector, "sector", "", "company sector")
	companiesAddCmd.Flags().StringVar(&companyIRSite, "ir-url", "", "investor relations site URL")
	companiesAddCmd.Flags().StringVar(&companyChannel, "channel", "", "video channel handle (e.g. @petrobras)")

	companiesCmd.AddCommand(companiesAddCmd)
	companiesCmd.AddCommand(companiesListCmd)
	companiesCmd.AddCommand(companiesRemoveCmd)
	rootCmd.AddCommand(companiesCmd)
}

func runCompaniesAdd(cmd *cobra.Command, args []string) error {
	if companyStore == nil {
		return errors.New("company store not configured")
	}

	ticker := strings.ToUpper(strings.TrimSpace(args[0]))
	if ticker == "" {
		return errors.New("ticker must not be empty")
	}

	ctx := cmd.Context()
	if _, err := companyStore.GetByTicker(ctx, ticker); err == nil {
		return fmt.Errorf("company %s already exists", ticker)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("checking ticker: %w", err)
	}

	company := &domain.Company{
		ID:            uuid.NewString(),
		Ticker:        ticker,
		Name:          args[1],
		Sector:        companySector,
		IRSiteURL:     companyIRSite,
		ChannelHandle: companyChannel,
	}
	if err := companyStore.Save(ctx, company); err != nil {
		return fmt.Errorf("saving company: %w", err)
	}

	cmd.Printf("Added %s (%s)\n", company.Ticker, company.Name)
	if !company.HasIRSite() && !company.HasChannel() {
		cmd.Println("Note: no IR site or channel configured; discovery will find nothing.")
	}
	return nil
}

func runCompaniesList(cmd *cobra.Command, _ []string) error {
	if companyStore == nil {
		return errors.New("company store not configured")
	}

	companies, err := companyStore.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing companies: %w", err)
	}
	if len(companies) == 0 {
		cmd.Println("No companies in the catalog. Add one with: ricast companies add [ticker] [name]")
		return nil
	}

	rows := make([][]string, 0, len(companies))
	for i := range companies {
		c := &companies[i]
		rows = append(rows, []string{
			c.Ticker,
			c.Name,
			c.Sector,
			yesNo(c.HasIRSite()),
			yesNo(c.HasChannel()),
			c.BestMethod,
		})
	}

	cmd.Println(renderTable(
		[]string{"Ticker", "Name", "Sector", "IR Site", "Channel", "Best Method"},
		rows, nil))
	return nil
}

func runCompaniesRemove(cmd *cobra.Command, args []string) error {
	if companyStore == nil {
		return errors.New("company store not configured")
	}

	ticker := strings.ToUpper(strings.TrimSpace(args[0]))
	ctx := cmd.Context()

	company, err := companyStore.GetByTicker(ctx, ticker)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("company %s not found", ticker)
		}
		return fmt.Errorf("looking up company: %w", err)
	}

	if err := companyStore.Delete(ctx, company.ID); err != nil {
		return fmt.Errorf("removing company: %w", err)
	}

	cmd.Printf("Removed %s\n", ticker)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
