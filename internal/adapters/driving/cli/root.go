// Package cli provides the ricast command-line interface: catalog
// management, single-company and batch discovery runs, and version
// reporting. Services are wired once per invocation from the TOML config
// and the SQLite catalog; tests swap the package-level service variables
// for fakes.
package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/ristream/ricast/internal/adapters/driven/config/file"
	"github.com/ristream/ricast/internal/adapters/driven/fetch"
	"github.com/ristream/ricast/internal/adapters/driven/storage/sqlite"
	"github.com/ristream/ricast/internal/adapters/driven/youtube"
	"github.com/ristream/ricast/internal/core/ports/driven"
	"github.com/ristream/ricast/internal/core/ports/driving"
	"github.com/ristream/ricast/internal/core/services"
	"github.com/ristream/ricast/internal/logger"
	"github.com/ristream/ricast/internal/methods/linkscan"
	"github.com/ristream/ricast/internal/methods/platformpattern"
	"github.com/ristream/ricast/internal/methods/staticsite"
	"github.com/ristream/ricast/internal/methods/videoapi"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
	dataDir   string
)

// Package-level services, wired by initServices. Tests replace these with
// fakes before executing commands.
var (
	store          *sqlite.Store
	companyStore   driven.CompanyStore
	candidateStore driven.CandidateStore
	discoverer     driving.Discoverer
)

var rootCmd = &cobra.Command{
	Use:   "ricast",
	Short: "Discover investor relations webcasts and result-call audio",
	Long: `ricast discovers earnings-call audio and webcasts published by listed
companies. Several independent discovery methods run concurrently per
company (platform patterns, video platform search, static scraping, link
scanning); their findings are deduplicated, ranked by confidence and
stored in a local catalog.`,
	SilenceUsage: true,
}

func init() {
	// Assigned here rather than in the composite literal to avoid an
	// initialization cycle: initServices reaches rootCmd through
	// buildDiscoverer.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Name() == "version" {
			return nil
		}
		return initServices()
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		if store != nil {
			_ = store.Close()
			store = nil
		}
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.ricast)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "catalog directory (default ~/.ricast/data)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices wires stores, methods and the orchestrator. A test that has
// already injected services keeps them.
func initServices() error {
	if discoverer != nil && companyStore != nil {
		return nil
	}

	configStore, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	if !verbose && configStore.GetBool("discovery.verbose") {
		logger.SetVerbose(true)
	}

	// The same file serves two readers: flat keys through the config
	// store, per-company tables through the typed decoder.
	settings, err := configfile.LoadSettings(configStore.Path())
	if err != nil {
		return err
	}

	store, err = sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	companyStore = store.CompanyStore()
	candidateStore = store.CandidateStore()

	discoverer = buildDiscoverer(store, configStore, settings)
	return nil
}

// buildDiscoverer assembles the method registry and orchestrator from the
// configuration.
func buildDiscoverer(store *sqlite.Store, cfg driven.ConfigStore, settings *configfile.Settings) driving.Discoverer {
	fetcher := fetch.NewClient()
	disabled := cfg.GetStringSlice("discovery.disabled_methods")

	platformConfigs := make(map[string]platformpattern.CompanyConfig)
	siteConfigs := make(map[string]staticsite.SiteConfig)
	var configuredTickers []string
	for ticker, company := range settings.Companies {
		if company.Platform != nil {
			platformConfigs[ticker] = platformpattern.CompanyConfig{
				Name:            company.Platform.Name,
				URLs:            company.Platform.URLs,
				AudioKeywords:   company.Platform.AudioKeywords,
				ExcludeKeywords: company.Platform.ExcludeKeywords,
			}
			configuredTickers = append(configuredTickers, ticker)
		}
		if company.Site != nil {
			siteConfigs[ticker] = staticsite.SiteConfig{
				PagePath:      company.Site.PagePath,
				LinkSelector:  company.Site.LinkSelector,
				TitleSelector: company.Site.TitleSelector,
				DateSelector:  company.Site.DateSelector,
			}
		}
	}

	var videoMethod driven.DiscoveryMethod
	if apiKey := cfg.GetString("youtube.api_key"); apiKey == "" {
		logger.Info("No video API key configured; video search disabled")
	} else if !slices.Contains(disabled, videoapi.MethodName) {
		client, err := youtube.NewClient(rootCmd.Context(), apiKey)
		if err != nil {
			logger.Warn("Video platform client unavailable: %v", err)
		} else {
			videoMethod = videoapi.New(client)
		}
	}

	var platformOpts []platformpattern.Option
	var registryOpts []services.RegistryOption
	if min := cfg.GetFloat("discovery.min_platform_confidence"); min > 0 {
		platformOpts = append(platformOpts, platformpattern.WithMinDetectConfidence(min))
		registryOpts = append(registryOpts, services.WithMinPlatformConfidence(min))
	}

	var platformMethod, staticMethod, linkMethod driven.DiscoveryMethod
	if !slices.Contains(disabled, platformpattern.MethodName) {
		platformMethod = platformpattern.New(fetcher, nil, platformConfigs, platformOpts...)
	}
	if !slices.Contains(disabled, staticsite.MethodName) {
		staticMethod = staticsite.New(fetcher, nil, siteConfigs)
	}
	if !slices.Contains(disabled, linkscan.MethodName) {
		linkMethod = linkscan.New(fetcher)
	}

	// No browser renderer in the CLI build; methods fall back to the
	// static document only.
	registry := services.NewMethodRegistry(
		platformMethod,
		videoMethod,
		staticMethod,
		linkMethod,
		configuredTickers,
		nil,
		registryOpts...,
	)

	var opts []services.OrchestratorOption
	if sec := cfg.GetInt("discovery.method_timeout_seconds"); sec > 0 {
		timeout := time.Duration(sec) * time.Second
		for _, name := range []string{
			platformpattern.MethodName,
			videoapi.MethodName,
			staticsite.MethodName,
			linkscan.MethodName,
		} {
			opts = append(opts, services.WithMethodTimeout(name, timeout))
		}
	}
	if sec := cfg.GetInt("discovery.batch_delay_seconds"); sec > 0 {
		opts = append(opts, services.WithBatchDelay(time.Duration(sec)*time.Second))
	}
	if keep := cfg.GetInt("discovery.performance_history"); keep > 0 {
		opts = append(opts, services.WithPerformanceHistory(keep))
	}

	return services.NewDiscoveryOrchestrator(
		store.CompanyStore(),
		store.CandidateStore(),
		store.PerformanceStore(),
		registry,
		opts...,
	)
}
