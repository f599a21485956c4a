package file

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Settings is the typed view of the config file's structured per-company
// tables, used at wiring time. Scalar knobs (API key, timeouts, thresholds)
// are read through the ConfigStore's flat key lookups instead; this decoder
// exists because nested company tables don't map onto flat keys.
type Settings struct {
	Companies map[string]CompanySettings `toml:"companies"`
}

// CompanySettings holds per-company method overrides, keyed by ticker in the
// config file:
//
//	[companies.ABEV3.platform]
//	urls = ["https://ri.ambev.com.br/central-de-resultados/"]
//
//	[companies.WEGE3.site]
//	page_path = "/informacoes-financeiras"
type CompanySettings struct {
	Platform *PlatformSettings `toml:"platform"`
	Site     *SiteSettings     `toml:"site"`
}

// PlatformSettings pre-registers a company on the platform-pattern method.
type PlatformSettings struct {
	// Name overrides the display name used in generated titles.
	Name string `toml:"name"`

	// URLs are the result-center pages to scan.
	URLs []string `toml:"urls"`

	// AudioKeywords replaces the default audio include-list.
	AudioKeywords []string `toml:"audio_keywords"`

	// ExcludeKeywords replaces the default exclude-list.
	ExcludeKeywords []string `toml:"exclude_keywords"`
}

// SiteSettings configures the static-site method's selectors for one company.
type SiteSettings struct {
	// PagePath is appended to the IR site URL to reach the results page.
	PagePath string `toml:"page_path"`

	// LinkSelector overrides the default audio link selector.
	LinkSelector string `toml:"link_selector"`

	// TitleSelector overrides the default title selector.
	TitleSelector string `toml:"title_selector"`

	// DateSelector overrides the default date selector.
	DateSelector string `toml:"date_selector"`
}

// LoadSettings decodes the config file into the typed settings. A missing
// file yields empty settings.
func LoadSettings(path string) (*Settings, error) {
	settings := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return settings, nil
}
