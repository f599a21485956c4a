package domain

import "time"

// Company represents a listed company whose published webcasts are
// discovered. Companies are managed by the catalog commands; the discovery
// core reads them and only ever writes back the BestMethod annotation.
type Company struct {
	// ID is the unique identifier for the company.
	ID string

	// Ticker is the exchange ticker symbol (e.g. "PETR4").
	Ticker string

	// Name is the human-readable company name.
	Name string

	// Sector is the industry sector, informational only.
	Sector string

	// IRSiteURL is the investor-relations site, when known.
	// Empty when the company has no usable IR page.
	IRSiteURL string

	// ChannelHandle is the video-platform channel handle or ID
	// (e.g. "@bancodobrasil" or a raw channel ID). Empty when unknown.
	ChannelHandle string

	// BestMethod is the discovery method that yielded the most candidates
	// on the last run. Empty until a run succeeds. This is the only field
	// the discovery core mutates.
	BestMethod string

	// CreatedAt is when the company was added to the catalog.
	CreatedAt time.Time

	// UpdatedAt is when the company was last updated.
	UpdatedAt time.Time
}

// HasIRSite reports whether the company has a configured IR site URL.
func (c *Company) HasIRSite() bool {
	return c.IRSiteURL != ""
}

// HasChannel reports whether the company has a video-platform channel.
func (c *Company) HasChannel() bool {
	return c.ChannelHandle != ""
}
