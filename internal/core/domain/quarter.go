package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Quarter-label patterns, tried in order. IR sites mix Brazilian ("1T24",
// "1º Trimestre de 2024") and international ("Q3 2023") conventions.
var quarterPatterns = []struct {
	re        *regexp.Regexp
	yearFirst bool
}{
	{re: regexp.MustCompile(`(?i)(\d)[TQ](\d{2})\b`)},                                        // 1T24, 2Q24
	{re: regexp.MustCompile(`(?i)(\d)[TQ](\d{4})\b`)},                                        // 1T2024
	{re: regexp.MustCompile(`(?i)[TQ](\d)\s*[/-]?\s*(\d{2,4})\b`)},                           // Q1 2024, T1-24
	{re: regexp.MustCompile(`(?i)(\d)[ºo]?\s*(?:trimestre|trim|tri)\s*(?:de\s*)?(\d{4})`)},   // 1º Trimestre de 2024
	{re: regexp.MustCompile(`(?i)(\d{4})\s*[–-]\s*(\d)[ºo]?\s*(?:trimestre|trim)`), yearFirst: true}, // 2024 - 1º Trimestre
}

// ExtractQuarter extracts a quarter-year label from free text.
// Two-digit years are normalised by adding 2000. The quarter digit must be
// in [1,4]; anything else yields no match. Returns the "NTyy" label, the
// four-digit year and whether extraction succeeded.
func ExtractQuarter(text string) (string, int, bool) {
	for _, p := range quarterPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		var quarter, year int
		if p.yearFirst {
			year, _ = strconv.Atoi(m[1])
			quarter, _ = strconv.Atoi(m[2])
		} else {
			quarter, _ = strconv.Atoi(m[1])
			year, _ = strconv.Atoi(m[2])
		}
		if year < 100 {
			year += 2000
		}

		// A matched pattern with an impossible quarter digit is a
		// rejection, not an invitation for a later pattern to
		// re-interpret the same text.
		if quarter < 1 || quarter > 4 {
			return QuarterUnknown, 0, false
		}
		return QuarterLabel(quarter, year), year, true
	}

	return QuarterUnknown, 0, false
}

// QuarterLabel renders a quarter and year in the canonical "NTyy" form.
func QuarterLabel(quarter, year int) string {
	return fmt.Sprintf("%dT%02d", quarter, year%100)
}

// QuarterNumber returns the quarter digit of a canonical label, or 0 for
// QuarterUnknown and malformed labels.
func QuarterNumber(label string) int {
	if label == "" || label[0] < '1' || label[0] > '4' {
		return 0
	}
	return int(label[0] - '0')
}

// ClassifyContent determines the content type from a title.
// This is a total function: it degrades to ContentGenericEvent when no
// keyword matches.
func ClassifyContent(title string) ContentType {
	lower := strings.ToLower(title)

	switch {
	case strings.Contains(lower, "investor day"),
		strings.Contains(lower, "dia do investidor"):
		return ContentInvestorDay

	case strings.Contains(lower, "guidance"),
		strings.Contains(lower, "projeção"),
		strings.Contains(lower, "projecao"),
		strings.Contains(lower, "perspectiva"):
		return ContentGuidance

	case strings.Contains(lower, "podcast"):
		return ContentPodcast

	case strings.Contains(lower, "resultado"),
		strings.Contains(lower, "earnings"),
		strings.Contains(lower, "trimestral"),
		strings.Contains(lower, "quarterly"),
		strings.Contains(lower, "conference call"):
		return ContentResultCall
	}

	return ContentGenericEvent
}

// QuarterEndDate approximates an event date from a quarter label when the
// source carries no authoritative timestamp: the last calendar day of the
// quarter. A source cannot predate its own publication, so if that day is
// strictly after now the immediately preceding quarter's last day is used
// instead, rolling the year back when the preceding quarter wraps past Q1.
func QuarterEndDate(quarter, year int, now time.Time) time.Time {
	date := endOfQuarter(quarter, year)

	if date.After(now) {
		currentQuarter := (int(now.Month()) + 2) / 3
		prevQuarter := currentQuarter - 1
		prevYear := now.Year()
		if prevQuarter < 1 {
			prevQuarter = 4
			prevYear--
		}
		return endOfQuarter(prevQuarter, prevYear)
	}

	return date
}

// endOfQuarter returns the last calendar day of a quarter.
func endOfQuarter(quarter, year int) time.Time {
	// Day zero of the following month normalises to the last day of the
	// quarter's final month.
	return time.Date(year, time.Month(quarter*3)+1, 0, 0, 0, 0, 0, time.UTC)
}
