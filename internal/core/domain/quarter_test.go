package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestExtractQuarter_CommonForms tests the label patterns seen on real
// IR pages and video titles.
func TestExtractQuarter_CommonForms(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantLabel string
		wantYear  int
		wantOK    bool
	}{
		{"short Brazilian form", "Resultados 1T24", "1T24", 2024, true},
		{"long Brazilian form", "Teleconferência 2T2023", "2T23", 2023, true},
		{"international form", "Q3 2023 earnings", "3T23", 2023, true},
		{"spelled out", "1º Trimestre de 2024", "1T24", 2024, true},
		{"spelled out without ordinal", "4 trimestre 2022", "4T22", 2022, true},
		{"year first", "2024 - 3º Trimestre", "3T24", 2024, true},
		{"no quarter", "título sem trimestre", QuarterUnknown, 0, false},
		{"quarter digit out of range", "Resultados 5T24", QuarterUnknown, 0, false},
		{"rejected digit is final", "5T24 (ver Q1 2024)", QuarterUnknown, 0, false},
		{"bare year is not enough", "Relatório Anual 2023", QuarterUnknown, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, year, ok := ExtractQuarter(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantLabel, label)
			assert.Equal(t, tt.wantYear, year)
		})
	}
}

// TestExtractQuarter_TwoDigitYearNormalisation tests that years below 100
// are shifted into the 2000s.
func TestExtractQuarter_TwoDigitYearNormalisation(t *testing.T) {
	label, year, ok := ExtractQuarter("áudio da teleconferência 3T19")
	assert.True(t, ok)
	assert.Equal(t, "3T19", label)
	assert.Equal(t, 2019, year)
}

func TestQuarterLabel(t *testing.T) {
	assert.Equal(t, "1T24", QuarterLabel(1, 2024))
	assert.Equal(t, "4T09", QuarterLabel(4, 2009))
}

func TestClassifyContent(t *testing.T) {
	tests := []struct {
		title string
		want  ContentType
	}{
		{"Investor Day 2024", ContentInvestorDay},
		{"Dia do Investidor", ContentInvestorDay},
		{"Guidance 2025", ContentGuidance},
		{"Projeção de resultados", ContentGuidance},
		{"Podcast RI - Episódio 12", ContentPodcast},
		{"Resultados 1T24", ContentResultCall},
		{"Q3 2023 Earnings Conference Call", ContentResultCall},
		{"Assembleia Geral Ordinária", ContentGenericEvent},
		{"", ContentGenericEvent},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyContent(tt.title))
		})
	}
}

// TestQuarterEndDate_PastQuarter tests that a fully elapsed quarter maps to
// its own last calendar day.
func TestQuarterEndDate_PastQuarter(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	date := QuarterEndDate(1, 2024, now)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), date)
}

// TestQuarterEndDate_FutureCorrection tests the mandatory correction: a
// computed date in the future is replaced by the preceding quarter's end.
func TestQuarterEndDate_FutureCorrection(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	// Q3 2024 ends in September, after "now" in May: fall back to Q1 2024.
	date := QuarterEndDate(3, 2024, now)
	assert.True(t, date.Before(now), "corrected date must be strictly in the past")
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), date)
}

// TestQuarterEndDate_YearWrap tests the wrap past Q1 into the previous
// year's Q4.
func TestQuarterEndDate_YearWrap(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	date := QuarterEndDate(4, 2024, now)
	assert.True(t, date.Before(now))
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), date)
}
