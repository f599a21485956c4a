package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_MissingFileYieldsEmptySettings(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Empty(t, settings.Companies)
}

func TestLoadSettings_DecodesCompanyTables(t *testing.T) {
	content := `
[youtube]
api_key = "yt-key"

[discovery]
method_timeout_seconds = 45
batch_delay_seconds = 2
performance_history = 20

[companies.ABEV3.platform]
name = "Ambev"
urls = [
  "https://ri.ambev.com.br/central-de-resultados/",
  "https://ri.ambev.com.br/webcasts/",
]
audio_keywords = ["áudio", "webcast"]

[companies.WEGE3.site]
page_path = "/informacoes-financeiras"
link_selector = "a.audio-link"
`
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	ambev := settings.Companies["ABEV3"]
	require.NotNil(t, ambev.Platform)
	assert.Equal(t, "Ambev", ambev.Platform.Name)
	assert.Len(t, ambev.Platform.URLs, 2)
	assert.Equal(t, []string{"áudio", "webcast"}, ambev.Platform.AudioKeywords)
	assert.Nil(t, ambev.Site)

	weg := settings.Companies["WEGE3"]
	require.NotNil(t, weg.Site)
	assert.Equal(t, "/informacoes-financeiras", weg.Site.PagePath)
	assert.Equal(t, "a.audio-link", weg.Site.LinkSelector)
	assert.Nil(t, weg.Platform)
}

func TestLoadSettings_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0600))

	_, err := LoadSettings(path)
	assert.Error(t, err)
}
