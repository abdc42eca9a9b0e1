package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/soda/pkg/soda"
)

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		baseURL string
		domain  string
	}{
		{
			name:    "bare domain",
			raw:     "data.cityofchicago.org",
			baseURL: "https://data.cityofchicago.org",
			domain:  "data.cityofchicago.org",
		},
		{
			name:    "trailing slash",
			raw:     "data.cityofchicago.org/",
			baseURL: "https://data.cityofchicago.org",
			domain:  "data.cityofchicago.org",
		},
		{
			name:    "https url",
			raw:     "https://data.cityofchicago.org/",
			baseURL: "https://data.cityofchicago.org",
			domain:  "data.cityofchicago.org",
		},
		{
			name:    "http url with port",
			raw:     "http://127.0.0.1:8080",
			baseURL: "http://127.0.0.1:8080",
			domain:  "127.0.0.1:8080",
		},
		{
			name:    "surrounding whitespace",
			raw:     "  data.example.com ",
			baseURL: "https://data.example.com",
			domain:  "data.example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseURL, domain := normalizeDomain(tt.raw)
			assert.Equal(t, tt.baseURL, baseURL)
			assert.Equal(t, tt.domain, domain)
		})
	}
}

func TestValidateFilename(t *testing.T) {
	assert.NoError(t, validateFilename("readme.pdf"))
	assert.NoError(t, validateFilename("report..v2.pdf"))

	assert.ErrorIs(t, validateFilename(""), soda.ErrAttachmentEmptyName)

	for _, name := range []string{"../escape.sh", "a/b.pdf", `a\b.pdf`, "/etc/passwd", ".", ".."} {
		assert.ErrorIs(t, validateFilename(name), soda.ErrUnsafeAttachmentName, name)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	expanded, err := expandHome("~")
	require.NoError(t, err)
	assert.Equal(t, home, expanded)

	expanded, err = expandHome("~/downloads")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "downloads"), expanded)

	expanded, err = expandHome("/var/data")
	require.NoError(t, err)
	assert.Equal(t, "/var/data", expanded)

	expanded, err = expandHome("relative/dir")
	require.NoError(t, err)
	assert.Equal(t, "relative/dir", expanded)
}
