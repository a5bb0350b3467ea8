package archivefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupName(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		given  string
		want   string
	}{
		{"tar strips directory separator", FormatTar, "foo/bar/", "foo/bar"},
		{"tar leaves file names alone", FormatTar, "foo/bar", "foo/bar"},
		{"zip keeps directory separator", FormatZip, "foo/bar/", "foo/bar/"},
		{"zip leaves file names alone", FormatZip, "foo/bar", "foo/bar"},
		{"7z strips directory separator", FormatSevenZip, "foo/bar/", "foo/bar"},
		{"rar strips directory separator", FormatRar, "foo/bar/", "foo/bar"},
		{"only one separator is removed", FormatTar, "foo/bar//", "foo/bar/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lookupName(profiles[tt.format], tt.given))
		})
	}
}

func TestLogicalName(t *testing.T) {
	tests := []struct {
		name    string
		rawName string
		isDir   bool
		want    string
	}{
		{"directory without separator gets one", "foo/bar", true, "foo/bar/"},
		{"directory with separator is kept", "foo/bar/", true, "foo/bar/"},
		{"file never gets a separator", "foo/bar", false, "foo/bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logicalName(tt.rawName, tt.isDir))
		})
	}
}

func TestProfilesCoverAllFormats(t *testing.T) {
	for _, format := range []Format{FormatTar, FormatZip, FormatSevenZip, FormatRar} {
		_, exists := profiles[format]
		assert.True(t, exists, "missing profile for format %s", format)
	}
}
