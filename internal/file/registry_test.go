package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()

	t.Run("tar is checked last", func(t *testing.T) {
		require.NotEmpty(t, r.entries)
		assert.Equal(t, FormatTar, r.entries[len(r.entries)-1].format)
	})

	t.Run("magic bytes select the matching format", func(t *testing.T) {
		tests := []struct {
			name  string
			magic []byte
			want  Format
		}{
			{"zip", []byte{'P', 'K', 0x03, 0x04}, FormatZip},
			{"7z", []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}, FormatSevenZip},
			{"rar", []byte{'R', 'a', 'r', '!', 0x1A, 0x07, 0x00}, FormatRar},
			{"gzip tar", []byte{0x1F, 0x8B, 0x08}, FormatTar},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				entry, found := r.match(tt.magic)
				require.True(t, found)
				assert.Equal(t, tt.want, entry.format)
			})
		}
	})

	t.Run("unknown magic matches nothing", func(t *testing.T) {
		_, found := r.match([]byte("no archive here"))
		assert.False(t, found)
	})

	t.Run("higher priority entries win", func(t *testing.T) {
		r := NewRegistry()
		r.register(backendEntry{
			format:   FormatUnknown,
			matches:  func([]byte) bool { return true },
			open:     nil,
			priority: 1000,
		})
		entry, found := r.match([]byte{'P', 'K', 0x03, 0x04})
		require.True(t, found)
		assert.Equal(t, FormatUnknown, entry.format)
	})
}
