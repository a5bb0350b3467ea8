package file

import (
	"archive/tar"
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestTar(t *testing.T, path string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	tw := tar.NewWriter(f)
	files := []struct {
		name     string
		content  string
		typeflag byte
	}{
		{name: "d/", typeflag: tar.TypeDir},
		{name: "d/a.txt", content: "hello", typeflag: tar.TypeReg},
		{name: "link", typeflag: tar.TypeSymlink},
	}
	for _, file := range files {
		header := &tar.Header{
			Name:     file.name,
			Mode:     0o644,
			Typeflag: file.typeflag,
			Size:     int64(len(file.content)),
		}
		if file.typeflag == tar.TypeSymlink {
			header.Linkname = "d/a.txt"
		}
		require.NoError(t, tw.WriteHeader(header))
		if file.content != "" {
			_, err := tw.Write([]byte(file.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
}

func TestTarBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.tar")
	writeTestTar(t, path)

	backend, err := OpenBackend(path, "")
	require.NoError(t, err)
	defer func() { require.NoError(t, backend.Close()) }()

	require.Equal(t, FormatTar, backend.Format())

	t.Run("raw names are stripped of trailing separators", func(t *testing.T) {
		entries := backend.Entries()
		require.Len(t, entries, 3)
		assert.Equal(t, "d", entries[0].RawName)
		assert.True(t, entries[0].Dir)
		assert.Equal(t, "d/a.txt", entries[1].RawName)
	})

	t.Run("lookup uses the bare form", func(t *testing.T) {
		entry, found := backend.Lookup("d")
		require.True(t, found)
		assert.True(t, entry.Dir)

		_, found = backend.Lookup("d/")
		assert.False(t, found)
	})

	t.Run("open reads entry content", func(t *testing.T) {
		entry, found := backend.Lookup("d/a.txt")
		require.True(t, found)

		r, err := backend.Open(entry)
		require.NoError(t, err)
		defer r.Close()

		content, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(content))
	})

	t.Run("open rejects directories", func(t *testing.T) {
		entry, found := backend.Lookup("d")
		require.True(t, found)

		_, err := backend.Open(entry)
		assert.ErrorIs(t, err, ErrNotAFile)
	})

	t.Run("open rejects symlinks", func(t *testing.T) {
		entry, found := backend.Lookup("link")
		require.True(t, found)
		assert.False(t, entry.Dir)
		assert.False(t, entry.Regular)

		_, err := backend.Open(entry)
		assert.ErrorIs(t, err, ErrNotAFile)
	})

	t.Run("repeated opens each read from the start", func(t *testing.T) {
		entry, _ := backend.Lookup("d/a.txt")
		for i := 0; i < 2; i++ {
			r, err := backend.Open(entry)
			require.NoError(t, err)
			content, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, "hello", string(content))
		}
	})
}

func TestZipBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.zip")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, name := range []string{"d/", "d/a.txt"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		if name == "d/a.txt" {
			_, err = w.Write([]byte("hello"))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	backend, err := OpenBackend(path, "")
	require.NoError(t, err)
	defer func() { require.NoError(t, backend.Close()) }()

	require.Equal(t, FormatZip, backend.Format())

	t.Run("raw directory names keep the separator", func(t *testing.T) {
		entries := backend.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "d/", entries[0].RawName)
		assert.True(t, entries[0].Dir)
	})

	t.Run("lookup requires the stored form", func(t *testing.T) {
		_, found := backend.Lookup("d/")
		assert.True(t, found)

		_, found = backend.Lookup("d")
		assert.False(t, found)
	})

	t.Run("open rejects directories instead of yielding empty bytes", func(t *testing.T) {
		entry, found := backend.Lookup("d/")
		require.True(t, found)

		_, err := backend.Open(entry)
		assert.ErrorIs(t, err, ErrNotAFile)
	})
}

func TestOpenBackendUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.bin")
	require.NoError(t, os.WriteFile(path, []byte("garbage content, no archive here"), 0o644))

	_, err := OpenBackend(path, "")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestManifest(t *testing.T) {
	manifest := NewManifest([]string{"src/main.go", "src/util.go", "README.md", "docs/intro.md"})

	t.Run("GlobMatch", func(t *testing.T) {
		assert.Equal(t, []string{"src/main.go", "src/util.go"}, manifest.GlobMatch(false, "src/*.go"))
	})

	t.Run("GlobMatch is case sensitive by default", func(t *testing.T) {
		assert.Empty(t, manifest.GlobMatch(false, "readme.md"))
		assert.Equal(t, []string{"README.md"}, manifest.GlobMatch(true, "readme.md"))
	})

	t.Run("overlapping patterns are deduplicated", func(t *testing.T) {
		assert.Equal(t, []string{"README.md"}, manifest.GlobMatch(false, "*.md", "README.*"))
	})

	t.Run("AllNames preserves order", func(t *testing.T) {
		assert.Equal(t, []string{"src/main.go", "src/util.go", "README.md", "docs/intro.md"}, manifest.AllNames())
	})
}
