package file

import (
	"archive/zip"
	"fmt"
	"io"
)

// zipBackend reads zip containers through the central directory.
//
// Raw names are kept exactly as stored: directory entries carry a trailing
// separator and lookups must include it, which is how the zip central
// directory itself behaves.
type zipBackend struct {
	rc      *zip.ReadCloser
	entries []Entry
	index   map[string]int
}

func newZipBackend(path string) (Backend, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open zip archive: %w", err)
	}

	entries := make([]Entry, 0, len(rc.File))
	index := make(map[string]int, len(rc.File))
	for i, zf := range rc.File {
		isDir := zf.FileInfo().IsDir()
		entries = append(entries, Entry{
			RawName:        zf.Name,
			Size:           int64(zf.UncompressedSize64),
			CompressedSize: int64(zf.CompressedSize64),
			ModTime:        zf.Modified,
			Dir:            isDir,
			Regular:        !isDir,
			index:          i,
		})
		index[zf.Name] = i
	}

	return &zipBackend{
		rc:      rc,
		entries: entries,
		index:   index,
	}, nil
}

func (z *zipBackend) Format() Format {
	return FormatZip
}

func (z *zipBackend) Entries() []Entry {
	return z.entries
}

func (z *zipBackend) Lookup(rawName string) (Entry, bool) {
	i, exists := z.index[rawName]
	if !exists {
		return Entry{}, false
	}
	return z.entries[i], true
}

func (z *zipBackend) Open(entry Entry) (io.ReadCloser, error) {
	// zip.File.Open on a directory entry succeeds and yields zero bytes;
	// guard here so that never masquerades as file content
	if !entry.Regular {
		return nil, ErrNotAFile
	}

	r, err := z.rc.File[entry.index].Open()
	if err != nil {
		return nil, fmt.Errorf("unable to open zip entry: %w", err)
	}
	return r, nil
}

func (z *zipBackend) Close() error {
	return z.rc.Close()
}
