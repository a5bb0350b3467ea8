package file

import (
	"fmt"
	"io"
	"strings"

	"github.com/nwaples/rardecode"
)

// rarBackend reads rar containers via github.com/nwaples/rardecode.
//
// rardecode is a sequential reader with no random access: the listing is built
// by one full scan at open time, and each member read re-opens the container
// and scans forward to the target entry.
//
// Raw listing names carry a trailing separator on directories (matching how
// rar tooling presents them) while lookup keys are the bare form.
type rarBackend struct {
	path     string
	password string
	entries  []Entry
	index    map[string]int
}

func newRarBackend(path string, password string) (Backend, error) {
	rc, err := rardecode.OpenReader(path, password)
	if err != nil {
		return nil, fmt.Errorf("unable to open rar archive: %w", err)
	}
	defer rc.Close()

	var entries []Entry
	index := make(map[string]int)
	for {
		header, err := rc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read rar header: %w", err)
		}

		name := rarEntryName(header.Name)
		rawName := name
		if header.IsDir {
			rawName += "/"
		}

		i := len(entries)
		entries = append(entries, Entry{
			RawName:        rawName,
			Size:           header.UnPackedSize,
			CompressedSize: header.PackedSize,
			ModTime:        header.ModificationTime,
			Dir:            header.IsDir,
			Regular:        !header.IsDir,
			index:          i,
		})
		index[name] = i
	}

	return &rarBackend{
		path:     path,
		password: password,
		entries:  entries,
		index:    index,
	}, nil
}

// rarEntryName normalizes a rar header name to a bare slash-separated path.
func rarEntryName(name string) string {
	return strings.TrimSuffix(strings.ReplaceAll(name, `\`, "/"), "/")
}

func (r *rarBackend) Format() Format {
	return FormatRar
}

func (r *rarBackend) Entries() []Entry {
	return r.entries
}

func (r *rarBackend) Lookup(rawName string) (Entry, bool) {
	i, exists := r.index[rawName]
	if !exists {
		return Entry{}, false
	}
	return r.entries[i], true
}

func (r *rarBackend) Open(entry Entry) (io.ReadCloser, error) {
	if !entry.Regular {
		return nil, ErrNotAFile
	}

	rc, err := rardecode.OpenReader(r.path, r.password)
	if err != nil {
		return nil, fmt.Errorf("unable to reopen rar archive: %w", err)
	}

	target := strings.TrimSuffix(entry.RawName, "/")
	for {
		header, err := rc.Next()
		if err == io.EOF {
			rc.Close()
			return nil, fmt.Errorf("entry %q no longer present in rar archive", target)
		}
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("unable to read rar header: %w", err)
		}
		if rarEntryName(header.Name) == target {
			return &rarEntryReader{rc: rc}, nil
		}
	}
}

func (r *rarBackend) Close() error {
	// nothing held open between reads
	return nil
}

// rarEntryReader exposes the current entry of an open rar reader and closes
// the whole container when done.
type rarEntryReader struct {
	rc *rardecode.ReadCloser
}

func (e *rarEntryReader) Read(p []byte) (int, error) {
	return e.rc.Read(p)
}

func (e *rarEntryReader) Close() error {
	return e.rc.Close()
}
