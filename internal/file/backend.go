package file

import (
	"errors"
	"io"
	"time"
)

// Format identifies the container format backing an archive.
type Format int

const (
	FormatUnknown Format = iota
	FormatTar
	FormatZip
	FormatSevenZip
	FormatRar
)

func (f Format) String() string {
	switch f {
	case FormatTar:
		return "tar"
	case FormatZip:
		return "zip"
	case FormatSevenZip:
		return "7z"
	case FormatRar:
		return "rar"
	}
	return "unknown"
}

// ErrUnknownFormat indicates the file is not a recognized archive container.
var ErrUnknownFormat = errors.New("unrecognized archive format")

// ErrNotAFile is returned by Backend.Open for entries that carry no byte
// content (directories, links, device nodes). The underlying libraries
// variously return empty readers, dedicated errors, or wrong data for this
// case; every backend translates its own library's behavior into this one error.
var ErrNotAFile = errors.New("entry is not a regular file")

// Entry is a single raw record from a backend listing. RawName is the member
// path exactly as the backend's lookup and listing surfaces use it; it never
// leaves this package without going through the caller's name transforms.
type Entry struct {
	RawName        string
	Size           int64
	CompressedSize int64
	ModTime        time.Time
	Dir            bool
	Regular        bool

	// position of this entry in the backend's own table
	index int
}

// Backend provides raw list/lookup/read access to one open archive container.
// Implementations hold the underlying resource open until Close and are not
// safe for concurrent use.
type Backend interface {
	// Format reports the container format this backend reads.
	Format() Format

	// Entries returns the raw listing in archival order.
	Entries() []Entry

	// Lookup finds an entry by its raw (backend-form) name. The second return
	// value distinguishes absence from any other failure.
	Lookup(rawName string) (Entry, bool)

	// Open returns a reader over the entry's uncompressed bytes. Returns
	// ErrNotAFile for entries that are not regular files.
	Open(entry Entry) (io.ReadCloser, error)

	// Close releases the underlying container resource.
	Close() error
}
