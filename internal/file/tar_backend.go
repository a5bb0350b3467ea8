package file

import (
	"archive/tar"
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/klauspost/compress/gzip"

	"github.com/halexan/archivefile/internal"
	"github.com/halexan/archivefile/internal/log"
)

// tarBackend reads tar containers, optionally gzip- or bzip2-compressed,
// using an offset index built by a single scan over the stream.
//
// Raw names have the trailing separator stripped on both the listing and the
// lookup surface: tar tools disagree on whether directory entries are stored
// with one, so the raw form here is always the bare name. When two entries
// share a bare name (a file "d" next to a directory "d/") the later one owns
// the lookup key, matching tar's last-entry-wins update rule.
type tarBackend struct {
	reader  io.ReadSeeker
	closers []io.Closer
	entries []Entry
	offsets []int64
	index   map[string]int
}

func newTarBackend(path string, _ string) (Backend, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open archive file: %w", err)
	}

	magic := make([]byte, 3)
	if _, err := io.ReadFull(f, magic); err != nil {
		f.Close()
		return nil, ErrUnknownFormat
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("unable to seek to start: %w", err)
	}

	var reader io.ReadSeeker
	var closers []io.Closer
	compressed := false

	switch {
	case isGzipCompressed(magic):
		compressed = true
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("unable to open gzip stream: %w", err)
		}
		buffered, err := bufferStream(gz)
		internal.CloseAndLogError(gz, path)
		internal.CloseAndLogError(f, path)
		if err != nil {
			return nil, fmt.Errorf("unable to decompress gzip stream: %w", err)
		}
		reader = buffered
	case isBzip2Compressed(magic):
		compressed = true
		buffered, err := bufferStream(bzip2.NewReader(f))
		internal.CloseAndLogError(f, path)
		if err != nil {
			return nil, fmt.Errorf("unable to decompress bzip2 stream: %w", err)
		}
		reader = buffered
	default:
		reader = f
		closers = append(closers, f)
	}

	entries, offsets, index, err := buildTarIndex(reader)
	if err != nil {
		for _, closer := range closers {
			internal.CloseAndLogError(closer, path)
		}
		log.WithFields("error", err, "path", path).Trace("container is not a readable tar archive")
		return nil, ErrUnknownFormat
	}

	if len(entries) == 0 {
		// an empty tar is just the two zero end-of-archive blocks. Accept it
		// only when a compression magic already identified the stream and the
		// marker is actually there; a raw zero-entry stream is
		// indistinguishable from an arbitrary file.
		end, seekErr := reader.Seek(0, io.SeekEnd)
		if !compressed || seekErr != nil || end < 1024 {
			for _, closer := range closers {
				internal.CloseAndLogError(closer, path)
			}
			return nil, ErrUnknownFormat
		}
	}

	return &tarBackend{
		reader:  reader,
		closers: closers,
		entries: entries,
		offsets: offsets,
		index:   index,
	}, nil
}

// bufferStream reads the whole decompressed container into memory so that the
// offset index can seek over it.
func bufferStream(r io.Reader) (io.ReadSeeker, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// buildTarIndex scans through the tar stream once, recording the data offset
// of every entry so member reads can seek directly to the payload.
func buildTarIndex(reader io.ReadSeeker) ([]Entry, []int64, map[string]int, error) {
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return nil, nil, nil, fmt.Errorf("unable to seek to start: %w", err)
	}

	var entries []Entry
	var offsets []int64
	index := make(map[string]int)
	tarReader := tar.NewReader(reader)

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, nil, fmt.Errorf("unable to read tar header: %w", err)
		}

		// current position is where this entry's data starts
		dataOffset, err := reader.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("unable to get data offset: %w", err)
		}

		name := strings.TrimSuffix(header.Name, "/")
		i := len(entries)
		entries = append(entries, Entry{
			RawName:        name,
			Size:           header.Size,
			CompressedSize: header.Size,
			ModTime:        header.ModTime,
			Dir:            header.Typeflag == tar.TypeDir,
			Regular:        header.Typeflag == tar.TypeReg,
			index:          i,
		})
		offsets = append(offsets, dataOffset)
		index[name] = i
	}

	return entries, offsets, index, nil
}

func (t *tarBackend) Format() Format {
	return FormatTar
}

func (t *tarBackend) Entries() []Entry {
	return t.entries
}

func (t *tarBackend) Lookup(rawName string) (Entry, bool) {
	i, exists := t.index[rawName]
	if !exists {
		return Entry{}, false
	}
	return t.entries[i], true
}

func (t *tarBackend) Open(entry Entry) (io.ReadCloser, error) {
	if !entry.Regular {
		return nil, ErrNotAFile
	}

	if _, err := t.reader.Seek(t.offsets[entry.index], io.SeekStart); err != nil {
		return nil, fmt.Errorf("unable to seek to entry data: %w", err)
	}

	// the returned reader shares the backend's stream position; it is only
	// valid until the next Open call
	return io.NopCloser(io.LimitReader(t.reader, entry.Size)), nil
}

func (t *tarBackend) Close() error {
	var errs *multierror.Error
	for i := len(t.closers) - 1; i >= 0; i-- {
		if err := t.closers[i].Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}
