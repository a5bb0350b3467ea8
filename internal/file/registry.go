package file

import (
	"sort"
	"sync"
)

// openFunc initializes a backend over the container at path.
type openFunc func(path string, password string) (Backend, error)

// backendEntry represents a single container format detection method.
type backendEntry struct {
	format   Format
	matches  func(magic []byte) bool // magic byte predicate
	open     openFunc                // backend constructor
	priority int                     // higher priority entries are checked first (default: 0)
}

// Registry holds the known container formats in detection order.
type Registry struct {
	mu      sync.RWMutex
	entries []backendEntry
}

// DefaultRegistry is the registry consulted by OpenBackend.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a registry populated with the built-in formats.
func NewRegistry() *Registry {
	r := &Registry{}
	r.registerBuiltins()
	return r
}

func (r *Registry) register(entry backendEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)

	// sort by priority (highest first), keeping registration order within a priority
	sort.SliceStable(r.entries, func(i, j int) bool {
		return r.entries[i].priority > r.entries[j].priority
	})
}

func (r *Registry) registerBuiltins() {
	builtins := []backendEntry{
		{
			format:  FormatZip,
			matches: isZipArchive,
			open: func(path, _ string) (Backend, error) {
				return newZipBackend(path)
			},
		},
		{
			format:  FormatSevenZip,
			matches: isSevenZipArchive,
			open:    newSevenZipBackend,
		},
		{
			format:  FormatRar,
			matches: isRarArchive,
			open:    newRarBackend,
		},
		// IMPORTANT! tar must be checked last: its magic sits deep in the
		// header and the gzip/bzip2 signatures mark compression, not the
		// container, so the tar backend verifies by actually parsing the
		// stream.
		{
			format: FormatTar,
			matches: func(magic []byte) bool {
				return isTarArchive(magic) || isGzipCompressed(magic) || isBzip2Compressed(magic)
			},
			open:     newTarBackend,
			priority: -1000,
		},
	}

	r.entries = append(r.entries, builtins...)
}

// match returns the first registered entry whose magic predicate accepts the
// given header bytes.
func (r *Registry) match(magic []byte) (backendEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.entries {
		if entry.matches(magic) {
			return entry, true
		}
	}
	return backendEntry{}, false
}
