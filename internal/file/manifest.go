package file

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/scylladb/go-set/strset"
)

// Manifest provides pattern matching over the logical member names of an
// archive. Match results are deduplicated and sorted; the input listing order
// is not significant for globbing.
type Manifest struct {
	names []string
}

func NewManifest(names []string) *Manifest {
	return &Manifest{names: names}
}

// GlobMatch returns the names matching any of the given doublestar patterns.
func (m *Manifest) GlobMatch(caseInsensitive bool, patterns ...string) []string {
	uniqueMatches := strset.New()

	for _, pattern := range patterns {
		if caseInsensitive {
			pattern = strings.ToLower(pattern)
		}
		for _, name := range m.names {
			candidate := name
			if caseInsensitive {
				candidate = strings.ToLower(candidate)
			}
			if matched, err := doublestar.Match(pattern, candidate); err == nil && matched {
				uniqueMatches.Add(name)
			}
		}
	}

	results := uniqueMatches.List()
	sort.Strings(results)
	return results
}

// AllNames returns every name in the manifest, in the original listing order.
func (m *Manifest) AllNames() []string {
	names := make([]string, len(m.names))
	copy(names, m.names)
	return names
}
