package archivefile

import "github.com/halexan/archivefile/internal/file"

// Format identifies the container format backing an open archive.
type Format = file.Format

const (
	FormatUnknown  = file.FormatUnknown
	FormatTar      = file.FormatTar
	FormatZip      = file.FormatZip
	FormatSevenZip = file.FormatSevenZip
	FormatRar      = file.FormatRar
)

// formatProfile captures how a backend treats trailing separators on its raw
// name surfaces. These are fixed properties of each container format.
type formatProfile struct {
	// stripsSeparatorOnLookup: raw lookups expect the bare name, so a user
	// name must have its trailing separator removed before delegation.
	stripsSeparatorOnLookup bool

	// listingRetainsSeparator: the raw listing already carries the trailing
	// separator on directory entries. When false, the listing transform must
	// reconstruct it from the entry kind.
	listingRetainsSeparator bool
}

// profiles is consulted by the generic lookup/listing logic; the per-format
// differences live here rather than in per-format code paths.
var profiles = map[Format]formatProfile{
	FormatTar:      {stripsSeparatorOnLookup: true, listingRetainsSeparator: false},
	FormatZip:      {stripsSeparatorOnLookup: false, listingRetainsSeparator: true},
	FormatSevenZip: {stripsSeparatorOnLookup: true, listingRetainsSeparator: false},
	FormatRar:      {stripsSeparatorOnLookup: true, listingRetainsSeparator: true},
}
