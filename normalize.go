package archivefile

import "strings"

// Separator is the path separator used in logical member names. Directory
// members always end with it, file members never do.
const Separator = "/"

// lookupName converts a user-supplied logical name into the form the active
// format's raw lookup expects.
//
// Formats that index directory entries by their bare name need the trailing
// separator removed; zip requires it kept, since its central directory stores
// and matches directory names separator-included.
//
// On stripping formats a file "d" and a directory "d/" collapse to the same
// raw key, so only one of them is reachable by name (the later archive entry,
// mirroring tar's own last-entry-wins update rule). Such archives are
// degenerate on every stripping format's native tooling as well; the listing
// still reports both entries.
func lookupName(profile formatProfile, name string) string {
	if profile.stripsSeparatorOnLookup {
		return strings.TrimSuffix(name, Separator)
	}
	return name
}

// logicalName converts a raw backend name into the logical form presented to
// the user, reconstructing the trailing separator on directories where the
// backend's listing dropped it. Files never receive a separator.
//
// Every name returned by a listing must survive a subsequent lookup unchanged;
// this transform and lookupName together undo exactly the normalization each
// backend applies on its own surfaces.
func logicalName(rawName string, isDir bool) string {
	if isDir && !strings.HasSuffix(rawName, Separator) {
		return rawName + Separator
	}
	return rawName
}
