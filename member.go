package archivefile

import (
	"time"

	"github.com/halexan/archivefile/internal/file"
)

// MemberKind classifies an archive member.
type MemberKind int

const (
	KindFile MemberKind = iota
	KindDirectory
)

func (k MemberKind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// Member describes one entry of an archive. The Name is the logical form:
// directories end with a separator, files never do, and any name obtained
// from a listing can be passed back to GetMember unchanged.
//
// Members are plain values created by lookups and enumerations; they are
// never mutated after construction.
type Member struct {
	// Name is the logical member path.
	Name string

	// Kind reports whether the member is a file or a directory.
	Kind MemberKind

	// Size is the uncompressed size in bytes.
	Size int64

	// CompressedSize is the stored size in bytes. Formats that do not record
	// a per-entry compressed size report the uncompressed size here.
	CompressedSize int64

	// ModTime is the member's modification time as recorded by the container.
	ModTime time.Time

	// entry is the raw backend record this member resolved to.
	entry file.Entry
}

// IsDir reports whether the member is a directory.
func (m Member) IsDir() bool {
	return m.Kind == KindDirectory
}

// IsFile reports whether the member is a regular file entry.
func (m Member) IsFile() bool {
	return m.Kind == KindFile
}

func (m Member) String() string {
	return m.Name
}

func newMember(entry file.Entry) Member {
	kind := KindFile
	if entry.Dir {
		kind = KindDirectory
	}
	return Member{
		Name:           logicalName(entry.RawName, entry.Dir),
		Kind:           kind,
		Size:           entry.Size,
		CompressedSize: entry.CompressedSize,
		ModTime:        entry.ModTime,
		entry:          entry,
	}
}
