package archivefile

import (
	"errors"
	"fmt"
)

// Sentinel errors for matching with errors.Is. The concrete error values
// carry the member and archive path involved.
var (
	ErrMemberNotFound    = errors.New("member not found in archive")
	ErrNotAFile          = errors.New("archive member is not a file")
	ErrUnsupportedFormat = errors.New("unsupported archive format")
)

// MemberNotFoundError indicates a lookup matched no entry in the archive.
type MemberNotFoundError struct {
	Member string
	File   string
}

func (e *MemberNotFoundError) Error() string {
	return fmt.Sprintf("archive member %q not found in file %q", e.Member, e.File)
}

func (e *MemberNotFoundError) Is(target error) bool {
	return target == ErrMemberNotFound
}

// NotAFileError indicates a byte read was attempted against a member that is
// not a regular file (a directory, link, or other special entry). This is
// reported uniformly even though the underlying readers variously return
// empty content, dedicated errors, or nothing at all for this case.
type NotAFileError struct {
	Member string
	File   string
}

func (e *NotAFileError) Error() string {
	return fmt.Sprintf("archive member %q in file %q is not a file and cannot be read", e.Member, e.File)
}

func (e *NotAFileError) Is(target error) bool {
	return target == ErrNotAFile
}

// UnsupportedFormatError indicates the file is not a recognized archive
// container.
type UnsupportedFormatError struct {
	File string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported or unrecognized archive format for file %q", e.File)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}
