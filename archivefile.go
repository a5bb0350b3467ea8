/*
Package archivefile provides uniform read access to tar (plain, gzip, bzip2),
zip, 7z, and rar archives.

The listing, lookup, and read behavior is identical across formats: directory
members always appear with a trailing separator, file members never do, and
every name returned by GetNames can be passed back to GetMember unchanged.
Reading a directory member fails the same way everywhere, regardless of how
the underlying format library would have reacted.
*/
package archivefile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/halexan/archivefile/internal"
	"github.com/halexan/archivefile/internal/file"
	"github.com/halexan/archivefile/internal/log"
)

// ArchiveFile provides read access to the members of one archive. It holds
// the underlying container open until Close and is not safe for concurrent
// use; open independent instances for concurrent access.
type ArchiveFile struct {
	path     string
	format   Format
	profile  formatProfile
	backend  file.Backend
	manifest *file.Manifest
}

// Open opens the archive at path, detecting its format from the content.
func Open(path string) (*ArchiveFile, error) {
	return OpenWithPassword(path, "")
}

// OpenWithPassword opens a potentially encrypted archive. The password is
// used by the 7z and rar backends; tar and zip ignore it (the stdlib zip
// reader has no decryption support).
func OpenWithPassword(path string, password string) (*ArchiveFile, error) {
	backend, err := file.OpenBackend(path, password)
	if err != nil {
		if errors.Is(err, file.ErrUnknownFormat) {
			return nil, &UnsupportedFormatError{File: path}
		}
		return nil, fmt.Errorf("unable to open archive %s: %w", path, err)
	}

	a := &ArchiveFile{
		path:    path,
		format:  backend.Format(),
		profile: profiles[backend.Format()],
		backend: backend,
	}
	a.manifest = file.NewManifest(a.GetNames())
	return a, nil
}

// Path returns the path of the archive file.
func (a *ArchiveFile) Path() string {
	return a.path
}

// Format returns the detected container format.
func (a *ArchiveFile) Format() Format {
	return a.format
}

// GetNames returns the logical names of all members, in archival order.
func (a *ArchiveFile) GetNames() []string {
	entries := a.backend.Entries()
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, logicalName(entry.RawName, entry.Dir))
	}
	return names
}

// GetMembers returns all members of the archive, in archival order.
func (a *ArchiveFile) GetMembers() []Member {
	entries := a.backend.Entries()
	members := make([]Member, 0, len(entries))
	for _, entry := range entries {
		members = append(members, newMember(entry))
	}
	return members
}

// GetMember retrieves a member by its logical name. The returned member's
// Name is reconstructed from the entry the backend resolved, so it is the
// canonical logical form rather than an echo of the input.
func (a *ArchiveFile) GetMember(name string) (Member, error) {
	entry, found := a.backend.Lookup(lookupName(a.profile, name))
	if !found {
		return Member{}, &MemberNotFoundError{Member: name, File: a.path}
	}
	return newMember(entry), nil
}

// OpenMember returns a reader over the member's uncompressed bytes. Directory
// members are rejected before the backend is touched. The reader is only
// valid until the next read operation on this archive.
func (a *ArchiveFile) OpenMember(member Member) (io.ReadCloser, error) {
	if member.Kind != KindFile {
		return nil, &NotAFileError{Member: member.Name, File: a.path}
	}

	r, err := a.backend.Open(member.entry)
	if err != nil {
		if errors.Is(err, file.ErrNotAFile) {
			return nil, &NotAFileError{Member: member.Name, File: a.path}
		}
		return nil, fmt.Errorf("%s archive %s: %w", a.format, a.path, err)
	}
	return r, nil
}

// Read returns the member's uncompressed content.
func (a *ArchiveFile) Read(member Member) ([]byte, error) {
	r, err := a.OpenMember(member)
	if err != nil {
		return nil, err
	}
	defer internal.CloseAndLogError(r, member.Name)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read member %s: %w", member.Name, err)
	}
	return data, nil
}

// ReadBytes looks up a member by name and returns its content.
func (a *ArchiveFile) ReadBytes(name string) ([]byte, error) {
	member, err := a.GetMember(name)
	if err != nil {
		return nil, err
	}
	return a.Read(member)
}

// ReadText looks up a member by name and returns its content as a string.
func (a *ArchiveFile) ReadText(name string) (string, error) {
	data, err := a.ReadBytes(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Glob returns the logical names matching any of the given patterns
// (doublestar syntax), deduplicated and sorted.
func (a *ArchiveFile) Glob(patterns ...string) []string {
	return a.manifest.GlobMatch(false, patterns...)
}

// Extract writes the named member below the destination directory and
// returns the path it was written to. An empty destination means the current
// directory. Directory members are created as directories.
func (a *ArchiveFile) Extract(name string, destination string) (string, error) {
	member, err := a.GetMember(name)
	if err != nil {
		return "", err
	}
	return a.extractMember(member, destination)
}

// ExtractAll writes members below the destination directory and returns the
// destination. With no explicit members, every member is extracted. All
// requested names are validated before anything is written.
func (a *ArchiveFile) ExtractAll(destination string, members ...string) (string, error) {
	var selected []Member
	if len(members) == 0 {
		selected = a.GetMembers()
	} else {
		var invalid *multierror.Error
		for _, name := range members {
			member, err := a.GetMember(name)
			if err != nil {
				invalid = multierror.Append(invalid, err)
				continue
			}
			selected = append(selected, member)
		}
		if err := invalid.ErrorOrNil(); err != nil {
			return "", err
		}
	}

	if destination == "" {
		destination = "."
	}
	for _, member := range selected {
		if member.Kind == KindFile && !member.entry.Regular {
			// links and special entries have no extractable content
			log.WithFields("member", member.Name).Trace("skipping non-regular member")
			continue
		}
		if _, err := a.extractMember(member, destination); err != nil {
			return "", err
		}
	}
	return destination, nil
}

func (a *ArchiveFile) extractMember(member Member, destination string) (string, error) {
	if destination == "" {
		destination = "."
	}
	target, err := secureJoin(destination, member.Name)
	if err != nil {
		return "", err
	}

	if member.Kind == KindDirectory {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return "", fmt.Errorf("unable to create directory %s: %w", target, err)
		}
		return target, nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("unable to create parent directory for %s: %w", target, err)
	}

	r, err := a.OpenMember(member)
	if err != nil {
		return "", err
	}
	defer internal.CloseAndLogError(r, member.Name)

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("unable to create %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return "", fmt.Errorf("unable to extract member %s: %w", member.Name, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("unable to finish writing %s: %w", target, err)
	}
	return target, nil
}

// secureJoin joins a member name below the destination, rejecting names that
// would escape it.
func secureJoin(destination string, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("member path %q escapes the destination directory", name)
	}
	return filepath.Join(destination, cleaned), nil
}

// Close releases the underlying container. The archive must not be used
// afterwards.
func (a *ArchiveFile) Close() error {
	if a.backend == nil {
		return nil
	}
	backend := a.backend
	a.backend = nil
	if err := backend.Close(); err != nil {
		return fmt.Errorf("unable to close %s archive %s: %w", a.format, a.path, err)
	}
	return nil
}
