package file

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/halexan/archivefile/internal"
	"github.com/halexan/archivefile/internal/log"
)

// OpenBackend detects the container format of the file at path by its magic
// bytes and initializes the matching backend. The password is forwarded to
// backends that support encrypted containers (7z, rar) and ignored otherwise.
func OpenBackend(path string, password string) (Backend, error) {
	magic, err := sniffMagic(path)
	if err != nil {
		return nil, err
	}

	entry, found := DefaultRegistry.match(magic)
	if !found {
		return nil, ErrUnknownFormat
	}
	log.WithFields("path", path, "format", entry.format).Trace("detected archive format")

	return entry.open(path, password)
}

// sniffMagic reads the header bytes used for format detection.
func sniffMagic(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open archive file: %w", err)
	}
	defer internal.CloseAndLogError(f, path)

	magic := make([]byte, 512)
	n, err := io.ReadFull(f, magic)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("unable to read magic bytes: %w", err)
	}
	return magic[:n], nil
}

func isZipArchive(magic []byte) bool {
	return len(magic) >= 4 &&
		magic[0] == 'P' && magic[1] == 'K' &&
		((magic[2] == 0x03 && magic[3] == 0x04) || (magic[2] == 0x05 && magic[3] == 0x06))
}

var sevenZipMagic = []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}

func isSevenZipArchive(magic []byte) bool {
	return len(magic) >= len(sevenZipMagic) && bytes.Equal(magic[:len(sevenZipMagic)], sevenZipMagic)
}

var rarMagic = []byte{'R', 'a', 'r', '!', 0x1A, 0x07}

func isRarArchive(magic []byte) bool {
	return len(magic) >= len(rarMagic) && bytes.Equal(magic[:len(rarMagic)], rarMagic)
}

func isTarArchive(magic []byte) bool {
	// "ustar" at offset 257, per POSIX and GNU tar headers
	if len(magic) >= 262 && bytes.Equal(magic[257:262], []byte("ustar")) {
		return true
	}
	// pre-POSIX tars carry no magic; fall back to validating the header
	// checksum of the first block
	return hasValidTarChecksum(magic)
}

// hasValidTarChecksum verifies the octal checksum field of a 512-byte tar
// header block. The checksum covers the whole block with the checksum field
// itself treated as spaces; some historic writers summed signed bytes, so both
// interpretations are accepted.
func hasValidTarChecksum(block []byte) bool {
	if len(block) < 512 {
		return false
	}

	recorded, err := parseOctal(block[148:156])
	if err != nil || recorded == 0 {
		return false
	}

	var unsigned int64
	var signed int64
	for i, b := range block[:512] {
		if i >= 148 && i < 156 {
			b = ' '
		}
		unsigned += int64(b)
		signed += int64(int8(b))
	}
	return recorded == unsigned || recorded == signed
}

// parseOctal reads a NUL- or space-terminated octal field from a tar header.
func parseOctal(field []byte) (int64, error) {
	trimmed := strings.Trim(string(field), " \x00")
	if trimmed == "" {
		return 0, fmt.Errorf("empty octal field")
	}
	return strconv.ParseInt(trimmed, 8, 64)
}

func isGzipCompressed(magic []byte) bool {
	return len(magic) >= 2 && magic[0] == 0x1F && magic[1] == 0x8B
}

func isBzip2Compressed(magic []byte) bool {
	return len(magic) >= 3 && bytes.Equal(magic[:3], []byte("BZh"))
}
