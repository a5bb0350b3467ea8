package internal

import (
	"io"

	"github.com/halexan/archivefile/internal/log"
)

// CloseAndLogError closes the given closer and logs any error at the warning level.
// Meant for deferred closes where the error cannot be meaningfully returned.
func CloseAndLogError(closer io.Closer, location string) {
	if err := closer.Close(); err != nil {
		log.Warnf("unable to close file for location=%q: %+v", location, err)
	}
}
