package fs

import (
	"errors"
	"fmt"
)

var errIsDirectory = errors.New("is a directory")

type errNotConfigured struct {
	file string
}

func (e errNotConfigured) Error() string {
	return fmt.Sprintf("not set in %s; pass --adobe-path to configure it", e.file)
}
