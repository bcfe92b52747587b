package ports

import "context"

// Unpacker extracts archives into a staging directory.
type Unpacker interface {
	// Unpack writes every entry of archivePath under stagingDir, preserving the
	// archive's internal relative paths, and returns the written file paths.
	// stagingDir is created if absent. Failures wrap domain.ErrArchive.
	Unpack(ctx context.Context, archivePath, stagingDir string) ([]string, error)

	// SelectDocuments returns the printable documents at the top level of
	// stagingDir. Nested directories are not searched.
	SelectDocuments(stagingDir string) ([]string, error)
}
