package ports

import "github.com/bft-labs/printwatch/internal/domain"

// RetentionPolicy owns the staging directory lifecycle around one archive.
type RetentionPolicy interface {
	// Name identifies the policy in logs ("archive", "ephemeral").
	Name() string

	// Prepare readies stagingDir before extraction.
	Prepare(stagingDir string) error

	// AfterDispatch runs once per successfully dispatched document.
	// It returns a record when the document was relocated, nil otherwise.
	AfterDispatch(stagingDir, document string) (*domain.ProcessedRecord, error)

	// Finish runs once after every document of the archive was dispatched.
	Finish(stagingDir string) error
}
