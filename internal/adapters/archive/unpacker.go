// Package archive extracts label archives into the staging directory.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/bft-labs/printwatch/internal/domain"
	"github.com/bft-labs/printwatch/internal/ports"
)

// DocumentSuffix selects printable documents after extraction.
const DocumentSuffix = ".pdf"

// Unpacker implements ports.Unpacker for zip archives.
type Unpacker struct {
	logger ports.Logger
}

// NewUnpacker creates an Unpacker.
func NewUnpacker(logger ports.Logger) *Unpacker {
	return &Unpacker{logger: logger}
}

// Unpack extracts every entry of archivePath under stagingDir.
func (u *Unpacker) Unpack(ctx context.Context, archivePath, stagingDir string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, domain.Wrap(domain.ErrArchive, "open "+archivePath, err)
	}
	defer r.Close()

	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, domain.Wrap(domain.ErrArchive, "create staging dir "+stagingDir, err)
	}
	root, err := filepath.Abs(stagingDir)
	if err != nil {
		return nil, domain.Wrap(domain.ErrArchive, "resolve staging dir", err)
	}

	var written []string
	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		dest, err := entryPath(root, f.Name)
		if err != nil {
			return written, domain.Wrap(domain.ErrArchive, "entry "+f.Name, err)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return written, domain.Wrap(domain.ErrArchive, "mkdir "+dest, err)
			}
			continue
		}

		if err := extractFile(f, dest); err != nil {
			return written, domain.Wrap(domain.ErrArchive, "extract "+f.Name, err)
		}
		written = append(written, dest)
	}

	u.logger.Debug("archive extracted",
		ports.Archive(archivePath),
		ports.String("staging", stagingDir),
		ports.Int("files", len(written)),
	)
	return written, nil
}

// SelectDocuments lists the top level of stagingDir and returns the .pdf files, sorted.
func (u *Unpacker) SelectDocuments(stagingDir string) ([]string, error) {
	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		return nil, domain.Wrap(domain.ErrFileSystem, "list "+stagingDir, err)
	}

	var docs []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), DocumentSuffix) {
			continue
		}
		docs = append(docs, filepath.Join(stagingDir, e.Name()))
	}
	sort.Strings(docs)
	return docs, nil
}

// entryPath resolves name under root and rejects entries that would escape it.
func entryPath(root, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return "", fmt.Errorf("absolute path %q", name)
	}
	dest := filepath.Join(root, filepath.FromSlash(name))
	if dest != root && !strings.HasPrefix(dest, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes staging dir", name)
	}
	return dest, nil
}

func extractFile(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}

	out, err := os.Create(dest)
	if err != nil {
		rc.Close()
		return err
	}

	_, copyErr := io.Copy(out, rc)
	return errors.Join(copyErr, out.Close(), rc.Close())
}

var _ ports.Unpacker = (*Unpacker)(nil)
