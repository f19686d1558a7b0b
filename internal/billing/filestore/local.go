package filestore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	e "github.com/tenders-netizen/quotedesk/internal/billing/errors"
)

// Local stores blobs as files in a directory and serves them under
// <public base>/uploads/pdfs/<name>.
type Local struct {
	dir        string
	publicBase string
}

// NewLocal creates the upload directory if needed.
func NewLocal(dir, publicBase string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create upload dir: %v", e.ErrStorage, err)
	}
	return &Local{dir: dir, publicBase: strings.TrimRight(publicBase, "/")}, nil
}

func (l *Local) Put(_ context.Context, name, _ string, r io.Reader) (string, error) {
	name = filepath.Base(name)
	f, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return "", fmt.Errorf("%w: %v", e.ErrStorage, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("%w: %v", e.ErrStorage, err)
	}
	return fmt.Sprintf("%s/uploads/pdfs/%s", l.publicBase, url.PathEscape(name)), nil
}

func (l *Local) Get(_ context.Context, name string) (io.ReadCloser, error) {
	name = filepath.Base(name)
	f, err := os.Open(filepath.Join(l.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, e.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", e.ErrStorage, err)
	}
	return f, nil
}

// Dir returns the backing directory, for static file serving.
func (l *Local) Dir() string {
	return l.dir
}
