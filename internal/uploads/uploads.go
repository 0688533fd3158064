// Package uploads is the binary sink for registration photos and payment
// proofs. The caller decides the name; this package only stores bytes under
// the configured directory.
package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultPhoto is the sentinel reference used when a registrant supplies no
// photo. No file by that name is ever written by this package.
const DefaultPhoto = "default.jpg"

type Store struct {
	dir string
}

// New creates the upload directory if needed and returns a Store rooted there.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the contents of r under name. Names are flattened to their base
// so a crafted name cannot escape the upload directory.
func (s *Store) Save(name string, r io.Reader) error {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return fmt.Errorf("invalid upload name %q", name)
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("error creating upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("error writing upload file: %w", err)
	}
	return nil
}

// Path returns the on-disk path for a stored name. Names are flattened the
// same way Save flattens them.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}
