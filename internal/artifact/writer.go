// Package artifact writes the shared fixed-width exchange file read by the
// ERP import routine.
//
// There is exactly one artifact path. While a file exists there it has not
// been consumed yet, and its presence blocks every further translation.
package artifact

import (
	"fmt"
	"os"

	"github.com/ginjaninja78/edi-order-translator/internal/storage"
	"github.com/ginjaninja78/edi-order-translator/internal/types"
)

// DefaultMode is the permission the ERP import job expects on the artifact.
const DefaultMode os.FileMode = 0o664

// Writer owns the artifact path.
type Writer struct {
	store storage.FileStore
	path  string
	mode  os.FileMode
}

// NewWriter creates a writer for path. A zero mode means DefaultMode.
func NewWriter(store storage.FileStore, path string, mode os.FileMode) *Writer {
	if mode == 0 {
		mode = DefaultMode
	}
	return &Writer{store: store, path: path, mode: mode}
}

// Path returns the artifact path.
func (w *Writer) Path() string {
	return w.path
}

// Exists reports whether an unconsumed artifact is pending.
func (w *Writer) Exists() (bool, error) {
	return w.store.Exists(w.path)
}

// Write replaces the artifact with doc and applies the configured mode.
func (w *Writer) Write(doc *types.OutputDocument) error {
	if err := w.store.WriteAll(w.path, doc.Bytes()); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := w.store.SetPermissions(w.path, w.mode); err != nil {
		return fmt.Errorf("failed to set artifact permissions: %w", err)
	}
	return nil
}

// Read returns the lines of the pending artifact.
func (w *Writer) Read() ([]string, error) {
	return w.store.ReadLines(w.path)
}
