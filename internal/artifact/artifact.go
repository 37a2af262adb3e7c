// Package artifact allocates the temporary workspaces that hold user source
// files and build output for a single execution or analysis.
//
// LIFECYCLE:
// A Workspace is created immediately before a toolchain is invoked and removed
// before the call returns, on every exit path:
//
//	ws, err := alloc.NewWorkspace("run")
//	if err != nil { ... }
//	defer ws.Remove()
//
// Workspace names combine an xid (sortable, unique per process) with the random
// suffix os.MkdirTemp adds, so concurrent requests never collide on a path and
// never remove each other's files.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/xid"
)

// ErrInvalidName is returned when a file name is not a plain base name.
var ErrInvalidName = errors.New("artifact: invalid file name")

// Allocator creates workspaces under a root directory.
type Allocator struct {
	root string
}

// NewAllocator creates an allocator rooted at root. An empty root means the
// system temp directory.
func NewAllocator(root string) *Allocator {
	if root == "" {
		root = os.TempDir()
	}
	return &Allocator{root: root}
}

// Root returns the directory workspaces are created in.
func (a *Allocator) Root() string {
	return a.root
}

// Workspace is one freshly created, exclusively owned temporary directory.
type Workspace struct {
	id   string
	dir  string
	once sync.Once
	err  error
}

// NewWorkspace creates a new empty directory. prefix only makes paths easier
// to recognise in `ls /tmp`.
func (a *Allocator) NewWorkspace(prefix string) (*Workspace, error) {
	if err := os.MkdirAll(a.root, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: preparing root %s: %w", a.root, err)
	}

	id := xid.New().String()
	dir, err := os.MkdirTemp(a.root, fmt.Sprintf("%s-%s-", prefix, id))
	if err != nil {
		return nil, fmt.Errorf("artifact: creating workspace: %w", err)
	}
	return &Workspace{id: id, dir: dir}, nil
}

// ID returns the workspace's unique identifier, useful for log correlation.
func (w *Workspace) ID() string { return w.id }

// Dir returns the absolute workspace path.
func (w *Workspace) Dir() string { return w.dir }

// Path joins name onto the workspace directory.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// WriteFile writes content as UTF-8 text into the workspace and returns the
// full path. name must be a plain file name without directory components.
func (w *Workspace) WriteFile(name, content string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	path := w.Path(name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("artifact: writing %s: %w", name, err)
	}
	return path, nil
}

// Remove deletes the workspace and everything in it. Only the first call does
// any work; later calls return the first call's result.
func (w *Workspace) Remove() error {
	w.once.Do(func() {
		if err := os.RemoveAll(w.dir); err != nil {
			w.err = fmt.Errorf("artifact: removing workspace %s: %w", w.id, err)
		}
	})
	return w.err
}
