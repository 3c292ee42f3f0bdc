package fsops

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"
)

// FakeFS implements FS over an in-memory tree.
// Records every call in a journal and serves scripted errors, so tests can
// prove dry-run never deletes and count retry attempts exactly.
type FakeFS struct {
	mu     sync.Mutex
	nodes  map[string]*fakeNode
	faults map[string][]error
	calls  []string
}

type fakeNode struct {
	dir     bool
	link    bool
	phantom bool
	mode    os.FileMode
}

// NewFakeFS returns an empty fake filesystem
func NewFakeFS() *FakeFS {
	return &FakeFS{
		nodes:  make(map[string]*fakeNode),
		faults: make(map[string][]error),
	}
}

// AddDir creates a directory node, including missing parents
func (f *FakeFS) AddDir(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addParents(path)
	f.nodes[clean(path)] = &fakeNode{dir: true, mode: 0o755}
}

// AddFile creates a regular file node, including missing parents
func (f *FakeFS) AddFile(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addParents(path)
	f.nodes[clean(path)] = &fakeNode{mode: 0o644}
}

// AddPhantomFile creates an entry that shows up during enumeration but is
// already gone for every other operation — the shape of a child deleted by
// another process between readdir and remove
func (f *FakeFS) AddPhantomFile(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addParents(path)
	f.nodes[clean(path)] = &fakeNode{phantom: true, mode: 0o644}
}

// AddLink creates a symlink node; the target never exists here, which is
// exactly the broken-link shape the engine must handle
func (f *FakeFS) AddLink(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addParents(path)
	f.nodes[clean(path)] = &fakeNode{link: true, mode: 0o777}
}

func (f *FakeFS) addParents(path string) {
	dir := filepath.Dir(clean(path))
	for dir != "/" && dir != "." {
		if _, ok := f.nodes[dir]; !ok {
			f.nodes[dir] = &fakeNode{dir: true, mode: 0o755}
		}
		dir = filepath.Dir(dir)
	}
}

// FailWith queues errors for an operation on a path, consumed one per call
// before the operation itself runs. op is one of lstat, readdir, remove,
// rmdir, chmod.
func (f *FakeFS) FailWith(op, path string, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := op + ":" + clean(path)
	f.faults[key] = append(f.faults[key], errs...)
}

// Calls returns a copy of the call journal, entries formatted "op:path"
func (f *FakeFS) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times op ran against path
func (f *FakeFS) CallCount(op, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := op + ":" + clean(path)
	n := 0
	for _, c := range f.calls {
		if c == key {
			n++
		}
	}
	return n
}

// Exists reports whether a node is still present
func (f *FakeFS) Exists(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.nodes[clean(path)]
	return ok && !n.phantom
}

// MutationCount returns how many remove/rmdir calls were issued
func (f *FakeFS) MutationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, "remove:") || strings.HasPrefix(c, "rmdir:") {
			n++
		}
	}
	return n
}

func (f *FakeFS) record(op, path string) error {
	key := op + ":" + path
	f.calls = append(f.calls, key)
	if q := f.faults[key]; len(q) > 0 {
		err := q[0]
		f.faults[key] = q[1:]
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	return nil
}

func (f *FakeFS) Lstat(path string) (os.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path = clean(path)
	if err := f.record("lstat", path); err != nil {
		return nil, err
	}
	n, ok := f.nodes[path]
	if !ok || n.phantom {
		return nil, &fs.PathError{Op: "lstat", Path: path, Err: syscall.ENOENT}
	}
	return n.info(filepath.Base(path)), nil
}

func (f *FakeFS) ReadDir(path string) ([]fs.DirEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path = clean(path)
	if err := f.record("readdir", path); err != nil {
		return nil, err
	}
	n, ok := f.nodes[path]
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: syscall.ENOENT}
	}
	if !n.dir {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: syscall.ENOTDIR}
	}
	var entries []fs.DirEntry
	for p, child := range f.nodes {
		if filepath.Dir(p) == path && p != path {
			entries = append(entries, fakeEntry{name: filepath.Base(p), node: child})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (f *FakeFS) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	path = clean(path)
	if err := f.record("remove", path); err != nil {
		return err
	}
	n, ok := f.nodes[path]
	if !ok || n.phantom {
		return &fs.PathError{Op: "remove", Path: path, Err: syscall.ENOENT}
	}
	if n.dir {
		return &fs.PathError{Op: "remove", Path: path, Err: syscall.EISDIR}
	}
	delete(f.nodes, path)
	return nil
}

func (f *FakeFS) RemoveDir(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	path = clean(path)
	if err := f.record("rmdir", path); err != nil {
		return err
	}
	n, ok := f.nodes[path]
	if !ok {
		return &fs.PathError{Op: "rmdir", Path: path, Err: syscall.ENOENT}
	}
	if !n.dir {
		return &fs.PathError{Op: "rmdir", Path: path, Err: syscall.ENOTDIR}
	}
	for p, child := range f.nodes {
		if filepath.Dir(p) == path && p != path && !child.phantom {
			return &fs.PathError{Op: "rmdir", Path: path, Err: syscall.ENOTEMPTY}
		}
	}
	delete(f.nodes, path)
	return nil
}

func (f *FakeFS) Chmod(path string, mode os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	path = clean(path)
	if err := f.record("chmod", path); err != nil {
		return err
	}
	n, ok := f.nodes[path]
	if !ok || n.phantom {
		return &fs.PathError{Op: "chmod", Path: path, Err: syscall.ENOENT}
	}
	n.mode = mode
	return nil
}

func clean(path string) string {
	return filepath.Clean(path)
}

func (n *fakeNode) info(name string) os.FileInfo {
	return fakeInfo{name: name, node: n}
}

type fakeInfo struct {
	name string
	node *fakeNode
}

func (i fakeInfo) Name() string { return i.name }
func (i fakeInfo) Size() int64  { return 0 }
func (i fakeInfo) Mode() os.FileMode {
	mode := i.node.mode
	if i.node.dir {
		mode |= os.ModeDir
	}
	if i.node.link {
		mode |= os.ModeSymlink
	}
	return mode
}
func (i fakeInfo) ModTime() time.Time { return time.Time{} }
func (i fakeInfo) IsDir() bool        { return i.node.dir }
func (i fakeInfo) Sys() interface{}   { return nil }

type fakeEntry struct {
	name string
	node *fakeNode
}

func (e fakeEntry) Name() string { return e.name }
func (e fakeEntry) IsDir() bool  { return e.node.dir }
func (e fakeEntry) Type() fs.FileMode {
	if e.node.dir {
		return fs.ModeDir
	}
	if e.node.link {
		return fs.ModeSymlink
	}
	return 0
}
func (e fakeEntry) Info() (fs.FileInfo, error) { return e.node.info(e.name), nil }
