package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockFileSystem is an in-memory FileSystem for tests. Paths are cleaned with
// filepath.Clean; parent directories are created implicitly by AddFile/AddDir.
type MockFileSystem struct {
	mu     sync.RWMutex
	files  map[string]*MockFile
	failOn map[string]error
}

// MockFile is a file or directory node in the mock filesystem
type MockFile struct {
	Content []byte
	Mode    fs.FileMode
	ModTime time.Time
	IsDir   bool
}

type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }

type mockDirEntry struct {
	info fs.FileInfo
}

func (m *mockDirEntry) Name() string               { return m.info.Name() }
func (m *mockDirEntry) IsDir() bool                { return m.info.IsDir() }
func (m *mockDirEntry) Type() fs.FileMode          { return m.info.Mode().Type() }
func (m *mockDirEntry) Info() (fs.FileInfo, error) { return m.info, nil }

// NewMockFileSystem creates an empty MockFileSystem
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:  make(map[string]*MockFile),
		failOn: make(map[string]error),
	}
}

// AddFile adds a regular file, creating parent directories as needed
func (mfs *MockFileSystem) AddFile(path string, content []byte) *MockFileSystem {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	cleanPath := filepath.Clean(path)
	mfs.files[cleanPath] = &MockFile{
		Content: content,
		Mode:    0644,
		ModTime: time.Now(),
	}
	mfs.addParents(cleanPath)
	return mfs
}

// AddDir adds a directory, creating parent directories as needed
func (mfs *MockFileSystem) AddDir(path string) *MockFileSystem {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	mfs.addDirLocked(filepath.Clean(path), 0755)
	return mfs
}

// FailOn makes every operation on path return err. Passing a nil error
// clears a previous failure.
func (mfs *MockFileSystem) FailOn(path string, err error) *MockFileSystem {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	cleanPath := filepath.Clean(path)
	if err == nil {
		delete(mfs.failOn, cleanPath)
		return mfs
	}
	mfs.failOn[cleanPath] = err
	return mfs
}

func (mfs *MockFileSystem) addDirLocked(cleanPath string, perm fs.FileMode) {
	if existing, ok := mfs.files[cleanPath]; ok && existing.IsDir {
		return
	}
	mfs.files[cleanPath] = &MockFile{
		Mode:    perm | fs.ModeDir,
		ModTime: time.Now(),
		IsDir:   true,
	}
	mfs.addParents(cleanPath)
}

func (mfs *MockFileSystem) addParents(cleanPath string) {
	dir := filepath.Dir(cleanPath)
	for dir != "." && dir != string(filepath.Separator) && dir != cleanPath {
		if _, exists := mfs.files[dir]; !exists {
			mfs.files[dir] = &MockFile{
				Mode:    0755 | fs.ModeDir,
				ModTime: time.Now(),
				IsDir:   true,
			}
		}
		dir = filepath.Dir(dir)
	}
}

func (mfs *MockFileSystem) injected(op, path string) error {
	if err, ok := mfs.failOn[path]; ok {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	return nil
}

func (mfs *MockFileSystem) ReadFile(path string) ([]byte, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	cleanPath := filepath.Clean(path)
	if err := mfs.injected("open", cleanPath); err != nil {
		return nil, err
	}
	file, exists := mfs.files[cleanPath]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	if file.IsDir {
		return nil, &fs.PathError{Op: "read", Path: path, Err: errors.New("is a directory")}
	}
	content := make([]byte, len(file.Content))
	copy(content, file.Content)
	return content, nil
}

func (mfs *MockFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	cleanPath := filepath.Clean(path)
	if err := mfs.injected("open", cleanPath); err != nil {
		return err
	}

	dir := filepath.Dir(cleanPath)
	if dir != "." && dir != string(filepath.Separator) {
		parent, exists := mfs.files[dir]
		if !exists {
			return &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
		}
		if !parent.IsDir {
			return &fs.PathError{Op: "open", Path: path, Err: errors.New("not a directory")}
		}
	}

	content := make([]byte, len(data))
	copy(content, data)
	mfs.files[cleanPath] = &MockFile{
		Content: content,
		Mode:    perm,
		ModTime: time.Now(),
	}
	return nil
}

func (mfs *MockFileSystem) Remove(path string) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	cleanPath := filepath.Clean(path)
	if err := mfs.injected("remove", cleanPath); err != nil {
		return err
	}
	if _, exists := mfs.files[cleanPath]; !exists {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrNotExist}
	}
	for p := range mfs.files {
		if strings.HasPrefix(p, cleanPath+string(filepath.Separator)) {
			return &fs.PathError{Op: "remove", Path: path, Err: errors.New("directory not empty")}
		}
	}
	delete(mfs.files, cleanPath)
	return nil
}

// ReadDir returns the direct children of path sorted by name, matching os.ReadDir.
func (mfs *MockFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	cleanPath := filepath.Clean(path)
	if err := mfs.injected("readdir", cleanPath); err != nil {
		return nil, err
	}

	file, exists := mfs.files[cleanPath]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	if !file.IsDir {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: errors.New("not a directory")}
	}

	var entries []fs.DirEntry
	for p, f := range mfs.files {
		if p == cleanPath || filepath.Dir(p) != cleanPath {
			continue
		}
		entries = append(entries, &mockDirEntry{info: infoFor(filepath.Base(p), f)})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	return entries, nil
}

func (mfs *MockFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	cleanPath := filepath.Clean(path)
	if err := mfs.injected("mkdir", cleanPath); err != nil {
		return err
	}
	if existing, ok := mfs.files[cleanPath]; ok && !existing.IsDir {
		return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrExist}
	}
	mfs.addDirLocked(cleanPath, perm)
	return nil
}

func (mfs *MockFileSystem) Stat(path string) (fs.FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	cleanPath := filepath.Clean(path)
	if err := mfs.injected("stat", cleanPath); err != nil {
		return nil, err
	}
	file, exists := mfs.files[cleanPath]
	if !exists {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	return infoFor(filepath.Base(cleanPath), file), nil
}

func (mfs *MockFileSystem) Exists(path string) bool {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	_, exists := mfs.files[filepath.Clean(path)]
	return exists
}

func infoFor(name string, f *MockFile) *mockFileInfo {
	return &mockFileInfo{
		name:    name,
		size:    int64(len(f.Content)),
		mode:    f.Mode,
		modTime: f.ModTime,
		isDir:   f.IsDir,
	}
}

// GetFiles returns a copy of all nodes in the mock filesystem
func (mfs *MockFileSystem) GetFiles() map[string]*MockFile {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	out := make(map[string]*MockFile, len(mfs.files))
	for p, f := range mfs.files {
		out[p] = f
	}
	return out
}

// PrintTree writes the filesystem tree to w (for debugging)
func (mfs *MockFileSystem) PrintTree(w io.Writer) {
	files := mfs.GetFiles()
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		marker := "-"
		if files[p].IsDir {
			marker = "d"
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", marker, p)
	}
}
