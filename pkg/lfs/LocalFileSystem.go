// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package lfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/navwar/mak/pkg/fs"
)

type LocalFileSystem struct {
	root string
	fs   afero.Fs
}

func (lfs *LocalFileSystem) Abs(name string) (string, error) {
	return filepath.Abs(name)
}

func (lfs *LocalFileSystem) Base(name string) string {
	return filepath.Base(name)
}

func (lfs *LocalFileSystem) Chmod(ctx context.Context, name string, mode os.FileMode) error {
	return lfs.fs.Chmod(name, mode)
}

func (lfs *LocalFileSystem) Dir(name string) string {
	return filepath.Dir(name)
}

// Glob returns the names of all files matching the pattern in lexical order.
// The syntax of patterns is the same as in filepath.Match.
// A wildcard does not match a leading dot, so hidden files only match
// when that element of the pattern starts with a dot.
func (lfs *LocalFileSystem) Glob(ctx context.Context, pattern string) ([]string, error) {
	matches, err := afero.Glob(lfs.fs, pattern)
	if err != nil {
		return nil, fmt.Errorf("error expanding pattern %q: %w", pattern, err)
	}
	visible := make([]string, 0, len(matches))
	for _, m := range matches {
		if !hidden(pattern, m) {
			visible = append(visible, m)
		}
	}
	return visible, nil
}

// hidden returns true if a wildcard element of the pattern matched a name starting with a dot.
func hidden(pattern string, match string) bool {
	patternElements := strings.Split(filepath.Clean(pattern), string(filepath.Separator))
	matchElements := strings.Split(filepath.Clean(match), string(filepath.Separator))
	if len(patternElements) != len(matchElements) {
		return false
	}
	for i, p := range patternElements {
		if !strings.ContainsAny(p, "*?[") || strings.HasPrefix(p, ".") {
			continue
		}
		if strings.HasPrefix(matchElements[i], ".") {
			return true
		}
	}
	return false
}

func (lfs *LocalFileSystem) IsNotExist(err error) bool {
	return os.IsNotExist(err)
}

func (lfs *LocalFileSystem) Join(name ...string) string {
	return filepath.Join(name...)
}

func (lfs *LocalFileSystem) Mkdir(ctx context.Context, name string, mode os.FileMode) error {
	return lfs.fs.Mkdir(name, mode)
}

func (lfs *LocalFileSystem) MkdirAll(ctx context.Context, name string, mode os.FileMode) error {
	return lfs.fs.MkdirAll(name, mode)
}

func (lfs *LocalFileSystem) Open(ctx context.Context, name string) (fs.File, error) {
	f, err := lfs.fs.Open(name)
	if err != nil {
		return nil, err
	}
	return NewLocalFile(f), nil
}

func (lfs *LocalFileSystem) OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (fs.File, error) {
	f, err := lfs.fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return NewLocalFile(f), nil
}

func (lfs *LocalFileSystem) Root() string {
	return lfs.root
}

// SameFile reports whether a and b describe the same file on disk.
func (lfs *LocalFileSystem) SameFile(a fs.FileInfo, b fs.FileInfo) bool {
	la, ok := a.(*LocalFileInfo)
	if !ok {
		return false
	}
	lb, ok := b.(*LocalFileInfo)
	if !ok {
		return false
	}
	return os.SameFile(la.fileInfo, lb.fileInfo)
}

func (lfs *LocalFileSystem) Stat(ctx context.Context, name string) (fs.FileInfo, error) {
	fi, err := lfs.fs.Stat(name)
	if err != nil {
		return nil, err
	}
	return NewLocalFileInfo(fi), nil
}

func NewLocalFileSystem() *LocalFileSystem {
	return &LocalFileSystem{
		root: "file://",
		fs:   afero.NewOsFs(),
	}
}

// NewReadOnlyLocalFileSystem returns a local file system that fails every attempt to modify it.
func NewReadOnlyLocalFileSystem() *LocalFileSystem {
	return &LocalFileSystem{
		root: "file://",
		fs:   afero.NewReadOnlyFs(afero.NewOsFs()),
	}
}

// NewMemoryFileSystem returns a file system held in memory.
func NewMemoryFileSystem() *LocalFileSystem {
	return &LocalFileSystem{
		root: "mem://",
		fs:   afero.NewMemMapFs(),
	}
}
