// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

import (
	"context"
	"os"
)

type FileSystem interface {
	Abs(name string) (string, error)
	Base(name string) string
	Chmod(ctx context.Context, name string, mode os.FileMode) error
	Dir(name string) string
	Glob(ctx context.Context, pattern string) ([]string, error)
	IsNotExist(err error) bool
	Join(name ...string) string
	Mkdir(ctx context.Context, name string, mode os.FileMode) error
	MkdirAll(ctx context.Context, name string, mode os.FileMode) error
	Open(ctx context.Context, name string) (File, error)
	OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (File, error)
	Root() string
	SameFile(a FileInfo, b FileInfo) bool
	Stat(ctx context.Context, name string) (FileInfo, error)
}
