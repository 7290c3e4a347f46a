// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package mak

import (
	"github.com/navwar/mak/pkg/fs"
)

type CopyInput struct {
	Source         string // file name or glob pattern
	Destination    string // directory
	FileSystem     fs.FileSystem
	NoGlob         bool
	NoMakeDir      bool
	NoMakeDirs     bool
	ForceOverwrite bool
	DryRun         bool
	Logger         fs.Logger
}
