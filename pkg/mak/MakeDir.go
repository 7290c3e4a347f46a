// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package mak

import (
	"context"

	"github.com/navwar/mak/pkg/fs"
)

// MakeDir always fails with NotImplemented.  The arguments are not validated.
func MakeDir(ctx context.Context, args []string, logger fs.Logger) error {
	fs.Log(logger, "Making directory", map[string]interface{}{
		"args": args,
	})
	return newError(NotImplemented, "Command %q is not implemented yet.", "md")
}
