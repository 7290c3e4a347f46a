// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Copy copies the contents and permission bits of the source file to the destination file.
// The destination is truncated if it already exists.  The parent directory of the destination must exist.
func Copy(ctx context.Context, input *CopyInput) error {
	Log(input.Logger, "Copying file", map[string]interface{}{
		"src": input.SourceName,
		"dst": input.DestinationName,
	})

	sourceFileInfo, err := input.SourceFileSystem.Stat(ctx, input.SourceName)
	if err != nil {
		return fmt.Errorf("error stating source file at %q: %w", input.SourceName, err)
	}

	if !sourceFileInfo.IsRegular() {
		return fmt.Errorf("source %q is not a regular file", input.SourceName)
	}

	// open source file
	sourceFile, err := input.SourceFileSystem.Open(ctx, input.SourceName)
	if err != nil {
		return fmt.Errorf("error opening source file at %q: %w", input.SourceName, err)
	}

	// open destination file
	destinationFile, err := input.DestinationFileSystem.OpenFile(
		ctx,
		input.DestinationName,
		os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
		sourceFileInfo.Mode().Perm())
	if err != nil {
		_ = sourceFile.Close() // silently close source file
		return fmt.Errorf("error creating destination file at %q: %w", input.DestinationName, err)
	}

	// copy bytes from source to destination
	written, err := io.Copy(destinationFile, sourceFile)
	if err != nil {
		_ = sourceFile.Close()      // silently close source file
		_ = destinationFile.Close() // silently close destination file
		return fmt.Errorf("error copying from %q to %q: %w", input.SourceName, input.DestinationName, err)
	}

	err = sourceFile.Close()
	if err != nil {
		_ = destinationFile.Close() // silently close destination file
		return fmt.Errorf("error closing source file after copying: %w", err)
	}

	err = destinationFile.Close()
	if err != nil {
		return fmt.Errorf("error closing destination file after copying: %w", err)
	}

	// an existing destination keeps its old mode when truncated
	err = input.DestinationFileSystem.Chmod(ctx, input.DestinationName, sourceFileInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("error changing permissions for destination after copying: %w", err)
	}

	Log(input.Logger, "Done copying file", map[string]interface{}{
		"src":     input.SourceName,
		"dst":     input.DestinationName,
		"written": written,
	})

	return nil
}
