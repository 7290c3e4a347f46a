// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package mak

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/navwar/mak/pkg/fs"
)

const (
	DefaultDirectoryMode = 0755
)

// Copy copies a single file into the destination directory, creating the directory if allowed.
// Named failures are returned as *Error and every other failure as *UnexpectedError.
// If DryRun is true, then the file system is not modified.
func Copy(ctx context.Context, input *CopyInput) error {
	fileSystem := input.FileSystem

	//
	// Resolve source
	//

	source, err := resolveSource(ctx, input)
	if err != nil {
		return err
	}

	sourceFileInfo, err := fileSystem.Stat(ctx, source)
	if err != nil {
		return unexpected("error stating source %q: %w", source, err)
	}

	if !sourceFileInfo.IsRegular() {
		return unexpected("source %q is not a regular file", source)
	}

	fs.Log(input.Logger, "Resolved source file", map[string]interface{}{
		"src": source,
	})

	//
	// Resolve destination directory
	//

	destinationDirectory, err := fileSystem.Abs(input.Destination)
	if err != nil {
		return unexpected("error creating absolute path for destination %q: %w", input.Destination, err)
	}

	if err := prepareDestinationDirectory(ctx, input, destinationDirectory); err != nil {
		return err
	}

	//
	// Check destination file
	//

	destination := fileSystem.Join(destinationDirectory, fileSystem.Base(source))

	fs.Log(input.Logger, "Resolved destination file", map[string]interface{}{
		"dst": destination,
	})

	destinationFileInfo, err := fileSystem.Stat(ctx, destination)
	if err != nil {
		if !fileSystem.IsNotExist(err) {
			return unexpected("error stating destination %q: %w", destination, err)
		}
	} else {
		if !input.ForceOverwrite {
			return newError(
				DestExists,
				"A file is already present at the destination %q and --force-overwrite is not set: nothing to be done.",
				destination)
		}
		if destinationFileInfo.IsDir() {
			return unexpected("destination %q is a directory", destination)
		}
		if source == destination || fileSystem.SameFile(sourceFileInfo, destinationFileInfo) {
			return unexpected("source %q and destination %q are the same file", source, destination)
		}
		fs.Log(input.Logger, "Destination file exists and --force-overwrite is set: it will be overwritten", map[string]interface{}{
			"dst": destination,
		})
	}

	//
	// Copy
	//

	if input.DryRun {
		fs.Log(input.Logger, "Would copy file (--dry-run is set)", map[string]interface{}{
			"src": source,
			"dst": destination,
		})
		return nil
	}

	err = fs.Copy(ctx, &fs.CopyInput{
		SourceName:            source,
		SourceFileSystem:      fileSystem,
		DestinationName:       destination,
		DestinationFileSystem: fileSystem,
		Logger:                input.Logger,
	})
	if err != nil {
		return &UnexpectedError{Err: err}
	}

	return nil
}

// resolveSource returns the absolute path of the source file.
// If globbing is enabled, then the first match in lexical order is used.
func resolveSource(ctx context.Context, input *CopyInput) (string, error) {
	fileSystem := input.FileSystem

	source := input.Source

	if input.NoGlob {
		fi, err := fileSystem.Stat(ctx, source)
		if err != nil && !fileSystem.IsNotExist(err) {
			return "", unexpected("error stating source %q: %w", source, err)
		}
		if err != nil || !fi.IsRegular() {
			return "", newError(
				SourceNotFound,
				"The src path %q does not point at a file.  Try leaving --no-glob out.",
				source)
		}
	} else {
		matches, err := fileSystem.Glob(ctx, source)
		if err != nil {
			// a malformed pattern matches nothing
			if !errors.Is(err, filepath.ErrBadPattern) {
				return "", &UnexpectedError{Err: err}
			}
			matches = nil
		}
		if len(matches) == 0 {
			return "", newError(
				SourceNotFoundAfterGlob,
				"The src path %q does not point at anything, even after globbing.",
				source)
		}
		if len(matches) > 1 {
			fs.Log(input.Logger, "Pattern matched more than one file: using the first match", map[string]interface{}{
				"pattern": source,
				"matches": len(matches),
				"src":     matches[0],
			})
		}
		source = matches[0]
	}

	abs, err := fileSystem.Abs(source)
	if err != nil {
		return "", unexpected("error creating absolute path for source %q: %w", source, err)
	}

	return abs, nil
}

// prepareDestinationDirectory makes sure the destination directory exists,
// creating one level or the entire tree depending on the input.
func prepareDestinationDirectory(ctx context.Context, input *CopyInput, destinationDirectory string) error {
	fileSystem := input.FileSystem

	fi, err := fileSystem.Stat(ctx, destinationDirectory)
	if err == nil {
		if !fi.IsDir() {
			return unexpected("destination %q is not a directory", destinationDirectory)
		}
		return nil
	}

	if !fileSystem.IsNotExist(err) {
		return unexpected("error stating destination directory %q: %w", destinationDirectory, err)
	}

	fs.Log(input.Logger, "Destination directory does not exist", map[string]interface{}{
		"dst": destinationDirectory,
	})

	if input.NoMakeDir {
		return newError(
			DestDirMissing,
			"The dst path %q is not a directory.  To create it automatically, leave --no-makedir out.",
			destinationDirectory)
	}

	if input.NoMakeDirs {
		parent := fileSystem.Dir(destinationDirectory)
		if _, err := fileSystem.Stat(ctx, parent); err != nil {
			if fileSystem.IsNotExist(err) {
				return newError(
					DestPathTooDeep,
					"The dst path %q is more than one level below an existing directory.  To create the entire tree, leave --no-makedirs out.",
					destinationDirectory)
			}
			return unexpected("error stating parent directory %q: %w", parent, err)
		}
		if input.DryRun {
			fs.Log(input.Logger, "Would create directory (--dry-run is set)", map[string]interface{}{
				"dir": destinationDirectory,
			})
			return nil
		}
		fs.Log(input.Logger, "Creating directory", map[string]interface{}{
			"dir": destinationDirectory,
		})
		if err := fileSystem.Mkdir(ctx, destinationDirectory, DefaultDirectoryMode); err != nil {
			return unexpected("error creating directory %q: %w", destinationDirectory, err)
		}
		return nil
	}

	if input.DryRun {
		fs.Log(input.Logger, "Would create directory tree (--dry-run is set)", map[string]interface{}{
			"dir": destinationDirectory,
		})
		return nil
	}

	fs.Log(input.Logger, "Creating directory tree", map[string]interface{}{
		"dir": destinationDirectory,
	})
	if err := fileSystem.MkdirAll(ctx, destinationDirectory, DefaultDirectoryMode); err != nil {
		return unexpected("error creating directory tree %q: %w", destinationDirectory, err)
	}

	return nil
}
