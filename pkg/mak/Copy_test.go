// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package mak

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navwar/mak/pkg/fs"
	"github.com/navwar/mak/pkg/lfs"
)

type recordingLogger struct {
	messages []string
}

func (r *recordingLogger) Log(msg string, fields ...map[string]interface{}) error {
	r.messages = append(r.messages, msg)
	return nil
}

func writeFile(t *testing.T, fileSystem fs.FileSystem, name string, content string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, fileSystem.MkdirAll(ctx, fileSystem.Dir(name), 0755))
	f, err := fileSystem.OpenFile(ctx, name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	require.NoError(t, err)
	_, err = io.WriteString(f, content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func readFile(t *testing.T, fileSystem fs.FileSystem, name string) string {
	t.Helper()
	f, err := fileSystem.Open(context.Background(), name)
	require.NoError(t, err)
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return string(b)
}

func exists(fileSystem fs.FileSystem, name string) bool {
	_, err := fileSystem.Stat(context.Background(), name)
	return err == nil
}

func assertCode(t *testing.T, code Code, err error) {
	t.Helper()
	var e *Error
	if assert.ErrorAs(t, err, &e) {
		assert.Equal(t, code, e.Code)
	}
}

func assertUnexpected(t *testing.T, err error) {
	t.Helper()
	var e *UnexpectedError
	assert.ErrorAs(t, err, &e)
}

func TestCopyIntoExistingDirectory(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/a.txt", "hello world")
	require.NoError(t, fileSystem.MkdirAll(context.Background(), "/dst", 0755))

	err := Copy(context.Background(), &CopyInput{
		Source:      "/src/a.txt",
		Destination: "/dst",
		FileSystem:  fileSystem,
	})
	assert.NoError(t, err)
	assert.Equal(t, "hello world", readFile(t, fileSystem, "/dst/a.txt"))
	assert.Equal(t, "hello world", readFile(t, fileSystem, "/src/a.txt"))
}

func TestCopyDryRun(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/a.txt", "hello world")
	require.NoError(t, fileSystem.MkdirAll(context.Background(), "/dst", 0755))

	logger := &recordingLogger{}
	err := Copy(context.Background(), &CopyInput{
		Source:      "/src/a.txt",
		Destination: "/dst",
		FileSystem:  fileSystem,
		DryRun:      true,
		Logger:      logger,
	})
	assert.NoError(t, err)
	assert.False(t, exists(fileSystem, "/dst/a.txt"))
	assert.Contains(t, logger.messages, "Would copy file (--dry-run is set)")
}

func TestCopyDryRunDoesNotCreateDirectories(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/a.txt", "hello world")

	err := Copy(context.Background(), &CopyInput{
		Source:      "/src/a.txt",
		Destination: "/dst/b/c",
		FileSystem:  fileSystem,
		DryRun:      true,
	})
	assert.NoError(t, err)
	assert.False(t, exists(fileSystem, "/dst"))
}

func TestCopyNoGlobMissingSource(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()

	err := Copy(context.Background(), &CopyInput{
		Source:      "/src/missing.txt",
		Destination: "/dst",
		FileSystem:  fileSystem,
		NoGlob:      true,
	})
	assertCode(t, SourceNotFound, err)
	assert.False(t, exists(fileSystem, "/dst"))
}

func TestCopyNoGlobDirectory(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	require.NoError(t, fileSystem.MkdirAll(context.Background(), "/src/a", 0755))

	err := Copy(context.Background(), &CopyInput{
		Source:      "/src/a",
		Destination: "/dst",
		FileSystem:  fileSystem,
		NoGlob:      true,
	})
	assertCode(t, SourceNotFound, err)
}

func TestCopyNoGlobPatternIsLiteral(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/a.txt", "hello world")

	err := Copy(context.Background(), &CopyInput{
		Source:      "/src/*.txt",
		Destination: "/dst",
		FileSystem:  fileSystem,
		NoGlob:      true,
	})
	assertCode(t, SourceNotFound, err)
}

func TestCopyGlobNoMatch(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/a.txt", "hello world")

	err := Copy(context.Background(), &CopyInput{
		Source:      "/src/*.bin",
		Destination: "/dst",
		FileSystem:  fileSystem,
	})
	assertCode(t, SourceNotFoundAfterGlob, err)
	assert.False(t, exists(fileSystem, "/dst"))
}

func TestCopyGlobBadPattern(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/a.txt", "hello world")

	err := Copy(context.Background(), &CopyInput{
		Source:      "/src/[.txt",
		Destination: "/dst",
		FileSystem:  fileSystem,
	})
	assertCode(t, SourceNotFoundAfterGlob, err)
	assert.False(t, exists(fileSystem, "/dst"))
}

func TestCopyGlobSkipsHiddenFiles(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/.hidden", "hidden")
	writeFile(t, fileSystem, "/src/a.txt", "a")

	err := Copy(context.Background(), &CopyInput{
		Source:      "/src/*",
		Destination: "/dst",
		FileSystem:  fileSystem,
	})
	assert.NoError(t, err)
	assert.Equal(t, "a", readFile(t, fileSystem, "/dst/a.txt"))
	assert.False(t, exists(fileSystem, "/dst/.hidden"))
}

func TestCopyGlobFirstMatch(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/b.txt", "b")
	writeFile(t, fileSystem, "/src/a.txt", "a")
	writeFile(t, fileSystem, "/src/c.log", "c")

	logger := &recordingLogger{}
	err := Copy(context.Background(), &CopyInput{
		Source:      "/src/*.txt",
		Destination: "/dst",
		FileSystem:  fileSystem,
		Logger:      logger,
	})
	assert.NoError(t, err)
	assert.Equal(t, "a", readFile(t, fileSystem, "/dst/a.txt"))
	assert.False(t, exists(fileSystem, "/dst/b.txt"))
	assert.Contains(t, logger.messages, "Pattern matched more than one file: using the first match")
}

func TestCopyGlobDirectoryMatch(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	require.NoError(t, fileSystem.MkdirAll(context.Background(), "/src/a.d", 0755))

	err := Copy(context.Background(), &CopyInput{
		Source:      "/src/*.d",
		Destination: "/dst",
		FileSystem:  fileSystem,
	})
	assertUnexpected(t, err)
	assert.False(t, exists(fileSystem, "/dst"))
}

func TestCopyNestedDestination(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/a.txt", "hello world")

	err := Copy(context.Background(), &CopyInput{
		Source:      "/src/a.txt",
		Destination: "/dst/a/b/c",
		FileSystem:  fileSystem,
	})
	assert.NoError(t, err)
	assert.Equal(t, "hello world", readFile(t, fileSystem, "/dst/a/b/c/a.txt"))
}

func TestCopyNoMakeDir(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/a.txt", "hello world")

	err := Copy(context.Background(), &CopyInput{
		Source:      "/src/a.txt",
		Destination: "/dst",
		FileSystem:  fileSystem,
		NoMakeDir:   true,
	})
	assertCode(t, DestDirMissing, err)
	assert.False(t, exists(fileSystem, "/dst"))
}

func TestCopyNoMakeDirsTooDeep(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/a.txt", "hello world")

	for _, dryRun := range []bool{false, true} {
		err := Copy(context.Background(), &CopyInput{
			Source:      "/src/a.txt",
			Destination: "/dst/a/b",
			FileSystem:  fileSystem,
			NoMakeDirs:  true,
			DryRun:      dryRun,
		})
		assertCode(t, DestPathTooDeep, err)
		assert.False(t, exists(fileSystem, "/dst"))
	}
}

func TestCopyNoMakeDirsSingleLevel(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/a.txt", "hello world")

	err := Copy(context.Background(), &CopyInput{
		Source:      "/src/a.txt",
		Destination: "/src/out",
		FileSystem:  fileSystem,
		NoMakeDirs:  true,
	})
	assert.NoError(t, err)
	assert.Equal(t, "hello world", readFile(t, fileSystem, "/src/out/a.txt"))
}

func TestCopyDestinationExists(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/a.txt", "new")
	writeFile(t, fileSystem, "/dst/a.txt", "old")

	err := Copy(context.Background(), &CopyInput{
		Source:      "/src/a.txt",
		Destination: "/dst",
		FileSystem:  fileSystem,
	})
	assertCode(t, DestExists, err)
	assert.Equal(t, "old", readFile(t, fileSystem, "/dst/a.txt"))
}

func TestCopyForceOverwrite(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/a.txt", "new")
	writeFile(t, fileSystem, "/dst/a.txt", "old content")

	for i := 0; i < 2; i++ {
		err := Copy(context.Background(), &CopyInput{
			Source:         "/src/a.txt",
			Destination:    "/dst",
			FileSystem:     fileSystem,
			ForceOverwrite: true,
		})
		assert.NoError(t, err)
		assert.Equal(t, "new", readFile(t, fileSystem, "/dst/a.txt"))
	}
}

func TestCopyForceOverwriteDryRun(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/a.txt", "new")
	writeFile(t, fileSystem, "/dst/a.txt", "old")

	err := Copy(context.Background(), &CopyInput{
		Source:         "/src/a.txt",
		Destination:    "/dst",
		FileSystem:     fileSystem,
		ForceOverwrite: true,
		DryRun:         true,
	})
	assert.NoError(t, err)
	assert.Equal(t, "old", readFile(t, fileSystem, "/dst/a.txt"))
}

func TestCopySameFile(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/a.txt", "hello world")

	err := Copy(context.Background(), &CopyInput{
		Source:         "/src/a.txt",
		Destination:    "/src",
		FileSystem:     fileSystem,
		ForceOverwrite: true,
	})
	assertUnexpected(t, err)
	assert.Equal(t, "hello world", readFile(t, fileSystem, "/src/a.txt"))
}

func TestCopyDestinationIsFile(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/a.txt", "hello world")
	writeFile(t, fileSystem, "/dst", "not a directory")

	err := Copy(context.Background(), &CopyInput{
		Source:      "/src/a.txt",
		Destination: "/dst",
		FileSystem:  fileSystem,
	})
	assertUnexpected(t, err)
	assert.Equal(t, "not a directory", readFile(t, fileSystem, "/dst"))
}

func TestCopyDestinationFileIsDirectory(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/a.txt", "hello world")
	require.NoError(t, fileSystem.MkdirAll(context.Background(), "/dst/a.txt", 0755))

	err := Copy(context.Background(), &CopyInput{
		Source:      "/src/a.txt",
		Destination: "/dst",
		FileSystem:  fileSystem,
	})
	assertCode(t, DestExists, err)

	err = Copy(context.Background(), &CopyInput{
		Source:         "/src/a.txt",
		Destination:    "/dst",
		FileSystem:     fileSystem,
		ForceOverwrite: true,
	})
	assertUnexpected(t, err)
}

func TestCopyVerbose(t *testing.T) {
	fileSystem := lfs.NewMemoryFileSystem()
	writeFile(t, fileSystem, "/src/a.txt", "hello world")

	logger := &recordingLogger{}
	err := Copy(context.Background(), &CopyInput{
		Source:      "/src/a.txt",
		Destination: "/dst/a",
		FileSystem:  fileSystem,
		Logger:      logger,
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"Resolved source file",
		"Destination directory does not exist",
		"Creating directory tree",
		"Resolved destination file",
		"Copying file",
		"Done copying file",
	}, logger.messages)
}
