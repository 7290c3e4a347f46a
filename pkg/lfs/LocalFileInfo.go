// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package lfs

import (
	"os"
	"time"
)

type LocalFileInfo struct {
	fileInfo os.FileInfo
}

func (lfi *LocalFileInfo) IsDir() bool {
	return lfi.fileInfo.IsDir()
}

func (lfi *LocalFileInfo) IsRegular() bool {
	return lfi.fileInfo.Mode().IsRegular()
}

func (lfi *LocalFileInfo) Mode() os.FileMode {
	return lfi.fileInfo.Mode()
}

func (lfi *LocalFileInfo) ModTime() time.Time {
	return lfi.fileInfo.ModTime()
}

func (lfi *LocalFileInfo) Name() string {
	return lfi.fileInfo.Name()
}

func (lfi *LocalFileInfo) Size() int64 {
	return lfi.fileInfo.Size()
}

func (lfi *LocalFileInfo) String() string {
	return lfi.fileInfo.Name()
}

func NewLocalFileInfo(fileInfo os.FileInfo) *LocalFileInfo {
	return &LocalFileInfo{
		fileInfo: fileInfo,
	}
}
