package fs

import (
	iofs "io/fs"
)

type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	FileExists(path string) bool
	Stat(path string) (iofs.FileInfo, error)
	WalkDir(root string, fn iofs.WalkDirFunc) error
	WriteFile(path string, data []byte, perm iofs.FileMode) error
	MkdirAll(path string, perm iofs.FileMode) error
	CopyFile(src, dst string) error
}
