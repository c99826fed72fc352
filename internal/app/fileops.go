package app

import "os"

// osFileOps performs the filesystem-side operations a workspace edit's
// ResourceOp may require, satisfying reducer.FileOps with real syscalls.
type osFileOps struct{}

func (osFileOps) CreateFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

func (osFileOps) RenameFile(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

func (osFileOps) DeleteFile(path string) error {
	return os.Remove(path)
}
