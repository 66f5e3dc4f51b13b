package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
)

// PostedDirName is the folder, beside the original file, that published content is moved into.
const PostedDirName = "posted"

// CreateFolder creates every given folder (and parents) if missing.
func CreateFolder(folderPath ...string) error {
	for _, folder := range folderPath {
		if folder == "" || folder == "." {
			continue
		}
		if err := os.MkdirAll(folder, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", folder, err)
		}
	}
	return nil
}

// PostedPath returns where path ends up once archived.
func PostedPath(path string) string {
	return filepath.Join(filepath.Dir(path), PostedDirName, filepath.Base(path))
}

// ArchivePosted moves path into the posted/ folder next to it and returns the new location.
func ArchivePosted(path string) (string, error) {
	dst := PostedPath(path)
	if err := CreateFolder(filepath.Dir(dst)); err != nil {
		return "", err
	}
	if err := MoveFile(path, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// MoveFile renames src to dst, falling back to copy+remove when they live on different devices.
func MoveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !isCrossDevice(linkErr) {
		return err
	}

	logrus.Debugf("[UTILS] rename across devices, copying %s to %s", src, dst)
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func isCrossDevice(err *os.LinkError) bool {
	return errors.Is(err.Err, syscall.EXDEV)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}

// RemoveFile deletes the given paths, ignoring ones already gone.
func RemoveFile(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logrus.Warnf("[UTILS] failed to remove %s: %v", p, err)
		}
	}
}
