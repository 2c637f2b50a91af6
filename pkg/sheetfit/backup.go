package sheetfit

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BackupPath returns the timestamped sibling backup path of path.
func BackupPath(path string, at time.Time) string {
	return stem(path) + ".backup_" + at.Format("20060102_150405") + ".xlsx"
}

// FixedPath returns the default output path of a repair of path.
func FixedPath(path string) string {
	return stem(path) + ".fixed.xlsx"
}

func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// backupFile copies src to dst, keeps the source modification time and
// verifies the copy. It returns the hex SHA-256 of the backup.
func backupFile(src, dst string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dst); err == nil {
		return "", fmt.Errorf("%s already exists", dst)
	}

	sum, err := copyFile(src, dst, info.Mode().Perm())
	if err != nil {
		os.Remove(dst)
		return "", err
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		os.Remove(dst)
		return "", err
	}

	got, err := checksum(dst)
	if err != nil {
		os.Remove(dst)
		return "", err
	}
	if !bytes.Equal(got, sum) {
		os.Remove(dst)
		return "", fmt.Errorf("checksum mismatch for %s", dst)
	}
	return hex.EncodeToString(sum), nil
}

// copyFile streams src into a new file at dst and returns the hash of the
// bytes read from src.
func copyFile(src, dst string, perm os.FileMode) ([]byte, error) {
	in, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return nil, err
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		out.Close()
		return nil, err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return nil, err
	}
	if err := out.Close(); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

func checksum(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
