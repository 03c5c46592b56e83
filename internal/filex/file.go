// Package filex contains filesystem helpers for the on-device document store.
package filex

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const fileScheme = "file://"

// EnsureSubDir creates base/name (and parents) when missing and returns the
// absolute path.
func EnsureSubDir(base, name string) (string, error) {
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		base = cwd
	}

	dir, err := filepath.Abs(filepath.Join(base, name))
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", name, err)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// Writable reports whether dir exists or can be created, and accepts new files.
func Writable(dir string) bool {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return false
	}
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

// CopyFile copies src to dst, failing if dst already exists.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o660)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}

// Remove deletes path. A file that is already gone is not an error.
func Remove(path string) error {
	err := os.Remove(ToPath(path))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// IsLocalPath reports whether p points at on-device storage: a file:// URI or
// an absolute filesystem path. Object-store keys are neither.
func IsLocalPath(p string) bool {
	return strings.HasPrefix(p, fileScheme) || filepath.IsAbs(p)
}

// ToPath strips a file:// scheme, leaving a plain filesystem path.
func ToPath(p string) string {
	return strings.TrimPrefix(p, fileScheme)
}

// Ext returns the lower-case extension of the last path element without the
// leading dot, or "" if there is none.
func Ext(p string) string {
	base := p
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	i := strings.LastIndex(base, ".")
	if i <= 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}
