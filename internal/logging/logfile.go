package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const LogTimeLayout = "20060102150405"

// OpenFile opens the log file at path for writing.  If the file exists, it is
// first renamed with a timestamp (e.g. jmap.20250101120000.log), and rotated
// files older than maxAge are removed.  A zero maxAge keeps all of them.
func OpenFile(path string, maxAge time.Duration) (io.WriteCloser, error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(name)
	prefix := strings.TrimSuffix(name, ext)
	rotated := filepath.Join(dir, fmt.Sprintf("%s.%s%s", prefix, time.Now().UTC().Format(LogTimeLayout), ext))

	err = os.Rename(path, rotated)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if maxAge > 0 {
		err = Rotate(dir, prefix, ext, maxAge)
		if err != nil {
			return nil, err
		}
	}

	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
}

// Rotate removes the files in dir named prefix.<timestamp><ext> whose
// timestamp is older than age.
func Rotate(dir, prefix, ext string, age time.Duration) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		stamp, ok := strings.CutPrefix(entry.Name(), prefix+".")
		if !ok {
			continue
		}
		stamp, ok = strings.CutSuffix(stamp, ext)
		if !ok {
			continue
		}

		t, err := time.Parse(LogTimeLayout, stamp)
		if err != nil {
			continue
		}

		if time.Since(t) < age {
			continue
		}

		err = os.Remove(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
	}

	return nil
}
