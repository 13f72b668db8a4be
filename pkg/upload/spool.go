// Package upload holds per-request temporary storage for uploaded files.
package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
)

// Spool is a private temporary copy of one uploaded file. It is owned by a
// single upload and must be released on every exit path.
type Spool struct {
	file *os.File
	size int64

	once sync.Once
	err  error
}

// Acquire copies src into a new temporary file in dir (os.TempDir when dir
// is empty) and rewinds it for reading. On failure nothing is left on disk.
func Acquire(dir string, src io.Reader) (*Spool, error) {
	f, err := os.CreateTemp(dir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	s := &Spool{file: f}

	n, err := io.Copy(f, src)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("spool upload: %w", err), s.Release())
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Join(fmt.Errorf("rewind upload: %w", err), s.Release())
	}
	s.size = n
	return s, nil
}

func (s *Spool) File() *os.File {
	return s.file
}

func (s *Spool) Path() string {
	return s.file.Name()
}

func (s *Spool) Size() int64 {
	return s.size
}

// Release closes and deletes the temporary file. It is safe to call more
// than once; later calls return the first result.
func (s *Spool) Release() error {
	s.once.Do(func() {
		closeErr := s.file.Close()
		if closeErr != nil && errors.Is(closeErr, os.ErrClosed) {
			closeErr = nil
		}
		removeErr := os.Remove(s.file.Name())
		if removeErr != nil && errors.Is(removeErr, fs.ErrNotExist) {
			removeErr = nil
		}
		s.err = errors.Join(closeErr, removeErr)
	})
	return s.err
}
