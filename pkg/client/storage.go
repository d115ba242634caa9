package client

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrNoData is returned by Storage.Load when nothing is stored under the key.
var ErrNoData = errors.New("client: no stored data")

// Storage persists small blobs by key, the way a browser's localStorage does.
type Storage interface {
	Load(key string) ([]byte, error)
	Save(key string, b []byte) error
	Remove(key string) error
}

// FSStorage keeps one file per key under Dir.
type FSStorage struct {
	Fs  afero.Fs
	Dir string
}

// NewFileStorage stores under dir on the real filesystem.
func NewFileStorage(dir string) *FSStorage { return &FSStorage{Fs: afero.NewOsFs(), Dir: dir} }

// NewMemoryStorage keeps everything in process memory.
func NewMemoryStorage() *FSStorage { return &FSStorage{Fs: afero.NewMemMapFs(), Dir: "/"} }

func (s *FSStorage) path(key string) string { return filepath.Join(s.Dir, key+".json") }

func (s *FSStorage) Load(key string) ([]byte, error) {
	b, err := afero.ReadFile(s.Fs, s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoData
	}
	return b, err
}

// Save writes to a temp file and renames it so readers never see half a write.
func (s *FSStorage) Save(key string, b []byte) error {
	if err := s.Fs.MkdirAll(s.Dir, 0o700); err != nil {
		return err
	}
	tmp := s.path(key) + ".tmp"
	if err := afero.WriteFile(s.Fs, tmp, b, 0o600); err != nil {
		return err
	}
	return s.Fs.Rename(tmp, s.path(key))
}

func (s *FSStorage) Remove(key string) error {
	err := s.Fs.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
