package media

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// LocalStorage writes images under a directory served as static content and
// returns root-relative URLs. RemoteID is the generated file name.
type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{dir: dir, baseURL: "/uploads"}
}

func (s *LocalStorage) Put(ctx context.Context, filename string, data []byte) (*StoredObject, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create uploads dir")
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return nil, errors.Wrap(err, "write upload file")
	}

	return &StoredObject{
		URL:      path.Join(s.baseURL, name),
		RemoteID: name,
	}, nil
}

func (s *LocalStorage) Remove(ctx context.Context, remoteID string) error {
	// Base strips any path a caller may have smuggled into the identifier
	err := os.Remove(filepath.Join(s.dir, filepath.Base(remoteID)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove upload file")
	}
	return nil
}
