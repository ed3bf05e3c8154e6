package blob

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FSStore keeps objects as files under a root directory. Content types are
// recorded in a sidecar file next to each object.
type FSStore struct {
	Root string
}

func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{Root: root}, nil
}

type objectMeta struct {
	ContentType string `json:"content_type"`
}

// path flattens the key into a single file name so key segments can never
// escape the root.
func (s *FSStore) path(key string) string {
	safe := strings.ReplaceAll(key, "/", "_")
	safe = strings.ReplaceAll(safe, "..", "_")
	return filepath.Join(s.Root, safe)
}

func (s *FSStore) Put(ctx context.Context, key string, contentType string, body io.Reader) error {
	path := s.path(key)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	meta, err := json.Marshal(objectMeta{ContentType: contentType})
	if err != nil {
		return err
	}
	return os.WriteFile(path+".meta", meta, 0o644)
}

func (s *FSStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	path := s.path(key)

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, "", ErrObjectNotFound
	}
	if err != nil {
		return nil, "", err
	}

	contentType := "application/octet-stream"
	if raw, err := os.ReadFile(path + ".meta"); err == nil {
		var meta objectMeta
		if json.Unmarshal(raw, &meta) == nil && meta.ContentType != "" {
			contentType = meta.ContentType
		}
	}
	return f, contentType, nil
}

func (s *FSStore) Delete(ctx context.Context, key string) error {
	path := s.path(key)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.Remove(path + ".meta"); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
