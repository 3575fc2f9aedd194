package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes generated media (tts audio, generated images) under a local
// directory that the web layer serves at baseURL.
type Store struct {
	dir     string
	baseURL string
}

func NewStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media dir: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Save writes data as <prefix>-<uuid><ext> and returns the public URL.
func (s *Store) Save(prefix, ext string, data []byte) (string, error) {
	name := fmt.Sprintf("%s-%s%s", prefix, uuid.NewString(), ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return s.baseURL + "/" + name, nil
}

// Dir is the directory served by the web layer.
func (s *Store) Dir() string { return s.dir }
