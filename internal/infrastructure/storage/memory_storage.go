package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// MemoryStorage guarda os objetos em memória. Usado com DB_DRIVER=memory e em testes.
type MemoryStorage struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string][]byte
}

// NewMemoryStorage cria um MemoryStorage vazio
func NewMemoryStorage(baseURL string) *MemoryStorage {
	return &MemoryStorage{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

func (s *MemoryStorage) Upload(ctx context.Context, folder, filename string, r io.Reader, _ int64, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	key := ObjectKey(folder, filename)

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return fmt.Sprintf("%s/media/%s", s.baseURL, key), nil
}

func (s *MemoryStorage) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, ok := strings.CutPrefix(url, s.baseURL+"/media/")
	if !ok || key == "" {
		return fmt.Errorf("url %q is not a stored object", url)
	}

	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Object devolve o conteúdo gravado sob key
func (s *MemoryStorage) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[key]
	return data, ok
}
