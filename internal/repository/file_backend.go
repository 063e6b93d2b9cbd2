package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const documentExt = ".json"

// FileBackend keeps one JSON file per key under dir. The directory is created
// on first write.
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, SafeKey(key)+documentExt)
}

func (b *FileBackend) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read document: %w", err)
	}
	return data, nil
}

func (b *FileBackend) Write(ctx context.Context, key string, data []byte) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(b.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path(key)); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

func (b *FileBackend) Delete(ctx context.Context, key string) error {
	if err := os.Remove(b.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (b *FileBackend) Keys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list store dir: %w", err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, documentExt) {
			continue
		}
		key, ok := keyFromFileName(strings.TrimSuffix(name, documentExt))
		if !ok {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// SafeKey maps an arbitrary id onto a file name. [A-Za-z0-9-] pass through,
// every other byte (including '_') is written as _XX, so distinct ids never
// share a file. The empty id is "_".
func SafeKey(key string) string {
	if key == "" {
		return "_"
	}
	var sb strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		if plainKeyByte(c) {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, "_%02X", c)
	}
	return sb.String()
}

// keyFromFileName reverses SafeKey. Names SafeKey cannot produce are rejected.
func keyFromFileName(name string) (string, bool) {
	if name == "_" {
		return "", true
	}
	var sb strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case plainKeyByte(c):
			sb.WriteByte(c)
		case c == '_' && i+2 < len(name):
			b, err := strconv.ParseUint(name[i+1:i+3], 16, 8)
			if err != nil || strings.ToUpper(name[i+1:i+3]) != name[i+1:i+3] {
				return "", false
			}
			sb.WriteByte(byte(b))
			i += 2
		default:
			return "", false
		}
	}
	return sb.String(), true
}

func plainKeyByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-'
}
