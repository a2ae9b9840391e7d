package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileStore persists a single document of type T as yaml or json.
type FileStore[T any] struct {
	dir    string
	name   string
	format string
}

// NewFileStore creates the directory if needed; format is "yaml" or "json".
func NewFileStore[T any](dir, name, format string) (*FileStore[T], error) {
	if format != "yaml" && format != "json" {
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore[T]{dir: dir, name: name, format: format}, nil
}

// Path returns the path of the backing file.
func (fs *FileStore[T]) Path() string {
	return filepath.Join(fs.dir, fs.name+"."+fs.format)
}

func (fs *FileStore[T]) Marshal(data T) ([]byte, error) {
	if fs.format == "json" {
		return json.MarshalIndent(data, "", "  ")
	}
	return yaml.Marshal(data)
}

func (fs *FileStore[T]) Unmarshal(raw []byte, data *T) error {
	if fs.format == "json" {
		return json.Unmarshal(raw, data)
	}
	return yaml.Unmarshal(raw, data)
}

// Save writes the document; the temp file + rename keeps readers from seeing a half file.
func (fs *FileStore[T]) Save(data T) error {
	serialized, err := fs.Marshal(data)
	if err != nil {
		return err
	}
	tmp := fs.Path() + ".tmp"
	if err := os.WriteFile(tmp, serialized, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, fs.Path())
}

// Load reads the document, returning the zero value when the file doesn't exist.
func (fs *FileStore[T]) Load() (T, error) {
	var data T
	serialized, err := os.ReadFile(fs.Path())
	if os.IsNotExist(err) {
		return data, nil
	}
	if err != nil {
		return data, err
	}
	err = fs.Unmarshal(serialized, &data)
	return data, err
}
