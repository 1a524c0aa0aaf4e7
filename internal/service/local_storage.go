package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// LocalStorage keeps objects on the local disk under BasePath. Keys use
// forward slashes and map directly to sub-paths.
type LocalStorage struct {
	BasePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, err
	}
	return &LocalStorage{BasePath: basePath}, nil
}

func (l *LocalStorage) Put(_ context.Context, key string, data []byte) error {
	fullPath := filepath.Join(l.BasePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(fullPath, data, os.ModePerm)
}

func (l *LocalStorage) Get(_ context.Context, key string) ([]byte, error) {
	fullPath := filepath.Join(l.BasePath, filepath.FromSlash(key))
	data, err := os.ReadFile(fullPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	return data, err
}

func (l *LocalStorage) Delete(_ context.Context, key string) error {
	fullPath := filepath.Join(l.BasePath, filepath.FromSlash(key))
	if _, err := os.Stat(fullPath); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return os.Remove(fullPath)
}

func (l *LocalStorage) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	root := filepath.Join(l.BasePath, filepath.FromSlash(prefix))

	info, err := os.Stat(root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []ObjectInfo{{Key: prefix, ModTime: info.ModTime()}}, nil
	}

	var objects []ObjectInfo
	err = filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
		if err != nil || fi.IsDir() {
			return err
		}
		rel, err := filepath.Rel(l.BasePath, path)
		if err != nil {
			return err
		}
		objects = append(objects, ObjectInfo{
			Key:     filepath.ToSlash(rel),
			ModTime: fi.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return objects, nil
}
