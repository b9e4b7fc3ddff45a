// Package filestore persists template documents on the local file system
package filestore

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/layerkit/layerkit"
)

var dotFileRegex = regexp.MustCompile("/\\.")

// FileStore file system backed template store
type FileStore struct {
	BaseDir         string
	PathPrefix      string
	Blacklists      []*regexp.Regexp
	MkdirPermission os.FileMode
	WritePermission os.FileMode
	Expiration      time.Duration
}

// New creates FileStore rooted at baseDir
func New(baseDir string, options ...Option) *FileStore {
	s := &FileStore{
		BaseDir:         baseDir,
		PathPrefix:      "/",
		Blacklists:      []*regexp.Regexp{dotFileRegex},
		MkdirPermission: 0755,
		WritePermission: 0666,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Path transforms and validates a document key into a file path
func (s *FileStore) Path(key string) (string, bool) {
	key = "/" + strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+key)), "/")
	for _, blacklist := range s.Blacklists {
		if blacklist.MatchString(key) {
			return "", false
		}
	}
	if !strings.HasPrefix(key, s.PathPrefix) {
		return "", false
	}
	return filepath.Join(s.BaseDir, strings.TrimPrefix(key, s.PathPrefix)), true
}

// Get implements layerkit.Store
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	file, ok := s.Path(key)
	if !ok {
		return nil, layerkit.ErrInvalid
	}
	stats, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, layerkit.ErrNotFound
		}
		return nil, err
	}
	if s.Expiration > 0 && time.Since(stats.ModTime()) > s.Expiration {
		return nil, layerkit.ErrExpired
	}
	return os.ReadFile(file)
}

// Put implements layerkit.Store. Without overwrite an existing document
// fails with ErrExists; with overwrite the document is replaced wholesale.
func (s *FileStore) Put(_ context.Context, key string, data []byte, overwrite bool) error {
	file, ok := s.Path(key)
	if !ok {
		return layerkit.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(file), s.MkdirPermission); err != nil {
		return err
	}
	flag := os.O_RDWR | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flag = os.O_RDWR | os.O_CREATE | os.O_EXCL
	}
	w, err := os.OpenFile(file, flag, s.WritePermission)
	if err != nil {
		if os.IsExist(err) {
			return layerkit.ErrExists
		}
		return err
	}
	defer func() {
		_ = w.Close()
	}()
	_, err = w.Write(data)
	return err
}

// Stat implements layerkit.Store
func (s *FileStore) Stat(_ context.Context, key string) (*layerkit.Stat, error) {
	file, ok := s.Path(key)
	if !ok {
		return nil, layerkit.ErrInvalid
	}
	stats, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, layerkit.ErrNotFound
		}
		return nil, err
	}
	return &layerkit.Stat{
		Size:         stats.Size(),
		ModifiedTime: stats.ModTime(),
	}, nil
}

// Delete implements layerkit.Store
func (s *FileStore) Delete(_ context.Context, key string) error {
	file, ok := s.Path(key)
	if !ok {
		return layerkit.ErrInvalid
	}
	if err := os.Remove(file); err != nil {
		if os.IsNotExist(err) {
			return layerkit.ErrNotFound
		}
		return err
	}
	return nil
}

// List implements layerkit.Lister, returning document keys under prefix in
// lexical order
func (s *FileStore) List(_ context.Context, prefix string) ([]string, error) {
	dir, ok := s.Path(prefix)
	if !ok {
		return nil, layerkit.ErrInvalid
	}
	var keys []string
	err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.BaseDir, p)
		if err != nil {
			return err
		}
		key := s.PathPrefix + filepath.ToSlash(rel)
		if dotFileRegex.MatchString(key) {
			return nil
		}
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}
