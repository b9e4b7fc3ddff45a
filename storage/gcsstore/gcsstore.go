// Package gcsstore persists template documents in a Google Cloud Storage
// bucket
package gcsstore

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/layerkit/layerkit"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

// GCSStore Google Cloud Storage backed template store
type GCSStore struct {
	BaseDir    string
	PathPrefix string
	ACL        string
	Expiration time.Duration
	Bucket     string

	client *storage.Client
}

// New creates GCSStore for the given bucket
func New(client *storage.Client, bucket string, options ...Option) *GCSStore {
	s := &GCSStore{
		client:     client,
		Bucket:     bucket,
		PathPrefix: "/",
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Path transforms and validates a document key into an object name.
// GCS object names carry no leading slash.
func (s *GCSStore) Path(key string) (string, bool) {
	key = "/" + strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+key)), "/")
	if !strings.HasPrefix(key, s.PathPrefix) {
		return "", false
	}
	joined := filepath.Join(s.BaseDir, strings.TrimPrefix(key, s.PathPrefix))
	return strings.Trim(filepath.ToSlash(joined), "/"), true
}

// Get implements layerkit.Store
func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	name, ok := s.Path(key)
	if !ok {
		return nil, layerkit.ErrInvalid
	}
	object := s.client.Bucket(s.Bucket).Object(name)
	attrs, err := object.Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, layerkit.ErrNotFound
		}
		return nil, err
	}
	if s.Expiration > 0 && time.Since(attrs.Updated) > s.Expiration {
		return nil, layerkit.ErrExpired
	}
	reader, err := object.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, layerkit.ErrNotFound
		}
		return nil, err
	}
	defer func() {
		_ = reader.Close()
	}()
	return io.ReadAll(reader)
}

// Put implements layerkit.Store. Without overwrite the write carries a
// DoesNotExist precondition and an existing document fails with ErrExists.
func (s *GCSStore) Put(ctx context.Context, key string, data []byte, overwrite bool) error {
	name, ok := s.Path(key)
	if !ok {
		return layerkit.ErrInvalid
	}
	object := s.client.Bucket(s.Bucket).Object(name)
	if !overwrite {
		object = object.If(storage.Conditions{DoesNotExist: true})
	}
	writer := object.NewWriter(ctx)
	if s.ACL != "" {
		writer.PredefinedACL = s.ACL
	}
	writer.ContentType = "application/json"
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == 412 {
			return layerkit.ErrExists
		}
		return err
	}
	return nil
}

// Stat implements layerkit.Store
func (s *GCSStore) Stat(ctx context.Context, key string) (*layerkit.Stat, error) {
	name, ok := s.Path(key)
	if !ok {
		return nil, layerkit.ErrInvalid
	}
	attrs, err := s.client.Bucket(s.Bucket).Object(name).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, layerkit.ErrNotFound
		}
		return nil, err
	}
	return &layerkit.Stat{
		Size:         attrs.Size,
		ETag:         attrs.Etag,
		ModifiedTime: attrs.Updated,
	}, nil
}

// Delete implements layerkit.Store
func (s *GCSStore) Delete(ctx context.Context, key string) error {
	name, ok := s.Path(key)
	if !ok {
		return layerkit.ErrInvalid
	}
	err := s.client.Bucket(s.Bucket).Object(name).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return layerkit.ErrNotFound
	}
	return err
}

// List implements layerkit.Lister, returning document keys under prefix in
// lexical order
func (s *GCSStore) List(ctx context.Context, prefix string) ([]string, error) {
	name, ok := s.Path(prefix)
	if !ok {
		return nil, layerkit.ErrInvalid
	}
	if name != "" {
		name += "/"
	}
	baseDir := strings.Trim(filepath.ToSlash(filepath.Clean("/"+s.BaseDir)), "/")
	var keys []string
	it := s.client.Bucket(s.Bucket).Objects(ctx, &storage.Query{Prefix: name})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		key := strings.TrimPrefix(attrs.Name, baseDir)
		keys = append(keys, s.PathPrefix+strings.TrimPrefix(key, "/"))
	}
	sort.Strings(keys)
	return keys, nil
}
