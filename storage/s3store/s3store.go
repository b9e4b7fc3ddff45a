// Package s3store persists template documents in an AWS S3 bucket
package s3store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/layerkit/layerkit"
)

// S3Store AWS S3 backed template store
type S3Store struct {
	Client *s3.Client
	Bucket string

	BaseDir    string
	PathPrefix string
	ACL        string
	Expiration time.Duration
}

// New creates S3Store for the given bucket. A path component in the bucket
// string becomes the base directory, following s3://bucket/dir convention.
func New(client *s3.Client, bucket string, options ...Option) *S3Store {
	baseDir := "/"
	if idx := strings.Index(bucket, "/"); idx > -1 {
		baseDir = bucket[idx:]
		bucket = bucket[:idx]
	}
	s := &S3Store{
		Client: client,
		Bucket: bucket,

		BaseDir:    baseDir,
		PathPrefix: "/",
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Path transforms and validates a document key into an object key
func (s *S3Store) Path(key string) (string, bool) {
	key = "/" + strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+key)), "/")
	if !strings.HasPrefix(key, s.PathPrefix) {
		return "", false
	}
	joined := filepath.Join(s.BaseDir, strings.TrimPrefix(key, s.PathPrefix))
	return strings.TrimPrefix(filepath.ToSlash(joined), "/"), true
}

// Get implements layerkit.Store
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	object, ok := s.Path(key)
	if !ok {
		return nil, layerkit.ErrInvalid
	}
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(object),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, layerkit.ErrNotFound
		}
		return nil, err
	}
	defer func() {
		_ = out.Body.Close()
	}()
	if s.Expiration > 0 && out.LastModified != nil {
		if time.Since(*out.LastModified) > s.Expiration {
			return nil, layerkit.ErrExpired
		}
	}
	return io.ReadAll(out.Body)
}

// Put implements layerkit.Store. Without overwrite the upload carries an
// If-None-Match guard and an existing document fails with ErrExists.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, overwrite bool) error {
	object, ok := s.Path(key)
	if !ok {
		return layerkit.ErrInvalid
	}
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(object),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}
	if s.ACL != "" {
		input.ACL = types.ObjectCannedACL(s.ACL)
	}
	if !overwrite {
		// stat first as not every S3 compatible endpoint honors the
		// conditional write header
		if _, err := s.Stat(ctx, key); err == nil {
			return layerkit.ErrExists
		} else if !errors.Is(err, layerkit.ErrNotFound) {
			return err
		}
		input.IfNoneMatch = aws.String("*")
	}
	_, err := s.Client.PutObject(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return layerkit.ErrExists
		}
		return err
	}
	return nil
}

// Stat implements layerkit.Store
func (s *S3Store) Stat(ctx context.Context, key string) (*layerkit.Stat, error) {
	object, ok := s.Path(key)
	if !ok {
		return nil, layerkit.ErrInvalid
	}
	head, err := s.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(object),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return nil, layerkit.ErrNotFound
		}
		return nil, err
	}
	stat := &layerkit.Stat{}
	if head.ContentLength != nil {
		stat.Size = *head.ContentLength
	}
	if head.ETag != nil {
		stat.ETag = *head.ETag
	}
	if head.LastModified != nil {
		stat.ModifiedTime = *head.LastModified
	}
	return stat, nil
}

// Delete implements layerkit.Store
func (s *S3Store) Delete(ctx context.Context, key string) error {
	object, ok := s.Path(key)
	if !ok {
		return layerkit.ErrInvalid
	}
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(object),
	})
	return err
}

// List implements layerkit.Lister, returning document keys under prefix in
// lexical order
func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	object, ok := s.Path(prefix)
	if !ok {
		return nil, layerkit.ErrInvalid
	}
	if object != "" && !strings.HasSuffix(object, "/") {
		object += "/"
	}
	baseDir := strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+s.BaseDir)), "/")
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.Bucket),
		Prefix: aws.String(object),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			key := strings.TrimPrefix(*obj.Key, baseDir)
			keys = append(keys, s.PathPrefix+strings.TrimPrefix(key, "/"))
		}
	}
	sort.Strings(keys)
	return keys, nil
}
