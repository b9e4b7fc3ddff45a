package s3store

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/layerkit/layerkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Store_Path(t *testing.T) {
	tests := []struct {
		name         string
		bucket       string
		baseDir      string
		baseURI      string
		key          string
		expectedPath string
		expectedOk   bool
	}{
		{
			name:         "defaults ok",
			bucket:       "mybucket",
			key:          "/foo/bar.template.json",
			expectedPath: "foo/bar.template.json",
			expectedOk:   true,
		},
		{
			name:         "bucket with base dir",
			bucket:       "mybucket/templates",
			key:          "/bar.template.json",
			expectedPath: "templates/bar.template.json",
			expectedOk:   true,
		},
		{
			name:         "path under with prefix",
			bucket:       "mybucket",
			baseDir:      "/home/layerkit",
			baseURI:      "/foo",
			key:          "/foo/bar.template.json",
			expectedPath: "home/layerkit/bar.template.json",
			expectedOk:   true,
		},
		{
			name:       "path not under prefix",
			bucket:     "mybucket",
			baseDir:    "/home/layerkit",
			baseURI:    "/foo",
			key:        "/fooo/bar.template.json",
			expectedOk: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.baseURI != "" {
				opts = append(opts, WithPathPrefix(tt.baseURI))
			}
			if tt.baseDir != "" {
				opts = append(opts, WithBaseDir(tt.baseDir))
			}
			s := New(nil, tt.bucket, opts...)
			res, ok := s.Path(tt.key)
			assert.Equal(t, tt.expectedOk, ok)
			if tt.expectedOk {
				assert.Equal(t, tt.expectedPath, res)
			}
		})
	}
}

func fakeS3Client(t *testing.T, bucket string) *s3.Client {
	t.Helper()
	backend := s3mem.New()
	faker := gofakes3.New(backend)
	ts := httptest.NewServer(faker.Server())
	t.Cleanup(ts.Close)

	cfg := aws.Config{
		Region: "eu-central-1",
		Credentials: credentials.NewStaticCredentialsProvider(
			"YOUR-ACCESSKEYID", "YOUR-SECRETACCESSKEY", ""),
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(ts.URL)
		o.UsePathStyle = true
	})
	_, err := client.CreateBucket(context.Background(), &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	})
	require.NoError(t, err)
	return client
}

func TestCRUD(t *testing.T) {
	ctx := context.Background()
	s := New(fakeS3Client(t, "test"), "test", WithPathPrefix("/foo"))

	_, err := s.Get(ctx, "/bar/a.template.json")
	assert.Equal(t, layerkit.ErrInvalid, err)
	_, err = s.Get(ctx, "/foo/a.template.json")
	assert.Equal(t, layerkit.ErrNotFound, err)
	_, err = s.Stat(ctx, "/foo/a.template.json")
	assert.Equal(t, layerkit.ErrNotFound, err)

	require.NoError(t, s.Put(ctx, "/foo/a.template.json", []byte(`{"name":"a"}`), false))
	data, err := s.Get(ctx, "/foo/a.template.json")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"a"}`, string(data))

	stat, err := s.Stat(ctx, "/foo/a.template.json")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), stat.Size)
	assert.NotEmpty(t, stat.ETag)

	require.NoError(t, s.Delete(ctx, "/foo/a.template.json"))
	_, err = s.Get(ctx, "/foo/a.template.json")
	assert.Equal(t, layerkit.ErrNotFound, err)
}

func TestPutConflict(t *testing.T) {
	ctx := context.Background()
	s := New(fakeS3Client(t, "test"), "test")

	require.NoError(t, s.Put(ctx, "/a.template.json", []byte("one"), false))
	err := s.Put(ctx, "/a.template.json", []byte("two"), false)
	assert.Equal(t, layerkit.ErrExists, err)

	data, err := s.Get(ctx, "/a.template.json")
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))

	require.NoError(t, s.Put(ctx, "/a.template.json", []byte("two"), true))
	data, err = s.Get(ctx, "/a.template.json")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := New(fakeS3Client(t, "test"), "test")

	require.NoError(t, s.Put(ctx, "/designs/b.template.json", []byte("b"), false))
	require.NoError(t, s.Put(ctx, "/designs/a.template.json", []byte("a"), false))
	require.NoError(t, s.Put(ctx, "/other/c.template.json", []byte("c"), false))

	keys, err := s.List(ctx, "/designs")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/designs/a.template.json",
		"/designs/b.template.json",
	}, keys)
}
