package gcsstore

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"github.com/fsouza/fake-gcs-server/fakestorage"
	"github.com/layerkit/layerkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestGCSStore_Path(t *testing.T) {
	tests := []struct {
		name         string
		baseDir      string
		baseURI      string
		key          string
		expectedPath string
		expectedOk   bool
	}{
		{
			name:         "defaults ok",
			key:          "/foo/bar.template.json",
			expectedPath: "foo/bar.template.json",
			expectedOk:   true,
		},
		{
			name:         "path under with prefix",
			baseDir:      "home/layerkit",
			baseURI:      "/foo",
			key:          "/foo/bar.template.json",
			expectedPath: "home/layerkit/bar.template.json",
			expectedOk:   true,
		},
		{
			name:         "path under no prefix",
			baseDir:      "/home/layerkit",
			key:          "/foo/bar.template.json",
			expectedPath: "home/layerkit/foo/bar.template.json",
			expectedOk:   true,
		},
		{
			name:       "path not under prefix",
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
			s := New(nil, "test", opts...)
			res, ok := s.Path(tt.key)
			assert.Equal(t, tt.expectedOk, ok)
			if tt.expectedOk {
				assert.Equal(t, tt.expectedPath, res)
			}
		})
	}
}

func fakeGCSClient(t *testing.T) *storage.Client {
	t.Helper()
	srv, err := fakestorage.NewServerWithOptions(fakestorage.Options{
		InitialObjects: []fakestorage.Object{{
			ObjectAttrs: fakestorage.ObjectAttrs{
				BucketName: "test",
				Name:       "placeholder",
			},
			Content: []byte(""),
		}},
		NoListener: true,
	})
	require.NoError(t, err)
	t.Cleanup(srv.Stop)

	// create the client manually to avoid credential conflicts
	client, err := storage.NewClient(context.Background(),
		option.WithHTTPClient(srv.HTTPClient()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func TestCRUD(t *testing.T) {
	ctx := context.Background()
	s := New(fakeGCSClient(t), "test", WithPathPrefix("/foo"), WithACL("publicRead"))

	_, err := s.Get(ctx, "/bar/a.template.json")
	assert.Equal(t, layerkit.ErrInvalid, err)
	assert.Equal(t, layerkit.ErrInvalid, s.Put(ctx, "/bar/a.template.json", []byte("x"), true))
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
	assert.True(t, stat.ModifiedTime.Before(time.Now()))

	require.NoError(t, s.Delete(ctx, "/foo/a.template.json"))
	_, err = s.Get(ctx, "/foo/a.template.json")
	assert.Equal(t, layerkit.ErrNotFound, err)
}

func TestPutConflict(t *testing.T) {
	ctx := context.Background()
	s := New(fakeGCSClient(t), "test")

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
	s := New(fakeGCSClient(t), "test", WithBaseDir("base"))

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
