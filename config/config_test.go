package config

import (
	"crypto/sha256"
	"testing"
	"time"

	"github.com/layerkit/layerkit"
	"github.com/layerkit/layerkit/params"
	"github.com/layerkit/layerkit/pipeline"
	"github.com/layerkit/layerkit/probe"
	"github.com/layerkit/layerkit/storage/filestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEditor(t *testing.T, app *App) *layerkit.Editor {
	t.Helper()
	require.NotNil(t, app)
	ed := layerkit.New("gallery/photo.jpg",
		params.Dimensions{Width: 800, Height: 600}, app.Options...)
	t.Cleanup(ed.Close)
	return ed
}

func TestDefault(t *testing.T) {
	app := Do(nil)
	ed := newEditor(t, app)

	assert.Empty(t, app.Source)
	assert.Equal(t, "/", app.TemplateSavePath)
	assert.Empty(t, app.Template)
	assert.Empty(t, app.Output)
	assert.False(t, app.Debug)
	assert.NotNil(t, app.Preview)
	assert.NotNil(t, app.Fetcher)
	assert.Nil(t, app.Metrics)

	assert.False(t, ed.Debug)
	assert.Nil(t, ed.Store)
	assert.IsType(t, &probe.CachedProber{}, ed.Prober)
	assert.False(t, ed.Resolver.Unsafe)
	assert.Empty(t, ed.Resolver.BaseURL)
	assert.Empty(t, ed.Resolver.AccessToken)
	assert.Equal(t,
		pipeline.NewDefaultSigner("").Sign("300x200/foo.png"),
		ed.Resolver.Signer.Sign("300x200/foo.png"))

	state := ed.State()
	assert.Equal(t, params.Dimensions{Width: 800, Height: 600}, state.Viewport,
		"viewport defaults to natural dimensions")
}

func TestBasic(t *testing.T) {
	app := Do([]string{
		"-debug",
		"-source", "gallery/photo.jpg",
		"-source-width", "1600",
		"-source-height", "1200",
		"-viewport-width", "640",
		"-viewport-height", "480",
		"-service-url", "https://img.example.com",
		"-secret", "foo",
		"-unsafe",
		"-access-token", "tok123",
		"-template", "summer-sale",
		"-template-save-path", "/designs",
		"-output", "out.png",
		"-preview-debounce", "150ms",
		"-preview-timeout", "5s",
		"-preview-max-allowed-size", "1048576",
	})
	ed := newEditor(t, app)

	assert.Equal(t, "gallery/photo.jpg", app.Source)
	assert.Equal(t, params.Dimensions{Width: 1600, Height: 1200}, app.Natural)
	assert.Equal(t, "summer-sale", app.Template)
	assert.Equal(t, "/designs", app.TemplateSavePath)
	assert.Equal(t, "out.png", app.Output)
	assert.True(t, app.Debug)
	assert.Equal(t, 1048576, app.Fetcher.MaxAllowedSize)

	assert.True(t, ed.Debug)
	assert.True(t, ed.Resolver.Unsafe)
	assert.Equal(t, "https://img.example.com", ed.Resolver.BaseURL)
	assert.Equal(t, "tok123", ed.Resolver.AccessToken)
	assert.Equal(t,
		pipeline.NewDefaultSigner("foo").Sign("300x200/foo.png"),
		ed.Resolver.Signer.Sign("300x200/foo.png"))

	state := ed.State()
	assert.Equal(t, params.Dimensions{Width: 640, Height: 480}, state.Viewport)
}

func TestVersion(t *testing.T) {
	assert.Nil(t, Do([]string{"-version"}))
}

func TestSignerAlgorithm(t *testing.T) {
	app := Do([]string{
		"-secret", "foo",
		"-signer-type", "sha256",
	})
	ed := newEditor(t, app)
	assert.Equal(t,
		pipeline.NewHMACSigner(sha256.New, 0, "foo").Sign("300x200/foo.png"),
		ed.Resolver.Signer.Sign("300x200/foo.png"))

	app = Do([]string{
		"-secret", "foo",
		"-signer-type", "sha256",
		"-signer-truncate", "32",
	})
	ed = newEditor(t, app)
	assert.Len(t, ed.Resolver.Signer.Sign("300x200/foo.png"), 32)
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	app := Do([]string{
		"-file-store-base-dir", dir,
		"-file-store-path-prefix", "/designs",
		"-file-store-expiration", "24h",
	})
	ed := newEditor(t, app)
	store, ok := ed.Store.(*filestore.FileStore)
	require.True(t, ok)
	assert.Equal(t, dir, store.BaseDir)
	assert.Equal(t, "/designs/", store.PathPrefix)
	assert.Equal(t, time.Hour*24, store.Expiration)
}

func TestPrometheus(t *testing.T) {
	app := Do([]string{
		"-prometheus-bind", ":5000",
		"-prometheus-path", "/stats",
	})
	require.NotNil(t, app)
	require.NotNil(t, app.Metrics)
	assert.Equal(t, ":5000", app.Metrics.Addr)
	assert.Equal(t, "/stats", app.Metrics.Path)
	app.Preview.Close()
}
