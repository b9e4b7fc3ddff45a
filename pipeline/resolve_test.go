package pipeline

import (
	"net/url"
	"strings"
	"testing"

	"github.com/layerkit/layerkit/layer"
	"github.com/layerkit/layerkit/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNatural  = params.Dimensions{Width: 1920, Height: 1080}
	testViewport = params.Dimensions{Width: 800, Height: 600}
)

func TestResolveBaseFillAxes(t *testing.T) {
	base := params.Params{WidthFull: true, WidthFullOffset: 200, Height: 500}
	node := Resolver{}.Resolve(base, testNatural, testViewport, nil)
	assert.Equal(t, 600, node.Width, "fill axis emits viewport minus offset")
	assert.Equal(t, 500, node.Height, "absolute axis passes through")
}

func TestResolveUnsetAxesStayZero(t *testing.T) {
	node := Resolver{}.Resolve(params.Params{}, testNatural, testViewport, nil)
	assert.Zero(t, node.Width)
	assert.Zero(t, node.Height)
	assert.Equal(t, "", GeneratePath(node), "empty base emits the bare image")
}

func TestResolveFilterOrder(t *testing.T) {
	base := params.Params{
		Grayscale:         true,
		RoundCornerRadius: 10,
		Sharpen:           1.5,
		Blur:              2,
		Hue:               90,
		Saturation:        -20,
		Contrast:          30,
		Brightness:        -40,
		FilterCropLeft:    5, FilterCropTop: 6,
		FilterCropWidth: 100, FilterCropHeight: 80,
	}
	node := Resolver{}.Resolve(base, testNatural, testViewport, nil)
	var names []string
	for _, f := range node.Filters {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"crop", "brightness", "contrast", "saturation", "hue",
		"blur", "sharpen", "round_corner", "grayscale",
	}, names, "fixed composition order regardless of edit order")
	assert.Equal(t, "5,6,100,80", node.Filters[0].Args)
	assert.Equal(t, "1.5", node.Filters[6].Args)
}

func TestResolveAlignmentOnlyInFillFit(t *testing.T) {
	base := params.Params{
		Width: 300, Height: 200,
		HAlign: params.HAlignLeft, VAlign: params.VAlignBottom,
	}
	node := Resolver{}.Resolve(base, testNatural, testViewport, nil)
	assert.Equal(t, "left", node.HAlign)

	base.FitIn = true
	node = Resolver{}.Resolve(base, testNatural, testViewport, nil)
	assert.Empty(t, node.HAlign, "alignment dropped outside default fill fit")
	assert.Empty(t, node.VAlign)
}

func TestResolveLayerOverlay(t *testing.T) {
	layers := []layer.Layer{
		{
			ID:        "layer-1",
			ImagePath: "stickers/star.png",
			Original:  params.Dimensions{Width: 200, Height: 200},
			X:         layer.Keyword(layer.AnchorCenter),
			Y:         layer.At(40),
			Alpha:     25,
			Visible:   true,
			Params:    params.Params{Width: 100, Height: 100},
		},
	}
	node := Resolver{}.Resolve(params.Params{Width: 800, Height: 600}, testNatural, testViewport, layers)
	require.Len(t, node.Filters, 1)
	f := node.Filters[0]
	assert.Equal(t, "overlay", f.Name)

	args := strings.Split(f.Args, ",")
	require.Len(t, args, 4)
	sub, err := url.QueryUnescape(args[0])
	require.NoError(t, err)
	assert.Equal(t, "100x100/stickers/star.png", sub)
	assert.Equal(t, "center", args[1])
	assert.Equal(t, "40", args[2])
	assert.Equal(t, "25", args[3])
}

func TestResolveLayerBlendMode(t *testing.T) {
	layers := []layer.Layer{{
		ID: "layer-1", ImagePath: "a.png", Visible: true,
		X: layer.At(0), Y: layer.At(0), BlendMode: "multiply",
	}}
	node := Resolver{}.Resolve(params.Params{}, testNatural, testViewport, layers)
	require.Len(t, node.Filters, 1)
	assert.True(t, strings.HasSuffix(node.Filters[0].Args, ",multiply"))
}

func TestResolveHiddenLayersSkipped(t *testing.T) {
	layers := []layer.Layer{
		{ID: "layer-1", ImagePath: "a.png", Visible: false},
		{ID: "layer-2", ImagePath: "b.png", Visible: true,
			X: layer.At(0), Y: layer.At(0)},
	}
	node := Resolver{}.Resolve(params.Params{}, testNatural, testViewport, layers)
	require.Len(t, node.Filters, 1)
	assert.Contains(t, node.Filters[0].Args, url.QueryEscape("b.png"))
}

func TestResolveLayerFillAgainstResolvedBase(t *testing.T) {
	// base resolves to 400x300, the layer's fill axis measures against that
	base := params.Params{Width: 400, Height: 300}
	layers := []layer.Layer{{
		ID: "layer-1", ImagePath: "a.png", Visible: true,
		X: layer.At(0), Y: layer.At(0),
		Params: params.Params{WidthFull: true, WidthFullOffset: 100},
	}}
	node := Resolver{}.Resolve(base, testNatural, testViewport, layers)
	require.Len(t, node.Filters, 1)
	sub, err := url.QueryUnescape(strings.Split(node.Filters[0].Args, ",")[0])
	require.NoError(t, err)
	assert.Equal(t, "300x0/a.png", sub)
}

func TestURLSigned(t *testing.T) {
	r := Resolver{
		BaseURL: "https://img.example.com/",
		Signer:  NewDefaultSigner("1234"),
	}
	base := params.Params{Width: 300, Height: 200}
	u := r.URL(base, testNatural, testViewport, nil)
	path := r.Path(base, testNatural, testViewport, nil)
	sig := NewDefaultSigner("1234").Sign(path)
	assert.Equal(t, "https://img.example.com/"+sig+"/"+path, u)
}

func TestURLUnsafe(t *testing.T) {
	r := Resolver{BaseURL: "https://img.example.com", Unsafe: true}
	u := r.URL(params.Params{Width: 300}, testNatural, testViewport, nil)
	assert.Equal(t, "https://img.example.com/unsafe/300x0/", u)
}

func TestURLAccessToken(t *testing.T) {
	r := Resolver{Unsafe: true, AccessToken: "a token&more"}
	u := r.URL(params.Params{}, testNatural, testViewport, nil)
	assert.True(t, strings.HasSuffix(u, "?access_token="+url.QueryEscape("a token&more")))
}
