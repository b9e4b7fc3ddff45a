package pipeline

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/layerkit/layerkit/geometry"
	"github.com/layerkit/layerkit/layer"
	"github.com/layerkit/layerkit/params"
)

// Resolver walks the base parameters and the visible layers in z-order and
// produces the pipeline path and URL for preview and download.
type Resolver struct {
	// BaseURL the remote image service endpoint
	BaseURL string
	// AccessToken appended as query parameter when present
	AccessToken string
	// Signer signs the path; with Unsafe or a nil Signer the unsafe prefix
	// is emitted instead
	Signer Signer
	Unsafe bool
}

// Resolve produces the pipeline node tree for the composition. Fill mode axes
// of the base resolve against the viewport; fill mode axes of each layer
// resolve against the resolved base size, its parent in the composition.
// Hidden layers are skipped, a layer whose size collapses still emits at the
// 1px floor so the path structure stays cache stable.
func (r Resolver) Resolve(
	base params.Params, natural, viewport params.Dimensions, layers []layer.Layer,
) Params {
	node, resolved := resolveNode(base, viewport, natural, "")
	for _, l := range layers {
		if !l.Visible {
			continue
		}
		sub, _ := resolveNode(l.Params, resolved, l.Original, l.ImagePath)
		node.Filters = append(node.Filters, overlayFilter(l, sub))
	}
	return node
}

// Path emits the canonical pipeline path for the composition
func (r Resolver) Path(
	base params.Params, natural, viewport params.Dimensions, layers []layer.Layer,
) string {
	return GeneratePath(r.Resolve(base, natural, viewport, layers))
}

// URL emits the full request URL against the remote service, signed unless
// unsafe, with the access token appended when present
func (r Resolver) URL(
	base params.Params, natural, viewport params.Dimensions, layers []layer.Layer,
) string {
	path := r.Path(base, natural, viewport, layers)
	if r.Signer != nil && !r.Unsafe {
		path = r.Signer.Sign(path) + "/" + path
	} else {
		path = "unsafe/" + path
	}
	u := path
	if r.BaseURL != "" {
		u = strings.TrimSuffix(r.BaseURL, "/") + "/" + path
	}
	if r.AccessToken != "" {
		u += "?access_token=" + url.QueryEscape(r.AccessToken)
	}
	return u
}

// resolveNode converts one target into a pipeline node plus its resolved
// absolute size, which becomes the parent size of any nested overlay
func resolveNode(
	p params.Params, parent, natural params.Dimensions, image string,
) (Params, params.Dimensions) {
	p = p.Normalize()
	resolved := geometry.Resolve(p, parent, natural)
	node := Params{
		Image:         image,
		AutoTrim:      p.AutoTrim,
		TrimTolerance: p.TrimTolerance,
		CropLeft:      p.CropLeft,
		CropTop:       p.CropTop,
		CropRight:     p.CropRight,
		CropBottom:    p.CropBottom,
		FitIn:         p.FitIn,
		Stretch:       p.Stretch,
		Smart:         p.Smart,
	}
	// emit absolute sizes: fill axes are resolved against the parent, set
	// axes pass through, unset axes stay 0 for natural size
	if p.WidthFull {
		node.Width = resolved.Width
	} else {
		node.Width = p.Width
	}
	if p.HeightFull {
		node.Height = resolved.Height
	} else {
		node.Height = p.Height
	}
	if p.Fit() == params.FitFill {
		node.HAlign = p.HAlign
		node.VAlign = p.VAlign
	}
	node.Filters = filterChain(p)
	return node, resolved
}

// filterChain emits the filter operations in their fixed composition order:
// filter crop, then brightness, contrast, saturation, hue, blur, sharpen,
// round corner, grayscale. The order is load bearing for cache stability.
func filterChain(p params.Params) (filters []Filter) {
	if p.FilterCropWidth > 0 && p.FilterCropHeight > 0 {
		filters = append(filters, Filter{"crop", strings.Join([]string{
			strconv.Itoa(p.FilterCropLeft), strconv.Itoa(p.FilterCropTop),
			strconv.Itoa(p.FilterCropWidth), strconv.Itoa(p.FilterCropHeight),
		}, ",")})
	}
	if p.Brightness != 0 {
		filters = append(filters, Filter{"brightness", strconv.Itoa(p.Brightness)})
	}
	if p.Contrast != 0 {
		filters = append(filters, Filter{"contrast", strconv.Itoa(p.Contrast)})
	}
	if p.Saturation != 0 {
		filters = append(filters, Filter{"saturation", strconv.Itoa(p.Saturation)})
	}
	if p.Hue != 0 {
		filters = append(filters, Filter{"hue", strconv.Itoa(p.Hue)})
	}
	if p.Blur > 0 {
		filters = append(filters, Filter{"blur", formatFloat(p.Blur)})
	}
	if p.Sharpen > 0 {
		filters = append(filters, Filter{"sharpen", formatFloat(p.Sharpen)})
	}
	if p.RoundCornerRadius > 0 {
		filters = append(filters, Filter{"round_corner", strconv.Itoa(p.RoundCornerRadius)})
	}
	if p.Grayscale {
		filters = append(filters, Filter{"grayscale", ""})
	}
	return
}

// overlayFilter emits one visible layer as a composite operation. The layer's
// own pipeline recurses as an escaped sub path so the remote service applies
// the layer transform before blending.
func overlayFilter(l layer.Layer, sub Params) Filter {
	args := []string{
		url.QueryEscape(GeneratePath(sub)),
		l.X.String(),
		l.Y.String(),
		strconv.Itoa(l.Alpha),
	}
	if l.BlendMode != "" {
		args = append(args, l.BlendMode)
	}
	return Filter{"overlay", strings.Join(args, ",")}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
