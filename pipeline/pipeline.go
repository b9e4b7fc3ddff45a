// Package pipeline serializes a composition into the canonical filter
// pipeline path consumed by the remote image service. Equal states always
// produce byte equal paths, downstream caching depends on it.
package pipeline

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Params one pipeline node: the geometry and filter chain of a single image,
// base or overlay
type Params struct {
	Image         string   `json:"image,omitempty"`
	AutoTrim      bool     `json:"auto_trim,omitempty"`
	TrimTolerance int      `json:"trim_tolerance,omitempty"`
	CropLeft      int      `json:"crop_left,omitempty"`
	CropTop       int      `json:"crop_top,omitempty"`
	CropRight     int      `json:"crop_right,omitempty"`
	CropBottom    int      `json:"crop_bottom,omitempty"`
	FitIn         bool     `json:"fit_in,omitempty"`
	Stretch       bool     `json:"stretch,omitempty"`
	Width         int      `json:"width,omitempty"`
	Height        int      `json:"height,omitempty"`
	HAlign        string   `json:"h_align,omitempty"`
	VAlign        string   `json:"v_align,omitempty"`
	Smart         bool     `json:"smart,omitempty"`
	Filters       []Filter `json:"filters,omitempty"`
}

// Filter a single named filter with raw args
type Filter struct {
	Name string `json:"name,omitempty"`
	Args string `json:"args,omitempty"`
}

// Alignment keywords emitted on the path
const (
	HAlignLeft   = "left"
	HAlignRight  = "right"
	VAlignTop    = "top"
	VAlignBottom = "bottom"
)

// GeneratePath emits the canonical path for one node:
// trim/crop/fit-in/stretch/WxH/halign/valign/smart/filters/image
func GeneratePath(p Params) string {
	var parts []string
	if p.AutoTrim {
		trims := []string{"trim"}
		if p.TrimTolerance > 0 {
			trims = append(trims, strconv.Itoa(p.TrimTolerance))
		}
		parts = append(parts, strings.Join(trims, ":"))
	}
	if p.CropTop > 0 || p.CropRight > 0 || p.CropLeft > 0 || p.CropBottom > 0 {
		parts = append(parts, fmt.Sprintf(
			"%dx%d:%dx%d", p.CropLeft, p.CropTop, p.CropRight, p.CropBottom))
	}
	if p.FitIn {
		parts = append(parts, "fit-in")
	}
	if p.Stretch {
		parts = append(parts, "stretch")
	}
	if p.Width != 0 || p.Height != 0 {
		parts = append(parts, fmt.Sprintf("%dx%d", p.Width, p.Height))
	}
	if p.HAlign == HAlignLeft || p.HAlign == HAlignRight {
		parts = append(parts, p.HAlign)
	}
	if p.VAlign == VAlignTop || p.VAlign == VAlignBottom {
		parts = append(parts, p.VAlign)
	}
	if p.Smart {
		parts = append(parts, "smart")
	}
	if len(p.Filters) > 0 {
		var filters []string
		for _, f := range p.Filters {
			filters = append(filters, fmt.Sprintf("%s(%s)", f.Name, f.Args))
		}
		parts = append(parts, "filters:"+strings.Join(filters, ":"))
	}
	image := p.Image
	if strings.Contains(image, "?") {
		image = url.QueryEscape(image)
	}
	parts = append(parts, image)
	return strings.Join(parts, "/")
}
