// Package geometry converts dimension axes between absolute pixel mode and
// parent relative fill mode. All functions are pure and clamp instead of
// failing, the editor must always stay renderable.
package geometry

import (
	"github.com/layerkit/layerkit/params"
)

// Axis a dimension axis
type Axis int

const (
	AxisWidth Axis = iota
	AxisHeight
)

// String implements fmt.Stringer
func (a Axis) String() string {
	if a == AxisHeight {
		return "height"
	}
	return "width"
}

// ClampFillOffset clamps a fill offset into [0, parentPx-1] so the rendered
// size stays at least 1px. Idempotent.
func ClampFillOffset(value, parentPx int) int {
	if parentPx < 1 || value < 0 {
		return 0
	}
	if value > parentPx-1 {
		return parentPx - 1
	}
	return value
}

// ToggleFillMode switches one axis between absolute and fill mode.
// Entering fill mode preserves the on-screen size as an inset offset from the
// parent edge and clears the absolute size. Leaving fill mode restores an
// absolute size of at least 1px and clears the offset.
func ToggleFillMode(axis Axis, currentlyFull bool, parentPx, currentPx, currentOffset int) params.Patch {
	var pt params.Patch
	if currentlyFull {
		size := parentPx - currentOffset
		if size < 1 {
			size = 1
		}
		if axis == AxisWidth {
			pt.WidthFull = params.Bool(false)
			pt.Width = params.Int(size)
		} else {
			pt.HeightFull = params.Bool(false)
			pt.Height = params.Int(size)
		}
		return pt
	}
	offset := parentPx - currentPx
	if offset < 0 {
		offset = 0
	}
	offset = ClampFillOffset(offset, parentPx)
	if axis == AxisWidth {
		pt.WidthFull = params.Bool(true)
		pt.WidthFullOffset = params.Int(offset)
		pt.Width = params.Int(0)
	} else {
		pt.HeightFull = params.Bool(true)
		pt.HeightFullOffset = params.Int(offset)
		pt.Height = params.Int(0)
	}
	return pt
}

// EnrichForFillMode rewrites absolute sizes in an incoming patch for axes that
// are currently in fill mode. The paint surface emits absolute pixel sizes
// regardless of mode, so an incoming width or height on a fill axis becomes
// the equivalent clamped offset and the absolute cell is dropped. Axes not in
// fill mode and all other cells pass through verbatim.
func EnrichForFillMode(incoming params.Patch, current params.Params, parent params.Dimensions) params.Patch {
	if current.WidthFull && incoming.Width.Valid {
		incoming.WidthFullOffset = params.Int(
			ClampFillOffset(parent.Width-incoming.Width.Value, parent.Width))
		incoming.Width = params.OptInt{}
	}
	if current.HeightFull && incoming.Height.Valid {
		incoming.HeightFullOffset = params.Int(
			ClampFillOffset(parent.Height-incoming.Height.Value, parent.Height))
		incoming.Height = params.OptInt{}
	}
	return incoming
}

// ResolveAxis returns the absolute pixel size of one axis: the offset inset
// from the parent when in fill mode, the absolute size otherwise, zero when
// unset. Fill axes floor at 1px.
func ResolveAxis(full bool, offset, size, parentPx int) int {
	if full {
		px := parentPx - ClampFillOffset(offset, parentPx)
		if px < 1 {
			px = 1
		}
		return px
	}
	return size
}

// Resolve returns the absolute dimensions of a target against its parent,
// falling back to natural size per axis when unset.
func Resolve(p params.Params, parent, natural params.Dimensions) params.Dimensions {
	w := ResolveAxis(p.WidthFull, p.WidthFullOffset, p.Width, parent.Width)
	h := ResolveAxis(p.HeightFull, p.HeightFullOffset, p.Height, parent.Height)
	if w == 0 {
		w = natural.Width
	}
	if h == 0 {
		h = natural.Height
	}
	return params.Dimensions{Width: w, Height: h}
}
