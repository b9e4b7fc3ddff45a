package geometry

import (
	"math"
	"strconv"
	"strings"

	"github.com/layerkit/layerkit/params"
)

// ratioTolerance for deciding whether a manual edit still matches the active
// preset ratio
const ratioTolerance = 0.01

// Preset named aspect ratio. Ratio is always >= 1, width is the longer side.
type Preset struct {
	Name  string
	Ratio float64
}

// Presets the named aspect ratio presets, in display order
var Presets = []Preset{
	{"1:1", 1},
	{"5:4", 5.0 / 4},
	{"4:3", 4.0 / 3},
	{"3:2", 3.0 / 2},
	{"16:9", 16.0 / 9},
	{"2:1", 2},
}

func presetByName(name string) (Preset, bool) {
	for _, p := range Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// AspectSolver couples width and height edits under an optional locked aspect
// ratio, with named presets and a continuous scale slider against a captured
// base dimension snapshot.
type AspectSolver struct {
	locked  bool
	ratio   float64 // current locked ratio, width / height
	natural params.Dimensions
	preset  string // active preset name, empty when none
	base    params.Dimensions
	scale   float64
}

// NewAspectSolver creates an AspectSolver from the target's natural size
func NewAspectSolver(natural params.Dimensions) *AspectSolver {
	s := &AspectSolver{
		natural: natural,
		base:    natural,
		scale:   1,
	}
	if natural.Height > 0 {
		s.ratio = float64(natural.Width) / float64(natural.Height)
	}
	return s
}

// Locked reports whether aspect lock is on
func (s *AspectSolver) Locked() bool { return s.locked }

// Preset returns the active preset name, empty when none
func (s *AspectSolver) Preset() string { return s.preset }

// Scale returns the current scale slider factor
func (s *AspectSolver) Scale() float64 { return s.scale }

// SetLocked toggles the aspect lock. Locking recaptures the ratio from the
// current dimensions so subsequent edits keep the shape on screen.
func (s *AspectSolver) SetLocked(locked bool, current params.Dimensions) {
	s.locked = locked
	if locked && current.Height > 0 {
		s.ratio = float64(current.Width) / float64(current.Height)
	}
	if !locked {
		s.preset = ""
	}
}

// SolveWidth produces the patch for a manual width edit, coupling height when
// locked. Manual edits invalidate an active preset whose ratio no longer
// matches and recapture the scale base.
func (s *AspectSolver) SolveWidth(width int, current params.Dimensions) params.Patch {
	var pt params.Patch
	pt.Width = params.Int(width)
	dims := params.Dimensions{Width: width, Height: current.Height}
	if s.locked && s.ratio > 0 && width > 0 {
		dims.Height = int(math.Round(float64(width) / s.ratio))
		pt.Height = params.Int(dims.Height)
	}
	s.afterManualEdit(dims)
	return pt
}

// SolveHeight produces the patch for a manual height edit, coupling width
// when locked
func (s *AspectSolver) SolveHeight(height int, current params.Dimensions) params.Patch {
	var pt params.Patch
	pt.Height = params.Int(height)
	dims := params.Dimensions{Width: current.Width, Height: height}
	if s.locked && s.ratio > 0 && height > 0 {
		dims.Width = int(math.Round(float64(height) * s.ratio))
		pt.Width = params.Int(dims.Width)
	}
	s.afterManualEdit(dims)
	return pt
}

// SolveInput handles a raw text field edit on blur. Non numeric or non
// positive input resets the axis to auto rather than keeping the previous
// value, the clear-on-invalid policy.
func (s *AspectSolver) SolveInput(axis Axis, raw string, current params.Dimensions) params.Patch {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		var pt params.Patch
		if axis == AxisWidth {
			pt.Width = params.Int(0)
		} else {
			pt.Height = params.Int(0)
		}
		s.afterManualEdit(current)
		return pt
	}
	if axis == AxisWidth {
		return s.SolveWidth(v, current)
	}
	return s.SolveHeight(v, current)
}

// ApplyPreset activates a named preset: forces the lock on, computes width
// and height from the larger current dimension, and resets the scale slider
// to 1x. Unknown names return a zero patch.
func (s *AspectSolver) ApplyPreset(name string, current params.Dimensions) params.Patch {
	preset, ok := presetByName(name)
	if !ok {
		return params.Patch{}
	}
	long := current.Width
	if current.Height > long {
		long = current.Height
	}
	if long < 1 {
		long = 1
	}
	// ratio >= 1 so width takes the longer side
	width := long
	height := int(math.Round(float64(long) / preset.Ratio))
	if height < 1 {
		height = 1
	}
	s.locked = true
	s.ratio = preset.Ratio
	s.preset = preset.Name
	s.base = params.Dimensions{Width: width, Height: height}
	s.scale = 1
	var pt params.Patch
	pt.Width = params.Int(width)
	pt.Height = params.Int(height)
	return pt
}

// ApplyScale moves the proportional scale slider to factor against the
// captured base snapshot
func (s *AspectSolver) ApplyScale(factor float64) params.Patch {
	if factor <= 0 {
		factor = 1
	}
	s.scale = factor
	width := int(math.Round(float64(s.base.Width) * factor))
	height := int(math.Round(float64(s.base.Height) * factor))
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	var pt params.Patch
	pt.Width = params.Int(width)
	pt.Height = params.Int(height)
	return pt
}

func (s *AspectSolver) afterManualEdit(dims params.Dimensions) {
	if s.preset != "" {
		preset, _ := presetByName(s.preset)
		if dims.Height < 1 ||
			math.Abs(float64(dims.Width)/float64(dims.Height)-preset.Ratio) > ratioTolerance {
			s.preset = ""
		}
	}
	s.base = dims
	s.scale = 1
}
