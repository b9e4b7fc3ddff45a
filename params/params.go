package params

// Dimensions absolute pixel size
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Alignment keywords for default fill mode
const (
	HAlignLeft   = "left"
	HAlignRight  = "right"
	VAlignTop    = "top"
	VAlignBottom = "bottom"
)

// Params transform parameters for a single editing target, base image or layer.
// Zero value of a field means unset: a zero Width or Height resolves to the
// target's natural size, color fields at zero are no-ops.
type Params struct {
	Width             int     `json:"width,omitempty"`
	Height            int     `json:"height,omitempty"`
	WidthFull         bool    `json:"width_full,omitempty"`
	HeightFull        bool    `json:"height_full,omitempty"`
	WidthFullOffset   int     `json:"width_full_offset,omitempty"`
	HeightFullOffset  int     `json:"height_full_offset,omitempty"`
	CropLeft          int     `json:"crop_left,omitempty"`
	CropTop           int     `json:"crop_top,omitempty"`
	CropRight         int     `json:"crop_right,omitempty"`
	CropBottom        int     `json:"crop_bottom,omitempty"`
	FilterCropLeft    int     `json:"filter_crop_left,omitempty"`
	FilterCropTop     int     `json:"filter_crop_top,omitempty"`
	FilterCropWidth   int     `json:"filter_crop_width,omitempty"`
	FilterCropHeight  int     `json:"filter_crop_height,omitempty"`
	AutoTrim          bool    `json:"auto_trim,omitempty"`
	TrimTolerance     int     `json:"trim_tolerance,omitempty"`
	Brightness        int     `json:"brightness,omitempty"`
	Contrast          int     `json:"contrast,omitempty"`
	Saturation        int     `json:"saturation,omitempty"`
	Hue               int     `json:"hue,omitempty"`
	Blur              float64 `json:"blur,omitempty"`
	Sharpen           float64 `json:"sharpen,omitempty"`
	RoundCornerRadius int     `json:"round_corner_radius,omitempty"`
	Grayscale         bool    `json:"grayscale,omitempty"`
	FitIn             bool    `json:"fit_in,omitempty"`
	Stretch           bool    `json:"stretch,omitempty"`
	Smart             bool    `json:"smart,omitempty"`
	HAlign            string  `json:"h_align,omitempty"`
	VAlign            string  `json:"v_align,omitempty"`
}

// Normalize clamps every field into its valid range. Out of range input is
// never rejected, the editor must stay renderable.
func (p Params) Normalize() Params {
	p.Width = clampMin(p.Width, 0)
	p.Height = clampMin(p.Height, 0)
	p.WidthFullOffset = clampMin(p.WidthFullOffset, 0)
	p.HeightFullOffset = clampMin(p.HeightFullOffset, 0)
	p.CropLeft = clampMin(p.CropLeft, 0)
	p.CropTop = clampMin(p.CropTop, 0)
	p.CropRight = clampMin(p.CropRight, 0)
	p.CropBottom = clampMin(p.CropBottom, 0)
	p.FilterCropLeft = clampMin(p.FilterCropLeft, 0)
	p.FilterCropTop = clampMin(p.FilterCropTop, 0)
	p.FilterCropWidth = clampMin(p.FilterCropWidth, 0)
	p.FilterCropHeight = clampMin(p.FilterCropHeight, 0)
	if p.AutoTrim {
		p.TrimTolerance = clamp(p.TrimTolerance, 1, 50)
	}
	p.Brightness = clamp(p.Brightness, -100, 100)
	p.Contrast = clamp(p.Contrast, -100, 100)
	p.Saturation = clamp(p.Saturation, -100, 100)
	p.Hue = clamp(p.Hue, 0, 360)
	p.Blur = clampFloat(p.Blur, 0, 10)
	p.Sharpen = clampFloat(p.Sharpen, 0, 10)
	p.RoundCornerRadius = clampMin(p.RoundCornerRadius, 0)
	if p.Width > 0 && p.RoundCornerRadius > p.Width/2 {
		p.RoundCornerRadius = p.Width / 2
	}
	return p
}

// FitMode resolved fit mode
type FitMode int

const (
	FitFill FitMode = iota // default: resize to fill with crop and alignment
	FitInside
	FitStretch
	FitSmart
)

// Fit returns the resolved fit mode. FitIn, Stretch and Smart are mutually
// exclusive; with none set the default fill mode applies.
func (p Params) Fit() FitMode {
	switch {
	case p.FitIn:
		return FitInside
	case p.Stretch:
		return FitStretch
	case p.Smart:
		return FitSmart
	}
	return FitFill
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampMin(v, min int) int {
	if v < min {
		return min
	}
	return v
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
