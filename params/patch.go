package params

// Field enumerates the closed set of transform parameters. Consumers switch
// over Field instead of runtime key lookup into a parameter bag.
type Field int

const (
	FieldWidth Field = iota
	FieldHeight
	FieldWidthFull
	FieldHeightFull
	FieldWidthFullOffset
	FieldHeightFullOffset
	FieldCropLeft
	FieldCropTop
	FieldCropRight
	FieldCropBottom
	FieldFilterCropLeft
	FieldFilterCropTop
	FieldFilterCropWidth
	FieldFilterCropHeight
	FieldAutoTrim
	FieldTrimTolerance
	FieldBrightness
	FieldContrast
	FieldSaturation
	FieldHue
	FieldBlur
	FieldSharpen
	FieldRoundCornerRadius
	FieldGrayscale
	FieldFitIn
	FieldStretch
	FieldSmart
	FieldHAlign
	FieldVAlign
)

var fieldNames = map[Field]string{
	FieldWidth:             "width",
	FieldHeight:            "height",
	FieldWidthFull:         "width_full",
	FieldHeightFull:        "height_full",
	FieldWidthFullOffset:   "width_full_offset",
	FieldHeightFullOffset:  "height_full_offset",
	FieldCropLeft:          "crop_left",
	FieldCropTop:           "crop_top",
	FieldCropRight:         "crop_right",
	FieldCropBottom:        "crop_bottom",
	FieldFilterCropLeft:    "filter_crop_left",
	FieldFilterCropTop:     "filter_crop_top",
	FieldFilterCropWidth:   "filter_crop_width",
	FieldFilterCropHeight:  "filter_crop_height",
	FieldAutoTrim:          "auto_trim",
	FieldTrimTolerance:     "trim_tolerance",
	FieldBrightness:        "brightness",
	FieldContrast:          "contrast",
	FieldSaturation:        "saturation",
	FieldHue:               "hue",
	FieldBlur:              "blur",
	FieldSharpen:           "sharpen",
	FieldRoundCornerRadius: "round_corner_radius",
	FieldGrayscale:         "grayscale",
	FieldFitIn:             "fit_in",
	FieldStretch:           "stretch",
	FieldSmart:             "smart",
	FieldHAlign:            "h_align",
	FieldVAlign:            "v_align",
}

// String implements fmt.Stringer
func (f Field) String() string {
	return fieldNames[f]
}

// OptInt optional int cell of a Patch
type OptInt struct {
	Valid bool
	Value int
}

// OptFloat optional float cell of a Patch
type OptFloat struct {
	Valid bool
	Value float64
}

// OptBool optional bool cell of a Patch
type OptBool struct {
	Valid bool
	Value bool
}

// OptString optional string cell of a Patch
type OptString struct {
	Valid bool
	Value string
}

// Int cell carrying a value
func Int(v int) OptInt { return OptInt{Valid: true, Value: v} }

// Float cell carrying a value
func Float(v float64) OptFloat { return OptFloat{Valid: true, Value: v} }

// Bool cell carrying a value
func Bool(v bool) OptBool { return OptBool{Valid: true, Value: v} }

// String cell carrying a value
func String(v string) OptString { return OptString{Valid: true, Value: v} }

// Patch partial update of Params. A cell takes effect only when Valid,
// untouched fields pass through unchanged. Setting an int cell to zero
// resets the field to unset, which is how width and height return to auto.
type Patch struct {
	Width             OptInt
	Height            OptInt
	WidthFull         OptBool
	HeightFull        OptBool
	WidthFullOffset   OptInt
	HeightFullOffset  OptInt
	CropLeft          OptInt
	CropTop           OptInt
	CropRight         OptInt
	CropBottom        OptInt
	FilterCropLeft    OptInt
	FilterCropTop     OptInt
	FilterCropWidth   OptInt
	FilterCropHeight  OptInt
	AutoTrim          OptBool
	TrimTolerance     OptInt
	Brightness        OptInt
	Contrast          OptInt
	Saturation        OptInt
	Hue               OptInt
	Blur              OptFloat
	Sharpen           OptFloat
	RoundCornerRadius OptInt
	Grayscale         OptBool
	FitIn             OptBool
	Stretch           OptBool
	Smart             OptBool
	HAlign            OptString
	VAlign            OptString
}

// IsZero reports whether the patch touches nothing
func (pt Patch) IsZero() bool {
	return len(pt.Fields()) == 0
}

// Fields returns the fields the patch touches, in declaration order
func (pt Patch) Fields() (fields []Field) {
	ints := []struct {
		f Field
		c OptInt
	}{
		{FieldWidth, pt.Width}, {FieldHeight, pt.Height},
		{FieldWidthFullOffset, pt.WidthFullOffset}, {FieldHeightFullOffset, pt.HeightFullOffset},
		{FieldCropLeft, pt.CropLeft}, {FieldCropTop, pt.CropTop},
		{FieldCropRight, pt.CropRight}, {FieldCropBottom, pt.CropBottom},
		{FieldFilterCropLeft, pt.FilterCropLeft}, {FieldFilterCropTop, pt.FilterCropTop},
		{FieldFilterCropWidth, pt.FilterCropWidth}, {FieldFilterCropHeight, pt.FilterCropHeight},
		{FieldTrimTolerance, pt.TrimTolerance},
		{FieldBrightness, pt.Brightness}, {FieldContrast, pt.Contrast},
		{FieldSaturation, pt.Saturation}, {FieldHue, pt.Hue},
		{FieldRoundCornerRadius, pt.RoundCornerRadius},
	}
	for _, v := range ints {
		if v.c.Valid {
			fields = append(fields, v.f)
		}
	}
	bools := []struct {
		f Field
		c OptBool
	}{
		{FieldWidthFull, pt.WidthFull}, {FieldHeightFull, pt.HeightFull},
		{FieldAutoTrim, pt.AutoTrim}, {FieldGrayscale, pt.Grayscale},
		{FieldFitIn, pt.FitIn}, {FieldStretch, pt.Stretch}, {FieldSmart, pt.Smart},
	}
	for _, v := range bools {
		if v.c.Valid {
			fields = append(fields, v.f)
		}
	}
	if pt.Blur.Valid {
		fields = append(fields, FieldBlur)
	}
	if pt.Sharpen.Valid {
		fields = append(fields, FieldSharpen)
	}
	if pt.HAlign.Valid {
		fields = append(fields, FieldHAlign)
	}
	if pt.VAlign.Valid {
		fields = append(fields, FieldVAlign)
	}
	return
}

// Apply merges the patch into p and returns the normalized result.
// Enabling one of the fit mode flags clears the other two, the three are
// mutually exclusive. Setting an absolute size clears the fill flag of the
// same axis and vice versa, at most one of the pair holds per axis.
func (p Params) Apply(pt Patch) Params {
	if pt.Width.Valid {
		p.Width = pt.Width.Value
		if p.Width > 0 {
			p.WidthFull = false
			p.WidthFullOffset = 0
		}
	}
	if pt.Height.Valid {
		p.Height = pt.Height.Value
		if p.Height > 0 {
			p.HeightFull = false
			p.HeightFullOffset = 0
		}
	}
	if pt.WidthFull.Valid {
		p.WidthFull = pt.WidthFull.Value
		if p.WidthFull {
			p.Width = 0
		} else {
			p.WidthFullOffset = 0
		}
	}
	if pt.HeightFull.Valid {
		p.HeightFull = pt.HeightFull.Value
		if p.HeightFull {
			p.Height = 0
		} else {
			p.HeightFullOffset = 0
		}
	}
	if pt.WidthFullOffset.Valid {
		p.WidthFullOffset = pt.WidthFullOffset.Value
	}
	if pt.HeightFullOffset.Valid {
		p.HeightFullOffset = pt.HeightFullOffset.Value
	}
	if pt.CropLeft.Valid {
		p.CropLeft = pt.CropLeft.Value
	}
	if pt.CropTop.Valid {
		p.CropTop = pt.CropTop.Value
	}
	if pt.CropRight.Valid {
		p.CropRight = pt.CropRight.Value
	}
	if pt.CropBottom.Valid {
		p.CropBottom = pt.CropBottom.Value
	}
	if pt.FilterCropLeft.Valid {
		p.FilterCropLeft = pt.FilterCropLeft.Value
	}
	if pt.FilterCropTop.Valid {
		p.FilterCropTop = pt.FilterCropTop.Value
	}
	if pt.FilterCropWidth.Valid {
		p.FilterCropWidth = pt.FilterCropWidth.Value
	}
	if pt.FilterCropHeight.Valid {
		p.FilterCropHeight = pt.FilterCropHeight.Value
	}
	if pt.AutoTrim.Valid {
		p.AutoTrim = pt.AutoTrim.Value
		if !p.AutoTrim {
			p.TrimTolerance = 0
		}
	}
	if pt.TrimTolerance.Valid {
		p.TrimTolerance = pt.TrimTolerance.Value
	}
	if pt.Brightness.Valid {
		p.Brightness = pt.Brightness.Value
	}
	if pt.Contrast.Valid {
		p.Contrast = pt.Contrast.Value
	}
	if pt.Saturation.Valid {
		p.Saturation = pt.Saturation.Value
	}
	if pt.Hue.Valid {
		p.Hue = pt.Hue.Value
	}
	if pt.Blur.Valid {
		p.Blur = pt.Blur.Value
	}
	if pt.Sharpen.Valid {
		p.Sharpen = pt.Sharpen.Value
	}
	if pt.RoundCornerRadius.Valid {
		p.RoundCornerRadius = pt.RoundCornerRadius.Value
	}
	if pt.Grayscale.Valid {
		p.Grayscale = pt.Grayscale.Value
	}
	if pt.FitIn.Valid {
		p.FitIn = pt.FitIn.Value
		if p.FitIn {
			p.Stretch = false
			p.Smart = false
		}
	}
	if pt.Stretch.Valid {
		p.Stretch = pt.Stretch.Value
		if p.Stretch {
			p.FitIn = false
			p.Smart = false
		}
	}
	if pt.Smart.Valid {
		p.Smart = pt.Smart.Value
		if p.Smart {
			p.FitIn = false
			p.Stretch = false
		}
	}
	if pt.HAlign.Valid {
		p.HAlign = pt.HAlign.Value
	}
	if pt.VAlign.Valid {
		p.VAlign = pt.VAlign.Value
	}
	return p.Normalize()
}

// Store holds the current Params of one editing target
type Store struct {
	p Params
}

// NewStore creates a Store with initial params
func NewStore(p Params) *Store {
	return &Store{p: p.Normalize()}
}

// Get returns the current params
func (s *Store) Get() Params {
	return s.p
}

// Merge applies a patch and returns the result
func (s *Store) Merge(pt Patch) Params {
	s.p = s.p.Apply(pt)
	return s.p
}

// Set replaces the params wholesale
func (s *Store) Set(p Params) {
	s.p = p.Normalize()
}

// Reset clears back to zero params
func (s *Store) Reset() {
	s.p = Params{}
}
