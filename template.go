package layerkit

import (
	"encoding/json"
	"path"
	"strings"

	"github.com/layerkit/layerkit/layer"
	"github.com/layerkit/layerkit/params"
)

// DimensionMode how a template binds its base dimensions
type DimensionMode string

const (
	// DimensionAdaptive omits base dimensions so the template resolves
	// against any target image's natural size at load time
	DimensionAdaptive DimensionMode = "adaptive"
	// DimensionPredefined pins the base dimensions resolved at save time
	DimensionPredefined DimensionMode = "predefined"
)

// TemplateSuffix fixed filename suffix of persisted templates
const TemplateSuffix = ".template.json"

// Template a persisted, reusable snapshot of a full composition
type Template struct {
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	DimensionMode DimensionMode `json:"dimension_mode"`
	SavePath      string        `json:"save_path"`
	Base          params.Params `json:"base_parameters"`
	Layers        []layer.Layer `json:"layers"`
}

const invalidNameChars = `/\:*?"<>|`

// ValidateTemplateName rejects names that cannot form a filename
func ValidateTemplateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewError("template name required", ErrInvalid.Code)
	}
	if strings.ContainsAny(name, invalidNameChars) {
		return NewError("template name contains invalid characters", ErrInvalid.Code)
	}
	return nil
}

// TemplateKey composes the storage key of a template document
func TemplateKey(savePath, name string) string {
	return path.Join("/", savePath, name+TemplateSuffix)
}

// Key returns the template's own storage key
func (t Template) Key() string {
	return TemplateKey(t.SavePath, t.Name)
}

// EncodeTemplate serializes the template document
func EncodeTemplate(t Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// DecodeTemplate parses a template document
func DecodeTemplate(data []byte) (*Template, error) {
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, NewError("malformed template document", ErrInvalid.Code)
	}
	if t.DimensionMode == "" {
		t.DimensionMode = DimensionAdaptive
	}
	if t.DimensionMode != DimensionAdaptive && t.DimensionMode != DimensionPredefined {
		return nil, NewError("unknown dimension mode", ErrInvalid.Code)
	}
	return &t, nil
}
