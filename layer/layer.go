// Package layer maintains the ordered overlay layer stack of a composition.
// The registry slice runs bottom to top in paint order; stacking UIs show the
// reverse and translate indexes at the presentation boundary.
package layer

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/layerkit/layerkit/params"
)

// Anchor is a layer position on one axis: either a placement keyword such as
// "center" or an absolute pixel coordinate. Marshals as a JSON string for
// keywords and a number for coordinates.
type Anchor struct {
	Keyword string
	Px      int
}

// Anchor keywords
const (
	AnchorLeft   = "left"
	AnchorCenter = "center"
	AnchorRight  = "right"
	AnchorTop    = "top"
	AnchorMiddle = "middle"
	AnchorBottom = "bottom"
	AnchorRepeat = "repeat"
)

// At makes a pixel coordinate anchor
func At(px int) Anchor {
	return Anchor{Px: px}
}

// Keyword makes a keyword anchor
func Keyword(kw string) Anchor {
	return Anchor{Keyword: kw}
}

// String returns the wire form consumed by the pipeline
func (a Anchor) String() string {
	if a.Keyword != "" {
		return a.Keyword
	}
	return strconv.Itoa(a.Px)
}

// MarshalJSON implements json.Marshaler
func (a Anchor) MarshalJSON() ([]byte, error) {
	if a.Keyword != "" {
		return json.Marshal(a.Keyword)
	}
	return json.Marshal(a.Px)
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Anchor) UnmarshalJSON(data []byte) error {
	var kw string
	if err := json.Unmarshal(data, &kw); err == nil {
		*a = Anchor{Keyword: kw}
		return nil
	}
	var px int
	if err := json.Unmarshal(data, &px); err != nil {
		return err
	}
	*a = Anchor{Px: px}
	return nil
}

// Layer one overlay in the composition
type Layer struct {
	ID        string            `json:"id"`
	ImagePath string            `json:"image_path"`
	Name      string            `json:"name,omitempty"`
	Original  params.Dimensions `json:"original_dimensions"`
	X         Anchor            `json:"x"`
	Y         Anchor            `json:"y"`
	Alpha     int               `json:"alpha,omitempty"` // 0 opaque .. 100 transparent
	BlendMode string            `json:"blend_mode,omitempty"`
	Visible   bool              `json:"visible"`
	Locked    bool              `json:"locked,omitempty"`
	Params    params.Params     `json:"params"`
}

// Registry owns the ordered layer list. Add appends to the end, the top of
// the z-order. Not safe for concurrent use, callers serialize access.
type Registry struct {
	layers []Layer
	nextID int
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Len returns the layer count
func (r *Registry) Len() int {
	return len(r.layers)
}

// Add appends the layer at the top of the z-order, assigning a session unique
// id when none set, and returns the stored layer.
func (r *Registry) Add(l Layer) Layer {
	if l.ID == "" {
		for {
			r.nextID++
			l.ID = fmt.Sprintf("layer-%d", r.nextID)
			if r.index(l.ID) < 0 {
				break
			}
		}
	}
	l.Params = l.Params.Normalize()
	r.layers = append(r.layers, l)
	return l
}

// Get returns a copy of the layer by id
func (r *Registry) Get(id string) (Layer, bool) {
	if i := r.index(id); i >= 0 {
		return r.layers[i], true
	}
	return Layer{}, false
}

// Update mutates the layer by id through fn, reports whether it existed
func (r *Registry) Update(id string, fn func(*Layer)) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}
	fn(&r.layers[i])
	r.layers[i].ID = id // id is stable, never writable through updates
	r.layers[i].Params = r.layers[i].Params.Normalize()
	return true
}

// Remove deletes the layer by id, reports whether it existed
func (r *Registry) Remove(id string) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}
	r.layers = append(r.layers[:i], r.layers[i+1:]...)
	return true
}

// Move relocates the layer at from to position to, shifting the others, an
// array move rather than a swap. Locked layers do not move. Out of bounds
// indexes report false.
func (r *Registry) Move(from, to int) bool {
	n := len(r.layers)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if r.layers[from].Locked {
		return false
	}
	if from == to {
		return true
	}
	l := r.layers[from]
	rest := append(r.layers[:from], r.layers[from+1:]...)
	r.layers = append(rest[:to], append([]Layer{l}, rest[to:]...)...)
	return true
}

// All returns a copy of the layers, bottom to top
func (r *Registry) All() []Layer {
	out := make([]Layer, len(r.layers))
	copy(out, r.layers)
	return out
}

// Visible returns the visible layers, bottom to top
func (r *Registry) Visible() (out []Layer) {
	for _, l := range r.layers {
		if l.Visible {
			out = append(out, l)
		}
	}
	return
}

// Replace swaps in a whole new layer list, used by template import
func (r *Registry) Replace(layers []Layer) {
	r.layers = make([]Layer, 0, len(layers))
	for _, l := range layers {
		r.Add(l)
	}
}

// DisplayIndex translates between the canonical bottom-to-top order and the
// reversed top-to-bottom display order. The translation is its own inverse.
func (r *Registry) DisplayIndex(i int) int {
	return len(r.layers) - 1 - i
}

func (r *Registry) index(id string) int {
	for i := range r.layers {
		if r.layers[i].ID == id {
			return i
		}
	}
	return -1
}
