package layer

import (
	"encoding/json"
	"testing"

	"github.com/layerkit/layerkit/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnchorJSON(t *testing.T) {
	tests := []struct {
		name     string
		anchor   Anchor
		expected string
	}{
		{"keyword", Keyword(AnchorCenter), `"center"`},
		{"pixel", At(120), `120`},
		{"zero pixel", At(0), `0`},
		{"negative pixel", At(-40), `-40`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := json.Marshal(tt.anchor)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(buf))

			var back Anchor
			require.NoError(t, json.Unmarshal(buf, &back))
			assert.Equal(t, tt.anchor, back)
		})
	}
}

func TestAnchorString(t *testing.T) {
	assert.Equal(t, "repeat", Keyword(AnchorRepeat).String())
	assert.Equal(t, "-15", At(-15).String())
}

func TestRegistryAddAssignsUniqueIDs(t *testing.T) {
	r := NewRegistry()
	a := r.Add(Layer{ImagePath: "a.png"})
	b := r.Add(Layer{ImagePath: "b.png"})
	assert.Equal(t, "layer-1", a.ID)
	assert.Equal(t, "layer-2", b.ID)
	assert.Equal(t, 2, r.Len())

	got, ok := r.Get("layer-2")
	assert.True(t, ok)
	assert.Equal(t, "b.png", got.ImagePath)
}

func TestRegistryAddSkipsImportedIDs(t *testing.T) {
	r := NewRegistry()
	r.Replace([]Layer{{ID: "layer-1"}, {ID: "layer-2"}})
	l := r.Add(Layer{ImagePath: "new.png"})
	assert.NotEqual(t, "layer-1", l.ID)
	assert.NotEqual(t, "layer-2", l.ID)
	_, ok := r.Get(l.ID)
	assert.True(t, ok)
}

func TestRegistryUpdateKeepsID(t *testing.T) {
	r := NewRegistry()
	l := r.Add(Layer{ImagePath: "a.png"})
	ok := r.Update(l.ID, func(x *Layer) {
		x.ID = "hijacked"
		x.Name = "renamed"
		x.Params.Brightness = 900
	})
	assert.True(t, ok)
	got, _ := r.Get(l.ID)
	assert.Equal(t, l.ID, got.ID)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, 100, got.Params.Brightness, "params normalized on update")

	assert.False(t, r.Update("missing", func(*Layer) {}))
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	a := r.Add(Layer{})
	b := r.Add(Layer{})
	assert.True(t, r.Remove(a.ID))
	assert.False(t, r.Remove(a.ID), "second remove reports false")
	assert.Equal(t, 1, r.Len())
	_, ok := r.Get(b.ID)
	assert.True(t, ok)
}

func ids(layers []Layer) (out []string) {
	for _, l := range layers {
		out = append(out, l.ID)
	}
	return
}

func TestRegistryMove(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 4; i++ {
		r.Add(Layer{})
	}
	// [1 2 3 4] bottom to top
	assert.True(t, r.Move(0, 2))
	assert.Equal(t, []string{"layer-2", "layer-3", "layer-1", "layer-4"}, ids(r.All()))

	assert.True(t, r.Move(3, 0))
	assert.Equal(t, []string{"layer-4", "layer-2", "layer-3", "layer-1"}, ids(r.All()))

	assert.True(t, r.Move(1, 1), "no-op move succeeds")
	assert.False(t, r.Move(-1, 0))
	assert.False(t, r.Move(0, 4))
}

func TestRegistryMoveIsPermutation(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 5; i++ {
		r.Add(Layer{})
	}
	before := ids(r.All())
	for from := 0; from < 5; from++ {
		for to := 0; to < 5; to++ {
			assert.True(t, r.Move(from, to))
			assert.ElementsMatch(t, before, ids(r.All()),
				"move %d->%d keeps the id multiset", from, to)
		}
	}
}

func TestRegistryMoveLockedRefuses(t *testing.T) {
	r := NewRegistry()
	r.Add(Layer{})
	l := r.Add(Layer{Locked: true})
	assert.False(t, r.Move(1, 0))
	got, _ := r.Get(l.ID)
	assert.True(t, got.Locked)
	assert.Equal(t, []string{"layer-1", "layer-2"}, ids(r.All()))
}

func TestRegistryVisible(t *testing.T) {
	r := NewRegistry()
	r.Add(Layer{Visible: true})
	r.Add(Layer{Visible: false})
	r.Add(Layer{Visible: true})
	assert.Equal(t, []string{"layer-1", "layer-3"}, ids(r.Visible()))
	assert.Equal(t, 3, r.Len(), "hidden layers stay in the stack")
}

func TestDisplayIndexIsInvolution(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 4; i++ {
		r.Add(Layer{})
	}
	for i := 0; i < 4; i++ {
		assert.Equal(t, 3-i, r.DisplayIndex(i))
		assert.Equal(t, i, r.DisplayIndex(r.DisplayIndex(i)))
	}
}

func TestRegistryAllIsACopy(t *testing.T) {
	r := NewRegistry()
	r.Add(Layer{Name: "first"})
	out := r.All()
	out[0].Name = "mutated"
	got, _ := r.Get("layer-1")
	assert.Equal(t, "first", got.Name)
}

func TestLayerJSONRoundTrip(t *testing.T) {
	l := Layer{
		ID:        "layer-1",
		ImagePath: "gallery/cat.jpg",
		Original:  params.Dimensions{Width: 1200, Height: 800},
		X:         Keyword(AnchorCenter),
		Y:         At(40),
		Alpha:     25,
		BlendMode: "multiply",
		Visible:   true,
		Params:    params.Params{Width: 300},
	}
	buf, err := json.Marshal(l)
	require.NoError(t, err)
	var back Layer
	require.NoError(t, json.Unmarshal(buf, &back))
	assert.Equal(t, l, back)
}
