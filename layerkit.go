// Package layerkit is the state and transform engine behind the gallery
// image editor: editable transform parameters for a base image and an
// ordered overlay layer stack, fill mode geometry, aspect locking, pipeline
// URL serialization for the remote image service, and persisted composition
// templates.
package layerkit

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/layerkit/layerkit/geometry"
	"github.com/layerkit/layerkit/layer"
	"github.com/layerkit/layerkit/params"
	"github.com/layerkit/layerkit/pipeline"
	"github.com/layerkit/layerkit/preview"
	"go.uber.org/zap"
)

const Version = "1.0.0"

// State an immutable snapshot of the editor, what subscribers render
type State struct {
	Source       string
	Natural      params.Dimensions
	Viewport     params.Dimensions
	Base         params.Params
	Layers       []layer.Layer
	Editing      string // empty means the base canvas
	Selected     string
	AspectLocked bool
	AspectPreset string
	URL          string
}

// Editor the engine for one editing session over one source image. Created
// when the editor opens, closed when it unmounts. All mutation entry points
// are synchronous and atomic; the async collaborators (probe, store, preview
// fetch) never run under the state lock and never leave partial mutations
// behind on failure.
type Editor struct {
	Logger   *zap.Logger
	Debug    bool
	Store    Store
	Prober   Prober
	Metrics  Metrics
	Resolver pipeline.Resolver
	Preview  *preview.Controller

	mu       sync.Mutex
	source   string
	natural  params.Dimensions
	viewport params.Dimensions
	base     *params.Store
	layers   *layer.Registry
	aspect   *geometry.AspectSolver
	editing  string
	selected string
	subs     map[int]func(State)
	nextSub  int
}

// New creates an Editor for a source image with known natural dimensions
func New(source string, natural params.Dimensions, options ...Option) *Editor {
	e := &Editor{
		Logger:   zap.NewNop(),
		Metrics:  nopMetrics{},
		source:   source,
		natural:  natural,
		viewport: natural,
		base:     params.NewStore(params.Params{}),
		layers:   layer.NewRegistry(),
		aspect:   geometry.NewAspectSolver(natural),
		subs:     map[int]func(State){},
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Close releases the editor, draining any in-flight preview fetch
func (e *Editor) Close() {
	if e.Preview != nil {
		e.Preview.Close()
	}
}

// State returns the current snapshot
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Subscribe registers a snapshot listener and returns its unsubscribe func.
// Listeners run after every committed mutation, outside the state lock.
func (e *Editor) Subscribe(fn func(State)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

// SetViewport updates the known parent dimensions that base fill mode axes
// resolve against
func (e *Editor) SetViewport(d params.Dimensions) {
	e.mu.Lock()
	e.viewport = d
	e.commitLocked()
}

// SetNatural updates the source image's natural dimensions after the source
// is replaced or re-probed. The aspect solver recaptures its base from the
// new dimensions.
func (e *Editor) SetNatural(d params.Dimensions) {
	e.mu.Lock()
	e.natural = d
	e.aspect = geometry.NewAspectSolver(d)
	e.commitLocked()
}

// SwitchContext changes which target subsequent parameter updates apply to:
// the base canvas for an empty id, else the layer. It does not mutate any
// parameters; edits already applied to the previous target stay applied.
func (e *Editor) SwitchContext(id string) error {
	e.mu.Lock()
	if id != "" {
		if _, ok := e.layers.Get(id); !ok {
			e.mu.Unlock()
			return ErrNotFound
		}
	}
	e.editing = id
	e.commitLocked()
	return nil
}

// EditingContext returns the active editing target, empty for the base
func (e *Editor) EditingContext() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editing
}

// Select marks a layer selected in the stacking UI, empty to clear
func (e *Editor) Select(id string) error {
	e.mu.Lock()
	if id != "" {
		if _, ok := e.layers.Get(id); !ok {
			e.mu.Unlock()
			return ErrNotFound
		}
	}
	e.selected = id
	e.commitLocked()
	return nil
}

// UpdateParams merges a parameter patch into the active editing target.
// Absolute sizes arriving for axes in fill mode are rewritten into offsets
// against the target's parent before merging.
func (e *Editor) UpdateParams(pt params.Patch) params.Params {
	e.mu.Lock()
	target, parent := e.targetLocked()
	pt = geometry.EnrichForFillMode(pt, target.Get(), parent)
	p := target.Merge(pt)
	if e.editing != "" {
		e.layers.Update(e.editing, func(l *layer.Layer) {
			l.Params = p
		})
	}
	if e.Debug {
		fields := pt.Fields()
		names := make([]string, len(fields))
		for i, f := range fields {
			names[i] = f.String()
		}
		e.Logger.Debug("update-params",
			zap.String("context", e.editing), zap.Strings("fields", names))
	}
	e.commitLocked()
	return p
}

// ResetParams clears the active target's parameters
func (e *Editor) ResetParams() {
	e.mu.Lock()
	target, _ := e.targetLocked()
	target.Reset()
	if e.editing != "" {
		e.layers.Update(e.editing, func(l *layer.Layer) {
			l.Params = params.Params{}
		})
	}
	e.commitLocked()
}

// ToggleFill switches one axis of the active target between absolute and
// fill mode, preserving the on-screen size
func (e *Editor) ToggleFill(axis geometry.Axis) params.Params {
	e.mu.Lock()
	target, parent := e.targetLocked()
	p := target.Get()
	natural := e.naturalLocked()
	resolved := geometry.Resolve(p, parent, natural)
	var pt params.Patch
	if axis == geometry.AxisWidth {
		pt = geometry.ToggleFillMode(axis, p.WidthFull,
			parent.Width, resolved.Width, p.WidthFullOffset)
	} else {
		pt = geometry.ToggleFillMode(axis, p.HeightFull,
			parent.Height, resolved.Height, p.HeightFullOffset)
	}
	p = target.Merge(pt)
	if e.editing != "" {
		e.layers.Update(e.editing, func(l *layer.Layer) {
			l.Params = p
		})
	}
	e.commitLocked()
	return p
}

// SetAspectLocked toggles the aspect ratio lock on the base dimensions
func (e *Editor) SetAspectLocked(locked bool) {
	e.mu.Lock()
	e.aspect.SetLocked(locked, e.baseDimsLocked())
	e.commitLocked()
}

// SetBaseWidth edits the base width, coupling height under aspect lock
func (e *Editor) SetBaseWidth(width int) params.Params {
	e.mu.Lock()
	pt := e.aspect.SolveWidth(width, e.baseDimsLocked())
	p := e.mergeBaseLocked(pt)
	e.commitLocked()
	return p
}

// SetBaseHeight edits the base height, coupling width under aspect lock
func (e *Editor) SetBaseHeight(height int) params.Params {
	e.mu.Lock()
	pt := e.aspect.SolveHeight(height, e.baseDimsLocked())
	p := e.mergeBaseLocked(pt)
	e.commitLocked()
	return p
}

// SetBaseDimensionInput handles a raw base dimension field edit on blur.
// Invalid input resets the axis to auto.
func (e *Editor) SetBaseDimensionInput(axis geometry.Axis, raw string) params.Params {
	e.mu.Lock()
	pt := e.aspect.SolveInput(axis, raw, e.baseDimsLocked())
	p := e.mergeBaseLocked(pt)
	e.commitLocked()
	return p
}

// ApplyAspectPreset activates a named ratio preset on the base dimensions,
// forcing the lock on and resetting the scale slider
func (e *Editor) ApplyAspectPreset(name string) params.Params {
	e.mu.Lock()
	pt := e.aspect.ApplyPreset(name, e.baseDimsLocked())
	p := e.mergeBaseLocked(pt)
	e.commitLocked()
	return p
}

// SetScale moves the proportional scale slider for the base dimensions
func (e *Editor) SetScale(factor float64) params.Params {
	e.mu.Lock()
	pt := e.aspect.ApplyScale(factor)
	p := e.mergeBaseLocked(pt)
	e.commitLocked()
	return p
}

// AddLayer probes the source image's natural dimensions and appends a new
// visible layer at the top of the z-order. A failed probe leaves the stack
// untouched.
func (e *Editor) AddLayer(ctx context.Context, imagePath string) (layer.Layer, error) {
	if e.Prober == nil {
		return layer.Layer{}, NewError("no dimension prober configured", ErrInternal.Code)
	}
	start := time.Now()
	dims, err := e.Prober.Probe(ctx, imagePath)
	e.Metrics.LayerProbed(time.Since(start), err)
	if err != nil {
		e.Logger.Warn("layer probe",
			zap.String("image", imagePath), zap.Error(err))
		return layer.Layer{}, WrapError(err)
	}
	e.mu.Lock()
	l := e.layers.Add(layer.Layer{
		ImagePath: imagePath,
		Name:      path.Base(imagePath),
		Original:  dims,
		X:         layer.Keyword(layer.AnchorCenter),
		Y:         layer.Keyword(layer.AnchorMiddle),
		Visible:   true,
	})
	e.commitLocked()
	return l, nil
}

// RemoveLayer deletes a layer. Removing the selected layer or the active
// editing context clears that state in the same atomic step.
func (e *Editor) RemoveLayer(id string) bool {
	e.mu.Lock()
	if !e.layers.Remove(id) {
		e.mu.Unlock()
		return false
	}
	if e.selected == id {
		e.selected = ""
	}
	if e.editing == id {
		e.editing = ""
	}
	e.commitLocked()
	return true
}

// UpdateLayer mutates a layer record through fn
func (e *Editor) UpdateLayer(id string, fn func(*layer.Layer)) bool {
	e.mu.Lock()
	ok := e.layers.Update(id, fn)
	e.commitLocked()
	return ok
}

// MoveLayer reorders the stack by canonical bottom-to-top indexes
func (e *Editor) MoveLayer(from, to int) bool {
	e.mu.Lock()
	ok := e.layers.Move(from, to)
	e.commitLocked()
	return ok
}

// MoveLayerDisplay reorders the stack by reversed display indexes, the
// top-to-bottom order stacking UIs present
func (e *Editor) MoveLayerDisplay(from, to int) bool {
	e.mu.Lock()
	ok := e.layers.Move(e.layers.DisplayIndex(from), e.layers.DisplayIndex(to))
	e.commitLocked()
	return ok
}

// PipelinePath emits the canonical pipeline path for the current state
func (e *Editor) PipelinePath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Resolver.Path(e.base.Get(), e.natural, e.viewport, e.layers.Visible())
}

// PipelineURL emits the full remote service URL for the current state
func (e *Editor) PipelineURL() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.urlLocked()
}

// SaveTemplate snapshots the composition into a named template document and
// persists it through the Store. Predefined mode pins the base dimensions at
// their currently resolved values, adaptive mode omits them. Saving over an
// existing document without overwrite fails with ErrExists so the caller can
// confirm and retry; the retry replaces the document wholesale. Editor state
// is never mutated by a save.
func (e *Editor) SaveTemplate(
	ctx context.Context, name, description string,
	mode DimensionMode, savePath string, overwrite bool,
) (*Template, error) {
	if e.Store == nil {
		return nil, NewError("no template store configured", ErrInternal.Code)
	}
	if err := ValidateTemplateName(name); err != nil {
		return nil, err
	}
	if mode != DimensionAdaptive && mode != DimensionPredefined {
		return nil, NewError("unknown dimension mode", ErrInvalid.Code)
	}
	e.mu.Lock()
	base := e.base.Get()
	if mode == DimensionPredefined {
		resolved := geometry.Resolve(base, e.viewport, e.natural)
		base.WidthFull = false
		base.HeightFull = false
		base.WidthFullOffset = 0
		base.HeightFullOffset = 0
		base.Width = resolved.Width
		base.Height = resolved.Height
	} else {
		base.Width = 0
		base.Height = 0
	}
	t := Template{
		Name:          name,
		Description:   description,
		DimensionMode: mode,
		SavePath:      savePath,
		Base:          base,
		Layers:        e.layers.All(),
	}
	e.mu.Unlock()

	data, err := EncodeTemplate(t)
	if err != nil {
		return nil, WrapError(err)
	}
	if err := e.Store.Put(ctx, t.Key(), data, overwrite); err != nil {
		if WrapError(err).Code == ErrExists.Code {
			e.Metrics.TemplateConflict()
			e.Logger.Debug("template exists", zap.String("key", t.Key()))
			return nil, ErrExists
		}
		e.Logger.Warn("template save", zap.String("key", t.Key()), zap.Error(err))
		return nil, WrapError(err)
	}
	e.Metrics.TemplateSaved()
	e.Logger.Info("template saved", zap.String("key", t.Key()))
	return &t, nil
}

// LoadTemplate reads a template document from the Store
func (e *Editor) LoadTemplate(ctx context.Context, key string) (*Template, error) {
	if e.Store == nil {
		return nil, NewError("no template store configured", ErrInternal.Code)
	}
	data, err := e.Store.Get(ctx, key)
	if err != nil {
		return nil, WrapError(err)
	}
	return DecodeTemplate(data)
}

// ApplyTemplate re-hydrates the composition from a template. Adaptive mode
// leaves the base dimensions unset so they resolve against this editor's
// target image; predefined mode applies the pinned dimensions verbatim.
// Selection and editing context reset to the base.
func (e *Editor) ApplyTemplate(t *Template) {
	e.mu.Lock()
	base := t.Base
	if t.DimensionMode == DimensionAdaptive {
		base.Width = 0
		base.Height = 0
	}
	e.base.Set(base)
	e.layers.Replace(t.Layers)
	e.editing = ""
	e.selected = ""
	e.aspect = geometry.NewAspectSolver(e.natural)
	e.commitLocked()
}

// targetLocked resolves the active editing target's store and the parent
// dimensions its fill axes measure against: the viewport for the base, the
// resolved base size for a layer.
func (e *Editor) targetLocked() (*params.Store, params.Dimensions) {
	if e.editing == "" {
		return e.base, e.viewport
	}
	l, ok := e.layers.Get(e.editing)
	if !ok {
		// context left dangling, fall back to base
		e.editing = ""
		return e.base, e.viewport
	}
	parent := geometry.Resolve(e.base.Get(), e.viewport, e.natural)
	return params.NewStore(l.Params), parent
}

func (e *Editor) naturalLocked() params.Dimensions {
	if e.editing == "" {
		return e.natural
	}
	if l, ok := e.layers.Get(e.editing); ok {
		return l.Original
	}
	return e.natural
}

func (e *Editor) baseDimsLocked() params.Dimensions {
	return geometry.Resolve(e.base.Get(), e.viewport, e.natural)
}

func (e *Editor) mergeBaseLocked(pt params.Patch) params.Params {
	return e.base.Merge(pt)
}

func (e *Editor) urlLocked() string {
	return e.Resolver.URL(e.base.Get(), e.natural, e.viewport, e.layers.Visible())
}

func (e *Editor) stateLocked() State {
	return State{
		Source:       e.source,
		Natural:      e.natural,
		Viewport:     e.viewport,
		Base:         e.base.Get(),
		Layers:       e.layers.All(),
		Editing:      e.editing,
		Selected:     e.selected,
		AspectLocked: e.aspect.Locked(),
		AspectPreset: e.aspect.Preset(),
		URL:          e.urlLocked(),
	}
}

// commitLocked snapshots the state, releases the lock, then notifies
// subscribers and schedules a preview refresh. Callers hold e.mu.
func (e *Editor) commitLocked() {
	st := e.stateLocked()
	subs := make([]func(State), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.mu.Unlock()
	for _, fn := range subs {
		fn(st)
	}
	if e.Preview != nil {
		e.Preview.Invalidate(st.URL)
	}
}
