package keyframes

import (
	"sort"
	"strings"

	"github.com/npillmayer/cssanim/interpolation"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/css"
	"github.com/npillmayer/cssanim/timing"
)

// Model is an immutable keyframe effect model: an ordered list of at least
// two keyframes, the first one at offset 0 and the last one at offset 1.
// Changes of keyframes or composite operation build a new model.
type Model struct {
	keyframes              []*Keyframe
	composite              css.CompositeOperation
	easing                 timing.TimingFunction
	hasNamedRangeKeyframes bool
	registry               *style.PropertyRegistry
	transition             bool
	snapshots              map[style.PropertyHandle][]style.Property
}

// NewModel creates a keyframe effect model. The default easing is the
// easing of the first keyframe.
func NewModel(kfs []*Keyframe, composite css.CompositeOperation, hasNamedRangeKeyframes bool,
	registry *style.PropertyRegistry) *Model {
	m := &Model{
		keyframes:              kfs,
		composite:              composite,
		hasNamedRangeKeyframes: hasNamedRangeKeyframes,
		registry:               registry,
	}
	if len(kfs) > 0 {
		m.easing = kfs[0].Easing()
	}
	return m
}

// NewTransitionModel creates the two-keyframe model of a transition of
// property h. Easing of a transition is part of its timing, not of its
// keyframes.
func NewTransitionModel(h style.PropertyHandle, from, to style.Property,
	registry *style.PropertyRegistry) *Model {
	start, end := NewKeyframe(0), NewKeyframe(1)
	start.SetComposite(css.CompositeReplace)
	end.SetComposite(css.CompositeReplace)
	start.SetValue(h, from)
	end.SetValue(h, to)
	m := NewModel([]*Keyframe{start, end}, css.CompositeReplace, false, registry)
	m.transition = true
	return m
}

func (m *Model) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, kf := range m.keyframes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(kf.String())
	}
	b.WriteString("]")
	return b.String()
}

// Keyframes returns the keyframes of a model. Clients must not modify them.
func (m *Model) Keyframes() []*Keyframe {
	return m.keyframes
}

// Composite returns the default composite operation of the model.
func (m *Model) Composite() css.CompositeOperation {
	return m.composite
}

// Easing returns the easing of the first keyframe.
func (m *Model) Easing() timing.TimingFunction {
	return m.easing
}

// HasNamedRangeKeyframes is true if keyframe offsets have been given as
// named timeline ranges, e.g. "entry 25%". Such models have to be rebuilt
// whenever the geometry of their view timeline changes.
func (m *Model) HasNamedRangeKeyframes() bool {
	return m.hasNamedRangeKeyframes
}

// IsTransition is true for transition models.
func (m *Model) IsTransition() bool {
	return m.transition
}

// Properties returns the set of animated properties.
func (m *Model) Properties() style.PropertySet {
	ps := make(style.PropertySet)
	for _, kf := range m.keyframes {
		for _, h := range kf.order {
			ps.Insert(h)
		}
	}
	return ps
}

// PropertyList returns the animated properties, sorted by name.
func (m *Model) PropertyList() []style.PropertyHandle {
	ps := m.Properties()
	list := make([]style.PropertyHandle, 0, len(ps))
	for h := range ps {
		list = append(list, h)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// Affects is true if the model animates property h.
func (m *Model) Affects(h style.PropertyHandle) bool {
	for _, kf := range m.keyframes {
		if kf.Has(h) {
			return true
		}
	}
	return false
}

// HasSyntheticKeyframes is true if some animated property lacks a value at
// offset 0 or 1, i.e. takes the underlying value there.
func (m *Model) HasSyntheticKeyframes() bool {
	for h := range m.Properties() {
		frames := m.propertyFrames(h)
		if frames[0].values == nil || frames[len(frames)-1].values == nil {
			return true
		}
	}
	return false
}

// propertyFrames returns the keyframes for property h, with neutral
// keyframes (no values) at offsets 0 and 1 if h has no value there.
func (m *Model) propertyFrames(h style.PropertyHandle) []*Keyframe {
	var frames []*Keyframe
	for _, kf := range m.keyframes {
		if kf.Has(h) {
			frames = append(frames, kf)
		}
	}
	if len(frames) == 0 || frames[0].offset > 0 {
		neutral := &Keyframe{offset: 0, easing: m.keyframes[0].easing}
		frames = append([]*Keyframe{neutral}, frames...)
	}
	if frames[len(frames)-1].offset < 1 {
		last := m.keyframes[len(m.keyframes)-1]
		frames = append(frames, &Keyframe{offset: 1, easing: last.easing})
	}
	return frames
}

func (m *Model) keyframeComposite(kf *Keyframe) css.CompositeOperation {
	if kf.values == nil {
		return css.CompositeReplace
	}
	return kf.composite.WithDefault(m.composite)
}

// Sample returns the interpolations of all animated properties at an
// iteration progress, which may lie outside [0,1] for overshooting easings.
func (m *Model) Sample(progress float64) []*interpolation.Interpolation {
	var r []*interpolation.Interpolation
	for _, h := range m.PropertyList() {
		frames := m.propertyFrames(h)
		i := 0
		for j := 0; j < len(frames)-1; j++ {
			if frames[j].offset <= progress {
				i = j
			}
		}
		from, to := frames[i], frames[i+1]
		fraction := 1.0
		if d := to.offset - from.offset; d > 0 {
			fraction = (progress - from.offset) / d
		}
		if from.easing != nil {
			fraction = from.easing.Evaluate(fraction)
		}
		r = append(r, &interpolation.Interpolation{
			Property:      h,
			From:          from.values[h],
			To:            to.values[h],
			FromComposite: m.keyframeComposite(from),
			ToComposite:   m.keyframeComposite(to),
			Fraction:      fraction,
			Types:         interpolation.TypesFor(h, m.registry),
		})
	}
	return r
}

// --- Compositor snapshots ----------------------------------------------------

// RequiresCompositorSnapshot is true if the model animates a compositable
// property whose keyframe values have to be snapshotted for the compositor.
func (m *Model) RequiresCompositorSnapshot() bool {
	for h := range m.Properties() {
		if style.IsCompositableProperty(h.Name()) && style.CompositedPropertyRequiresSnapshot(h) {
			return true
		}
	}
	return false
}

// SnapshotCompositorKeyframes resolves the keyframe values of compositable
// properties against a computed style, for neutral keyframes as well.
// It returns true if any snapshot changed.
func (m *Model) SnapshotCompositorKeyframes(cs *style.ComputedStyle) bool {
	changed := false
	for _, h := range m.PropertyList() {
		if !style.IsCompositableProperty(h.Name()) || !style.CompositedPropertyRequiresSnapshot(h) {
			continue
		}
		frames := m.propertyFrames(h)
		snap := make([]style.Property, len(frames))
		for i, kf := range frames {
			v, ok := kf.values[h]
			if !ok {
				v = cs.GetHandle(h)
			}
			if v.Normalized() == "currentcolor" {
				v = cs.Get("color")
			}
			snap[i] = v
		}
		if m.snapshots == nil {
			m.snapshots = make(map[style.PropertyHandle][]style.Property)
		}
		if !equalSnapshots(m.snapshots[h], snap) {
			m.snapshots[h] = snap
			changed = true
		}
	}
	return changed
}

// InvalidateCompositorSnapshot drops all snapshots, forcing the next
// snapshot to report a change.
func (m *Model) InvalidateCompositorSnapshot() {
	m.snapshots = nil
}

// CompositorSnapshot returns the snapshotted keyframe values of a property.
func (m *Model) CompositorSnapshot(h style.PropertyHandle) []style.Property {
	return m.snapshots[h]
}

func equalSnapshots(a, b []style.Property) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
