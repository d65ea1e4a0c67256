// Package blockstate defines the opaque BlockState handle the voxel core
// treats as a small comparable key, plus the BlockRegistry capability that
// resolves handles to their properties. Terrain generation, rendering, and
// the actual catalog of block types are external collaborators; this
// package only carries the surface the core needs: opacity, light
// emission, and a stable numeric ID for the RLE/ESFS codecs.
package blockstate

// Definition describes one block variant. Definitions are owned by a
// Registry snapshot and are stable for its lifetime.
type Definition struct {
	ID            uint8
	Name          string
	Opaque        bool
	LightEmission uint8 // 0..15
	OpacityValue  uint8 // 0..15
	Replaceable   bool  // e.g. tall grass, snow layers
}

// State is the opaque handle game logic and the codecs pass around. Its
// zero value represents air (no definition bound) so a freshly allocated
// chunk buffer is implicitly all-air without initialization work.
type State struct {
	def *Definition
}

// Of wraps a definition into a handle.
func Of(def *Definition) State { return State{def: def} }

// IsAir reports whether this handle is the zero value (no block present).
func (s State) IsAir() bool { return s.def == nil }

// IsFullOpaque reports whether this block fully occludes light and sky
// visibility through its cell.
func (s State) IsFullOpaque() bool {
	return s.def != nil && s.def.Opaque
}

// EmitsLight returns the block-light value (0..15) this block emits.
func (s State) EmitsLight() uint8 {
	if s.def == nil {
		return 0
	}
	return s.def.LightEmission
}

// Opacity returns how many light levels this block subtracts as light
// passes through it (0..15).
func (s State) Opacity() uint8 {
	if s.def == nil {
		return 0
	}
	return s.def.OpacityValue
}

// NumericID returns the stable numeric ID used by the RLE/ESFS codecs. Air
// is canonically ID 0.
func (s State) NumericID() uint8 {
	if s.def == nil {
		return 0
	}
	return s.def.ID
}

// Name returns the registered block name, or "air" for the zero value.
func (s State) Name() string {
	if s.def == nil {
		return "air"
	}
	return s.def.Name
}

// CanBeReplaced reports whether this block (e.g. tall grass, air) yields to
// a placement targeting its cell directly instead of its adjacent face.
func (s State) CanBeReplaced() bool {
	return s.def == nil || s.def.Replaceable
}
