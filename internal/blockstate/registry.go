package blockstate

// Registry is the capability the voxel core consumes to resolve numeric
// IDs (read from disk) and names (used by generation/game logic) into
// handles. Implementations are owned externally; the core never mutates
// one once a world is running.
type Registry interface {
	Air() State
	ByNumericID(id uint8) (State, bool)
	ByName(name string) (State, bool)
}

// StaticRegistry is a fixed, in-memory Registry implementation: the
// reference/test double used by the CLI entrypoint and by tests that need
// a handful of distinct block kinds without a real asset pipeline.
type StaticRegistry struct {
	byID   map[uint8]*Definition
	byName map[string]*Definition
}

// NewStaticRegistry builds a registry pre-populated with air plus the
// small catalog of terrain blocks the default generator emits.
func NewStaticRegistry() *StaticRegistry {
	r := &StaticRegistry{
		byID:   make(map[uint8]*Definition),
		byName: make(map[string]*Definition),
	}
	r.Register(&Definition{ID: 0, Name: "air", Opaque: false, Replaceable: true})
	r.Register(&Definition{ID: 1, Name: "bedrock", Opaque: true, OpacityValue: 15})
	r.Register(&Definition{ID: 2, Name: "stone", Opaque: true, OpacityValue: 15})
	r.Register(&Definition{ID: 3, Name: "dirt", Opaque: true, OpacityValue: 15})
	r.Register(&Definition{ID: 4, Name: "grass", Opaque: true, OpacityValue: 15})
	r.Register(&Definition{ID: 5, Name: "sand", Opaque: true, OpacityValue: 15})
	r.Register(&Definition{ID: 6, Name: "glowstone", Opaque: true, OpacityValue: 15, LightEmission: 15})
	r.Register(&Definition{ID: 7, Name: "torch", Opaque: false, OpacityValue: 0, LightEmission: 14, Replaceable: true})
	r.Register(&Definition{ID: 8, Name: "tall_grass", Opaque: false, OpacityValue: 0, Replaceable: true})
	return r
}

// Register adds or overwrites a definition by ID and name.
func (r *StaticRegistry) Register(def *Definition) {
	r.byID[def.ID] = def
	r.byName[def.Name] = def
}

func (r *StaticRegistry) Air() State { return State{} }

func (r *StaticRegistry) ByNumericID(id uint8) (State, bool) {
	if id == 0 {
		return State{}, true
	}
	def, ok := r.byID[id]
	if !ok {
		return State{}, false
	}
	return State{def: def}, true
}

func (r *StaticRegistry) ByName(name string) (State, bool) {
	if name == "air" {
		return State{}, true
	}
	def, ok := r.byName[name]
	if !ok {
		return State{}, false
	}
	return State{def: def}, true
}
