package geometry

import (
	"fmt"

	"github.com/san-kum/nearfield/internal/field"
)

// Registry maps antenna types to builders.
type Registry struct {
	builders map[field.AntennaType]Builder
}

// NewRegistry returns a registry with builders for every field.AntennaTypes entry.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[field.AntennaType]Builder)}
	r.Register(DipoleBuilder{RodRadius: DefaultRodRadius})
	r.Register(MonopoleBuilder{RodRadius: DefaultRodRadius})
	r.Register(LoopBuilder{RodRadius: DefaultRodRadius})
	r.Register(YagiBuilder{RodRadius: DefaultRodRadius})
	return r
}

// Register adds or replaces the builder for b.Type().
func (r *Registry) Register(b Builder) {
	r.builders[b.Type()] = b
}

func (r *Registry) Get(t field.AntennaType) (Builder, error) {
	b, ok := r.builders[t]
	if !ok {
		return nil, fmt.Errorf("unknown antenna type: %s", t)
	}
	return b, nil
}

// Build outlines an antenna of type t and the given length.
func (r *Registry) Build(t field.AntennaType, length float64) (*Shape, error) {
	b, err := r.Get(t)
	if err != nil {
		return nil, err
	}
	return b.Build(length)
}
