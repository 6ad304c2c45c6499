// Package scene holds the entities of a demo scene and their composition
// into one ordered, renderable graph.
package scene

import (
	"errors"
	"fmt"
	"iter"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kamstrup/intmap"
)

var (
	ErrNilEntity     = errors.New("nil entity")
	ErrAlreadyAdded  = errors.New("entity already added")
	ErrParentMissing = errors.New("parent entity not in registry")
)

// Registry is the ordered collection of entities in the render graph.
// Insertion order is the draw order.
type Registry struct {
	entities []*Entity
	index    *intmap.Map[EntityId, int]
	nextId   EntityId
}

// NewRegistry creates an empty registry. IDs start at 1.
func NewRegistry() *Registry {
	return &Registry{
		index: intmap.New[EntityId, int](64),
	}
}

// AddEntity inserts e and assigns its ID.
func (r *Registry) AddEntity(e *Entity) (EntityId, error) {
	if e == nil {
		return 0, ErrNilEntity
	}
	if e.ID != 0 {
		return 0, fmt.Errorf("%w: %s (%d)", ErrAlreadyAdded, e.Name, e.ID)
	}

	r.nextId++
	e.ID = r.nextId
	r.index.Put(e.ID, len(r.entities))
	r.entities = append(r.entities, e)
	return e.ID, nil
}

// Attach adds a child to a registered parent.
func (r *Registry) Attach(parent EntityId, a Attachment) error {
	e := r.Get(parent)
	if e == nil {
		return fmt.Errorf("%w: %d", ErrParentMissing, parent)
	}
	e.Add(a)
	return nil
}

// Get returns the entity with id, or nil when it is not registered.
func (r *Registry) Get(id EntityId) *Entity {
	idx, ok := r.index.Get(id)
	if !ok {
		return nil
	}
	return r.entities[idx]
}

// Contains reports whether e was added to this registry.
func (r *Registry) Contains(e *Entity) bool {
	return e != nil && e.ID != 0 && r.Get(e.ID) == e
}

// MoveEntity moves a registered entity, see Entity.MoveTo.
// It reports false when id is unknown.
func (r *Registry) MoveEntity(id EntityId, x, y, z float32) bool {
	e := r.Get(id)
	if e == nil {
		return false
	}
	e.MoveTo(x, y, z)
	return true
}

// Len returns the number of registered entities.
func (r *Registry) Len() int {
	return len(r.entities)
}

// Iter yields entities in insertion order.
func (r *Registry) Iter() iter.Seq2[EntityId, *Entity] {
	return func(yield func(EntityId, *Entity) bool) {
		for _, e := range r.entities {
			if !yield(e.ID, e) {
				return
			}
		}
	}
}

// Stats summarizes the registry content.
type Stats struct {
	EntityCount   int
	ByKind        map[Kind]int
	ShadowCasters int
	Parameterized int
	Attachments   int
}

// CollectStats walks the registry and counts entities by kind and capability.
func (r *Registry) CollectStats() Stats {
	stats := Stats{
		EntityCount: len(r.entities),
		ByKind:      make(map[Kind]int),
	}
	for _, e := range r.entities {
		stats.ByKind[e.Kind]++
		if e.Shadow.Cast {
			stats.ShadowCasters++
		}
		if e.Params != nil {
			stats.Parameterized++
		}
		stats.Attachments += len(e.attachments)
	}
	return stats
}

// EntitySnapshot is a copy of an entity's state that is safe to hand to
// other goroutines.
type EntitySnapshot struct {
	ID       EntityId              `json:"id"`
	Name     string                `json:"name"`
	Kind     string                `json:"kind"`
	Position [3]float32            `json:"position"`
	Rotation [3]float32            `json:"rotation"`
	Params   map[string]float32    `json:"params,omitempty"`
	Vectors  map[string][3]float32 `json:"vectors,omitempty"`
}

// Snapshot copies the state of every entity.
func (r *Registry) Snapshot() []EntitySnapshot {
	out := make([]EntitySnapshot, 0, len(r.entities))
	for _, e := range r.entities {
		s := EntitySnapshot{
			ID:       e.ID,
			Name:     e.Name,
			Kind:     e.Kind.String(),
			Position: vec(e.Position),
			Rotation: vec(e.Rotation),
		}
		for _, name := range e.Params.Names() {
			slot, _ := e.Params.Lookup(name)
			switch slot.Kind {
			case UniformFloat:
				if s.Params == nil {
					s.Params = make(map[string]float32)
				}
				s.Params[name] = slot.Float
			case UniformVec3:
				if s.Vectors == nil {
					s.Vectors = make(map[string][3]float32)
				}
				s.Vectors[name] = vec(slot.Vec3)
			}
		}
		out = append(out, s)
	}
	return out
}

func vec(v mgl32.Vec3) [3]float32 {
	return [3]float32{v[0], v[1], v[2]}
}
