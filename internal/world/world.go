// Package world stores level geometry and actors in a donburi ECS and
// serves the spatial queries used by collision detection.
package world

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/vovakirdan/isoworld/internal/collision"
	"github.com/vovakirdan/isoworld/internal/config"
	"github.com/vovakirdan/isoworld/internal/core"
)

// World owns every object in a scene. IDs are assigned in creation order
// and never reused. It is not safe for concurrent use.
type World struct {
	ecs      donburi.World
	grid     *spatialGrid
	entities map[uint64]donburi.Entity
	nextID   uint64
	logger   *log.Logger
	bodies   *donburi.Query
}

// New creates an empty world whose spatial index covers cfg's bounds.
func New(cfg config.WorldConfig, logger *log.Logger) *World {
	if logger == nil {
		logger = log.Default()
	}
	return &World{
		ecs:      donburi.NewWorld(),
		grid:     newSpatialGrid(cfg),
		entities: make(map[uint64]donburi.Entity),
		nextID:   1,
		logger:   logger,
		bodies:   donburi.NewQuery(filter.Contains(MetaComponent, TransformComponent, BodyComponent)),
	}
}

func (w *World) spawn(name string, kind Kind, pos core.Vec3) *Object {
	id := w.nextID
	w.nextID++

	e := w.ecs.Create(MetaComponent, TransformComponent)
	entry := w.ecs.Entry(e)
	MetaComponent.SetValue(entry, Meta{ID: id, Name: name, Kind: kind})
	TransformComponent.SetValue(entry, Transform{Position: pos})

	w.entities[id] = e
	w.logger.Debug("spawned object", "id", id, "name", name, "kind", kind)
	return &Object{w: w, id: id, entity: e}
}

// SpawnTile adds static geometry occupying b. Tiles have no body and
// therefore behave as Solid.
func (w *World) SpawnTile(name string, b core.Box) *Object {
	o := w.spawn(name, KindTile, b.Min)
	o.SetCollider(Collider{Size: b.Size()})
	return o
}

// SpawnActor adds an actor at pos with no collider or body.
func (w *World) SpawnActor(name string, pos core.Vec3) *Object {
	return w.spawn(name, KindActor, pos)
}

// Remove deletes the object. Handles to it become invalid.
func (w *World) Remove(o *Object) {
	e, ok := w.entities[o.id]
	if !ok {
		return
	}
	w.grid.remove(o.id)
	w.ecs.Remove(e)
	delete(w.entities, o.id)
}

// Lookup returns the object with the given ID.
func (w *World) Lookup(id uint64) (*Object, bool) {
	e, ok := w.entities[id]
	if !ok {
		return nil, false
	}
	return &Object{w: w, id: id, entity: e}, true
}

// Len returns the number of live objects.
func (w *World) Len() int {
	return len(w.entities)
}

// Objects returns every object in ID order.
func (w *World) Objects() []*Object {
	ids := make([]uint64, 0, len(w.entities))
	for id := range w.entities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*Object, 0, len(ids))
	for _, id := range ids {
		out = append(out, &Object{w: w, id: id, entity: w.entities[id]})
	}
	return out
}

// PhysicsActors returns every object with a PhysicsBody in creation order.
func (w *World) PhysicsActors() []*Object {
	var out []*Object
	w.bodies.Each(w.ecs, func(entry *donburi.Entry) {
		meta := MetaComponent.Get(entry)
		out = append(out, &Object{w: w, id: meta.ID, entity: entry.Entity()})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// FindByName returns the lowest-ID object with the given name.
func (w *World) FindByName(name string) (*Object, bool) {
	for _, o := range w.Objects() {
		if o.Name() == name {
			return o, true
		}
	}
	return nil, false
}

// FindByTag returns every object carrying tag, in ID order.
func (w *World) FindByTag(tag string) []*Object {
	var out []*Object
	for _, o := range w.Objects() {
		if o.HasTag(tag) {
			out = append(out, o)
		}
	}
	return out
}

// ObjectsInArea returns objects whose footprint may touch area.
func (w *World) ObjectsInArea(area core.Box) []collision.Collidable {
	return w.collect(w.grid.query(area))
}

// ObjectsAt returns objects whose footprint may contain p.
func (w *World) ObjectsAt(p core.Vec3) []collision.Collidable {
	return w.collect(w.grid.query(core.Box{Min: p, Max: p}))
}

func (w *World) collect(ids []uint64) []collision.Collidable {
	out := make([]collision.Collidable, 0, len(ids))
	for _, id := range ids {
		if o, ok := w.Lookup(id); ok {
			out = append(out, o)
		}
	}
	return out
}

// reindex refreshes the object's footprint after its position or collider
// changed.
func (w *World) reindex(o *Object) {
	if b, ok := o.CollisionBox(); ok {
		w.grid.place(o.id, b)
	} else {
		w.grid.remove(o.id)
	}
}
