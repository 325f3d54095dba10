package world

import (
	"slices"

	"github.com/yohamta/donburi"

	"github.com/vovakirdan/isoworld/internal/core"
)

// Object is a handle to an entity in a World.
type Object struct {
	w      *World
	id     uint64
	entity donburi.Entity
}

func (o *Object) entry() *donburi.Entry {
	return o.w.ecs.Entry(o.entity)
}

// Valid reports whether the object still exists.
func (o *Object) Valid() bool {
	return o.w.ecs.Valid(o.entity)
}

// ID returns the creation-ordered identifier.
func (o *Object) ID() uint64 {
	return o.id
}

// Name returns the object's name.
func (o *Object) Name() string {
	return MetaComponent.Get(o.entry()).Name
}

// Kind returns whether the object is a tile or an actor.
func (o *Object) Kind() Kind {
	return MetaComponent.Get(o.entry()).Kind
}

// Tags returns the object's tags.
func (o *Object) Tags() []string {
	return MetaComponent.Get(o.entry()).Tags
}

// HasTag reports whether the object carries tag.
func (o *Object) HasTag(tag string) bool {
	return slices.Contains(o.Tags(), tag)
}

// AddTag attaches a tag.
func (o *Object) AddTag(tag string) {
	meta := MetaComponent.Get(o.entry())
	if !slices.Contains(meta.Tags, tag) {
		meta.Tags = append(meta.Tags, tag)
	}
}

// Position returns the object's world position.
func (o *Object) Position() core.Vec3 {
	return TransformComponent.Get(o.entry()).Position
}

// Move translates the object by delta.
func (o *Object) Move(delta core.Vec3) {
	tr := TransformComponent.Get(o.entry())
	tr.Position = tr.Position.Add(delta)
	o.w.reindex(o)
}

// MoveTo places the object at pos.
func (o *Object) MoveTo(pos core.Vec3) {
	TransformComponent.Get(o.entry()).Position = pos
	o.w.reindex(o)
}

// Collider returns the object's collider, if any.
func (o *Object) Collider() (Collider, bool) {
	entry := o.entry()
	if !entry.HasComponent(ColliderComponent) {
		return Collider{}, false
	}
	return *ColliderComponent.Get(entry), true
}

// SetCollider attaches or replaces the collider.
func (o *Object) SetCollider(c Collider) {
	entry := o.entry()
	if !entry.HasComponent(ColliderComponent) {
		entry.AddComponent(ColliderComponent)
	}
	ColliderComponent.SetValue(entry, c)
	o.w.reindex(o)
}

// RemoveCollider detaches the collider so the object no longer collides.
func (o *Object) RemoveCollider() {
	entry := o.entry()
	if entry.HasComponent(ColliderComponent) {
		entry.RemoveComponent(ColliderComponent)
	}
	o.w.reindex(o)
}

// CollisionBox places the collider at the current position.
func (o *Object) CollisionBox() (core.Box, bool) {
	c, ok := o.Collider()
	if !ok {
		return core.Box{}, false
	}
	return c.Box(o.Position()), true
}

// Body returns the object's physics body for in-place mutation. The
// pointer is only valid until the next component is added or removed.
func (o *Object) Body() (*PhysicsBody, bool) {
	entry := o.entry()
	if !entry.HasComponent(BodyComponent) {
		return nil, false
	}
	return BodyComponent.Get(entry), true
}

// SetBody attaches or replaces the physics body.
func (o *Object) SetBody(b PhysicsBody) {
	entry := o.entry()
	if !entry.HasComponent(BodyComponent) {
		entry.AddComponent(BodyComponent)
	}
	BodyComponent.SetValue(entry, b)
}

// Mode returns the object's physics mode. Objects without a body are Solid.
func (o *Object) Mode() PhysicsMode {
	if b, ok := o.Body(); ok {
		return b.Mode
	}
	return Solid
}
