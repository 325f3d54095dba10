package world

import (
	"fmt"
	"strings"

	"github.com/yohamta/donburi"

	"github.com/vovakirdan/isoworld/internal/core"
)

// Kind distinguishes static level geometry from simulated actors.
type Kind int

const (
	KindTile Kind = iota
	KindActor
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindTile {
		return "tile"
	}
	return "actor"
}

// PhysicsMode selects how an object takes part in contact resolution.
type PhysicsMode int

const (
	// Dynamic bodies fall, are blocked by obstacles and slide along them.
	Dynamic PhysicsMode = iota
	// Kinematic bodies always complete their motion and carry riders.
	Kinematic
	// Solid objects block others and never move on their own.
	Solid
	// Ghost objects are detected but never block.
	Ghost
)

var modeNames = [...]string{"dynamic", "kinematic", "solid", "ghost"}

// String returns the lowercase mode name.
func (m PhysicsMode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// ParsePhysicsMode converts a mode name. Empty means Solid.
func ParsePhysicsMode(s string) (PhysicsMode, error) {
	if s == "" {
		return Solid, nil
	}
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return PhysicsMode(i), nil
		}
	}
	return Solid, fmt.Errorf("world: unknown physics mode %q", s)
}

// Meta identifies an object.
type Meta struct {
	ID   uint64
	Name string
	Kind Kind
	Tags []string
}

// Transform holds the object's world position. For actors the position is
// the bottom of the collider footprint.
type Transform struct {
	Position core.Vec3
}

// Collider defines a box relative to the owner's position:
// min = position + Offset, max = min + Size.
type Collider struct {
	Size   core.Vec3
	Offset core.Vec3
}

// CenteredCollider returns a collider centered on X/Y with its base at the
// owner's position.
func CenteredCollider(size core.Vec3) Collider {
	return Collider{
		Size:   size,
		Offset: core.V3(-size[0]/2, -size[1]/2, 0),
	}
}

// Box places the collider at pos.
func (c Collider) Box(pos core.Vec3) core.Box {
	return core.BoxAt(pos.Add(c.Offset), c.Size)
}

// PhysicsBody is the mutable simulation state of an actor. Forces are
// pending impulses drained once per frame.
type PhysicsBody struct {
	Mode     PhysicsMode
	Velocity core.Vec3
	Mass     float64
	Forces   []core.Vec3
}

// AddForce queues an impulse for the next frame.
func (b *PhysicsBody) AddForce(f core.Vec3) {
	b.Forces = append(b.Forces, f)
}

var (
	MetaComponent      = donburi.NewComponentType[Meta]()
	TransformComponent = donburi.NewComponentType[Transform]()
	ColliderComponent  = donburi.NewComponentType[Collider]()
	BodyComponent      = donburi.NewComponentType[PhysicsBody]()
)
