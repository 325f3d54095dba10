// Package scene builds playable isometric scenes from YAML definitions and
// drives them through the collision and physics systems.
package scene

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/isoworld/internal/core"
	"github.com/vovakirdan/isoworld/internal/world"
)

// Actor roles recognized by the scene logic. The role is also added to the
// actor's tags.
const (
	RolePlayer   = "player"
	RoleGuard    = "guard"
	RolePickup   = "pickup"
	RolePlatform = "platform"
	RoleProp     = "prop"
)

// Definition is a parsed scene file.
type Definition struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	KillZ       float64    `yaml:"kill_z"`
	Tiles       []TileDef  `yaml:"tiles"`
	Actors      []ActorDef `yaml:"actors"`
	Meta        SceneMeta  `yaml:"meta,omitempty"`
	FilePath    string     `yaml:"-"`
}

// SceneMeta carries optional presentation hints.
type SceneMeta struct {
	Author string `yaml:"author,omitempty"`
	Hint   string `yaml:"hint,omitempty"`
}

// TileDef is a static box given by two corners.
type TileDef struct {
	Name string     `yaml:"name"`
	Min  [3]float64 `yaml:"min"`
	Max  [3]float64 `yaml:"max"`
}

// ActorDef describes an actor. Position is the center of the collider's
// base unless Offset is set.
type ActorDef struct {
	Name     string      `yaml:"name"`
	Role     string      `yaml:"role"`
	Position [3]float64  `yaml:"position"`
	Size     [3]float64  `yaml:"size"`
	Offset   *[3]float64 `yaml:"offset,omitempty"`
	Mode     string      `yaml:"mode"`
	Velocity [3]float64  `yaml:"velocity,omitempty"`
	Mass     float64     `yaml:"mass,omitempty"`
	Tags     []string    `yaml:"tags,omitempty"`
	Patrol   *PatrolDef  `yaml:"patrol,omitempty"`
	Path     *PathDef    `yaml:"path,omitempty"`
}

// PatrolDef makes a dynamic actor walk back and forth along an axis,
// turning around when it bumps into something.
type PatrolDef struct {
	Axis  string  `yaml:"axis"`
	Speed float64 `yaml:"speed"`
	Sight float64 `yaml:"sight"`
}

// PathDef moves a kinematic actor between two coordinates on an axis.
type PathDef struct {
	Axis  string  `yaml:"axis"`
	From  float64 `yaml:"from"`
	To    float64 `yaml:"to"`
	Speed float64 `yaml:"speed"`
}

// Parse decodes and validates a YAML scene.
func Parse(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("scene: yaml unmarshal: %w", err)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Validate checks the parts of a definition the builder relies on.
func (d Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("scene: missing id")
	}
	if d.Name == "" {
		return fmt.Errorf("scene %s: missing name", d.ID)
	}

	players := 0
	for i, a := range d.Actors {
		if a.Name == "" {
			return fmt.Errorf("scene %s: actor %d has no name", d.ID, i)
		}
		if _, err := world.ParsePhysicsMode(a.Mode); err != nil {
			return fmt.Errorf("scene %s: actor %s: %w", d.ID, a.Name, err)
		}
		for _, s := range a.Size {
			if s <= 0 {
				return fmt.Errorf("scene %s: actor %s: size must be positive", d.ID, a.Name)
			}
		}
		switch a.Role {
		case RolePlayer:
			players++
		case RoleGuard:
			if a.Patrol == nil {
				return fmt.Errorf("scene %s: guard %s has no patrol", d.ID, a.Name)
			}
			if _, err := parseAxis(a.Patrol.Axis); err != nil {
				return fmt.Errorf("scene %s: guard %s: %w", d.ID, a.Name, err)
			}
		case RolePlatform:
			if a.Path == nil {
				return fmt.Errorf("scene %s: platform %s has no path", d.ID, a.Name)
			}
			if _, err := parseAxis(a.Path.Axis); err != nil {
				return fmt.Errorf("scene %s: platform %s: %w", d.ID, a.Name, err)
			}
			if a.Path.From >= a.Path.To {
				return fmt.Errorf("scene %s: platform %s: path from must be below to", d.ID, a.Name)
			}
		case RolePickup, RoleProp, "":
		default:
			return fmt.Errorf("scene %s: actor %s: unknown role %q", d.ID, a.Name, a.Role)
		}
	}
	if players > 1 {
		return fmt.Errorf("scene %s: %d players, expected at most one", d.ID, players)
	}
	return nil
}

func parseAxis(s string) (core.Axis, error) {
	switch strings.ToLower(s) {
	case "x":
		return core.AxisX, nil
	case "y":
		return core.AxisY, nil
	case "z":
		return core.AxisZ, nil
	default:
		return 0, fmt.Errorf("unknown axis %q", s)
	}
}

func vec(a [3]float64) core.Vec3 {
	return core.V3(a[0], a[1], a[2])
}

// Build spawns the definition into w. Tiles come first, then actors in
// file order, so object IDs follow the file.
func (d Definition) Build(w *world.World) {
	for _, t := range d.Tiles {
		w.SpawnTile(t.Name, core.BoxFromMinMax(vec(t.Min), vec(t.Max)))
	}

	for _, a := range d.Actors {
		o := w.SpawnActor(a.Name, vec(a.Position))
		if a.Role != "" {
			o.AddTag(a.Role)
		}
		for _, tag := range a.Tags {
			o.AddTag(tag)
		}

		collider := world.CenteredCollider(vec(a.Size))
		if a.Offset != nil {
			collider.Offset = vec(*a.Offset)
		}
		o.SetCollider(collider)

		mode, _ := world.ParsePhysicsMode(a.Mode)
		mass := a.Mass
		if mass == 0 {
			mass = 1
		}
		o.SetBody(world.PhysicsBody{Mode: mode, Velocity: vec(a.Velocity), Mass: mass})
	}
}
