// Package physics advances physics-bodied actors by one fixed step and
// resolves their contacts against the rest of the world.
package physics

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/isoworld/internal/collision"
	"github.com/vovakirdan/isoworld/internal/config"
	"github.com/vovakirdan/isoworld/internal/core"
	"github.com/vovakirdan/isoworld/internal/world"
)

// Physics integrates velocities and forces and resolves swept contacts.
// It owns no per-actor state; everything lives on the actors' bodies.
type Physics struct {
	world      *world.World
	collisions *collision.Collisions
	cfg        config.PhysicsConfig
	logger     *log.Logger
	stats      Stats
}

// Stats counts resolution events since the last Update.
type Stats struct {
	Actors     int
	Contacts   int
	Corners    int
	SafetyHits int
}

// New creates a physics system over w. Contacts are predicted through c,
// which the caller rolls over with Update once per frame.
func New(w *world.World, c *collision.Collisions, cfg config.PhysicsConfig, logger *log.Logger) *Physics {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxContactIterations <= 0 {
		cfg.MaxContactIterations = config.DefaultEngineConfig().Physics.MaxContactIterations
	}
	return &Physics{
		world:      w,
		collisions: c,
		cfg:        cfg,
		logger:     logger,
	}
}

// Stats returns counters for the most recent Update.
func (p *Physics) Stats() Stats {
	return p.stats
}

// Update advances every physics actor by dt seconds, in creation order.
func (p *Physics) Update(dt float64) {
	p.stats = Stats{}
	for _, actor := range p.world.PhysicsActors() {
		body, ok := actor.Body()
		if !ok {
			continue
		}
		p.stats.Actors++
		delta := p.integrate(body, dt)
		p.move(actor, delta)
	}
}

// integrate applies gravity and drains queued forces, returning the
// frame's displacement. Forces only displace dynamic bodies but are
// cleared for every mode.
func (p *Physics) integrate(body *world.PhysicsBody, dt float64) core.Vec3 {
	var pushed core.Vec3
	if body.Mode == world.Dynamic {
		body.Velocity[2] += p.cfg.Gravity * dt
		for _, f := range body.Forces {
			pushed = pushed.Add(f.Mul(dt))
		}
	}
	body.Forces = body.Forces[:0]
	return body.Velocity.Mul(dt).Add(pushed)
}

// move resolves delta against the world, at most MaxContactIterations
// contacts deep. Each dynamic contact removes one axis from the remaining
// motion, so three iterations cover the general case.
func (p *Physics) move(actor *world.Object, delta core.Vec3) {
	for i := 0; ; i++ {
		if delta == (core.Vec3{}) {
			return
		}
		if i == p.cfg.MaxContactIterations {
			p.stats.SafetyHits++
			p.logger.Warn("contact resolution did not settle",
				"actor", actor.ID(), "name", actor.Name(), "remaining", delta)
			return
		}

		hit, ok := p.candidate(actor, delta)
		if !ok {
			actor.Move(delta)
			return
		}
		p.stats.Contacts++

		switch actor.Mode() {
		case world.Dynamic:
			delta = p.solveDynamicContact(actor, delta, hit)
		case world.Kinematic:
			p.solveKinematicContact(actor, delta, hit)
			return
		default:
			// Solid and Ghost movers are not blocked.
			actor.Move(delta)
			return
		}
	}
}

// candidate picks the contact to resolve: the earliest non-ghost hit,
// then the nearest, then the lowest ID.
func (p *Physics) candidate(actor *world.Object, delta core.Vec3) (collision.PredictedCollision, bool) {
	hits := p.collisions.PredictCollisions(actor, delta)

	blocking := hits[:0]
	for _, h := range hits {
		if modeOf(h.Other) == world.Ghost {
			continue
		}
		blocking = append(blocking, h)
	}
	if len(blocking) == 0 {
		return collision.PredictedCollision{}, false
	}

	sort.Slice(blocking, func(i, j int) bool {
		a, b := blocking[i], blocking[j]
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		return a.Other.ID() < b.Other.ID()
	})
	return blocking[0], true
}

// modeOf reports the physics mode of any collidable. Foreign collidables
// behave as Solid.
func modeOf(c collision.Collidable) world.PhysicsMode {
	if o, ok := c.(*world.Object); ok {
		return o.Mode()
	}
	return world.Solid
}

// mustBody returns the actor's body; losing it mid-resolution is a bug.
func mustBody(actor *world.Object) *world.PhysicsBody {
	body, ok := actor.Body()
	if !ok {
		panic(fmt.Sprintf("physics: actor %d lost its body during resolution", actor.ID()))
	}
	return body
}
