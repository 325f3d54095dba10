package physics

import (
	"fmt"
	"math"

	"github.com/vovakirdan/isoworld/internal/collision"
	"github.com/vovakirdan/isoworld/internal/core"
	"github.com/vovakirdan/isoworld/internal/world"
)

// solveDynamicContact advances the actor to the moment of contact, sits it
// flush against the other box and stops its velocity into the surface.
// It returns the motion left to resolve this frame.
func (p *Physics) solveDynamicContact(actor *world.Object, delta core.Vec3, hit collision.PredictedCollision) core.Vec3 {
	actor.Move(delta.Mul(hit.Time))
	p.clampToSide(actor, hit)

	body := mustBody(actor)
	for i := 0; i < 3; i++ {
		body.Velocity[i] -= body.Velocity[i] * math.Abs(hit.Normal[i])
	}

	if hit.Side == collision.SideTop {
		if platform, ok := hit.Other.(*world.Object); ok && platform.Mode() == world.Kinematic {
			if pb, ok := platform.Body(); ok {
				body.Velocity[2] = pb.Velocity[2]
			}
		}
	}

	remaining := delta.Mul(1 - hit.Time)
	for i := 0; i < 3; i++ {
		remaining[i] -= remaining[i] * math.Abs(hit.Normal[i])
	}
	return remaining
}

// solveKinematicContact always completes the motion. A dynamic actor hit
// from below is carried along.
func (p *Physics) solveKinematicContact(actor *world.Object, delta core.Vec3, hit collision.PredictedCollision) {
	actor.Move(delta)

	rider, ok := hit.Other.(*world.Object)
	if !ok || rider.Mode() != world.Dynamic || hit.Side != collision.SideBottom {
		return
	}
	p.applyPlatformCarry(actor, rider)
}

// applyPlatformCarry hands the platform's vertical velocity to the rider
// as a force and snaps the rider onto the platform's new top. Riders would
// otherwise lag a frame behind a rising platform and sink into it.
func (p *Physics) applyPlatformCarry(platform, rider *world.Object) {
	pb := mustBody(platform)
	rb, ok := rider.Body()
	if !ok {
		return
	}
	rb.AddForce(core.V3(0, 0, pb.Velocity[2]))

	top, ok := platform.CollisionBox()
	if !ok {
		panic(fmt.Sprintf("physics: platform %d lost its collider during resolution", platform.ID()))
	}
	rc, ok := rider.Collider()
	if !ok {
		return
	}
	pos := rider.Position()
	pos[2] = top.Max[2] - rc.Offset[2]
	rider.MoveTo(pos)

	p.logger.Debug("platform carry", "platform", platform.ID(), "rider", rider.ID(), "z", pos[2])
}

// clampToSide places the actor exactly against the contacted face.
// Corner contacts have no single face and are left where they are.
func (p *Physics) clampToSide(actor *world.Object, hit collision.PredictedCollision) {
	c, ok := actor.Collider()
	if !ok {
		panic(fmt.Sprintf("physics: actor %d lost its collider during resolution", actor.ID()))
	}

	pos := actor.Position()
	o := hit.Box
	switch hit.Side {
	case collision.SideLeft:
		pos[0] = o.Min[0] - c.Offset[0] - c.Size[0]
	case collision.SideRight:
		pos[0] = o.Max[0] - c.Offset[0]
	case collision.SideFront:
		pos[1] = o.Min[1] - c.Offset[1] - c.Size[1]
	case collision.SideBack:
		pos[1] = o.Max[1] - c.Offset[1]
	case collision.SideTop:
		pos[2] = o.Max[2] - c.Offset[2]
	case collision.SideBottom:
		pos[2] = o.Min[2] - c.Offset[2] - c.Size[2]
	default:
		p.stats.Corners++
		p.logger.Warn("unresolved corner contact", "actor", actor.ID(), "other", hit.Other.ID())
		return
	}
	actor.MoveTo(pos)
}
