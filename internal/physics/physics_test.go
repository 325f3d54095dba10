package physics

import (
	"math"
	"testing"

	"github.com/vovakirdan/isoworld/internal/collision"
	"github.com/vovakirdan/isoworld/internal/config"
	"github.com/vovakirdan/isoworld/internal/core"
	"github.com/vovakirdan/isoworld/internal/logging"
	"github.com/vovakirdan/isoworld/internal/world"
)

const dt = 0.1

type testRig struct {
	w *world.World
	c *collision.Collisions
	p *Physics
}

func newRig(gravity float64, iterations int) *testRig {
	cfg := config.DefaultEngineConfig()
	cfg.Physics.Gravity = gravity
	cfg.Physics.MaxContactIterations = iterations

	logger := logging.Discard()
	w := world.New(cfg.World, logger)
	c := collision.New(w, logger)
	return &testRig{w: w, c: c, p: New(w, c, cfg.Physics, logger)}
}

// step runs one frame the way the engine loop does.
func (r *testRig) step() {
	r.c.Update()
	r.p.Update(dt)
}

func (r *testRig) tile(minX, minY, minZ, maxX, maxY, maxZ float64) *world.Object {
	return r.w.SpawnTile("tile", core.BoxFromMinMax(core.V3(minX, minY, minZ), core.V3(maxX, maxY, maxZ)))
}

// actor spawns a unit cube with its min corner at pos.
func (r *testRig) actor(name string, pos core.Vec3, mode world.PhysicsMode, vel core.Vec3) *world.Object {
	o := r.w.SpawnActor(name, pos)
	o.SetCollider(world.Collider{Size: core.V3(1, 1, 1)})
	o.SetBody(world.PhysicsBody{Mode: mode, Velocity: vel, Mass: 1})
	return o
}

func approxVec(a, b core.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func velocity(t *testing.T, o *world.Object) core.Vec3 {
	t.Helper()
	b, ok := o.Body()
	if !ok {
		t.Fatalf("object %d has no body", o.ID())
	}
	return b.Velocity
}

func TestFallOntoFloor(t *testing.T) {
	tests := []struct {
		name  string
		start float64
	}{
		{"already adjacent", 0},
		{"gap of half a unit", 0.5},
		{"gap of a full step", 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(0, 3)
			r.tile(-5, -5, -1, 5, 5, 0)
			a := r.actor("box", core.V3(0, 0, tc.start), world.Dynamic, core.V3(0, 0, -10))

			r.step()

			if !approxVec(a.Position(), core.V3(0, 0, 0)) {
				t.Errorf("Position() = %v, expected z clamped to 0", a.Position())
			}
			if v := velocity(t, a); v[2] != 0 {
				t.Errorf("velocity.z = %f, expected 0", v[2])
			}
		})
	}
}

func TestRestingContactIsIdempotent(t *testing.T) {
	r := newRig(-30, 3)
	r.tile(-5, -5, -1, 5, 5, 0)
	a := r.actor("box", core.V3(1, 1, 0), world.Dynamic, core.Vec3{})

	for i := 0; i < 20; i++ {
		r.step()
		if a.Position() != core.V3(1, 1, 0) {
			t.Fatalf("frame %d: Position() = %v, expected no drift", i, a.Position())
		}
		if v := velocity(t, a); v != (core.Vec3{}) {
			t.Fatalf("frame %d: velocity = %v, expected zero", i, v)
		}
	}
}

func TestFallingUnderGravitySettles(t *testing.T) {
	r := newRig(-30, 3)
	r.tile(-5, -5, -1, 5, 5, 0)
	a := r.actor("box", core.V3(0, 0, 4), world.Dynamic, core.Vec3{})

	for i := 0; i < 60; i++ {
		r.step()
		if a.Position()[2] < -1e-9 {
			t.Fatalf("frame %d: tunneled to z=%f", i, a.Position()[2])
		}
	}
	if !approxVec(a.Position(), core.V3(0, 0, 0)) {
		t.Errorf("Position() = %v, expected resting on floor", a.Position())
	}
}

func TestSlidingAlongWall(t *testing.T) {
	r := newRig(0, 3)
	r.tile(1.3, -5, -1, 2, 5, 2)
	a := r.actor("slider", core.V3(0, 0, 0), world.Dynamic, core.V3(10, 10, 0))

	r.step()

	if !approxVec(a.Position(), core.V3(0.3, 1, 0)) {
		t.Errorf("Position() = %v, expected (0.3, 1, 0)", a.Position())
	}
	if v := velocity(t, a); !approxVec(v, core.V3(0, 10, 0)) {
		t.Errorf("velocity = %v, expected (0, 10, 0)", v)
	}
}

func TestSlidingAcrossFloorIntoWall(t *testing.T) {
	r := newRig(-30, 3)
	r.tile(-5, -5, -1, 5, 5, 0)
	r.tile(2, -5, 0, 3, 5, 3)
	a := r.actor("runner", core.V3(0, 0, 0), world.Dynamic, core.V3(20, 5, 0))

	for i := 0; i < 5; i++ {
		r.step()
	}

	pos := a.Position()
	if math.Abs(pos[0]-1) > 1e-9 {
		t.Errorf("x = %f, expected flush against wall at 1", pos[0])
	}
	if math.Abs(pos[2]) > 1e-9 {
		t.Errorf("z = %f, expected on floor", pos[2])
	}
	if pos[1] <= 0 {
		t.Errorf("y = %f, expected progress along the wall", pos[1])
	}
}

func TestGhostNeverBlocks(t *testing.T) {
	r := newRig(0, 3)
	ghost := r.actor("coin", core.V3(1.2, 0, 0), world.Ghost, core.Vec3{})
	a := r.actor("runner", core.V3(0, 0, 0), world.Dynamic, core.V3(10, 0, 0))

	r.step()

	if !approxVec(a.Position(), core.V3(1, 0, 0)) {
		t.Errorf("Position() = %v, expected to pass through the ghost", a.Position())
	}
	found := false
	for _, col := range r.c.Current(a) {
		if col.Other.ID() == ghost.ID() {
			found = true
		}
	}
	if !found {
		t.Error("ghost contact should still be recorded")
	}
}

func TestGhostSkippedForLaterSolid(t *testing.T) {
	r := newRig(0, 3)
	r.actor("coin", core.V3(1.2, 0, 0), world.Ghost, core.Vec3{})
	r.tile(1.6, -5, -1, 2, 5, 2)
	a := r.actor("runner", core.V3(0, 0, 0), world.Dynamic, core.V3(10, 0, 0))

	r.step()

	if !approxVec(a.Position(), core.V3(0.6, 0, 0)) {
		t.Errorf("Position() = %v, expected stopped by the wall", a.Position())
	}
}

func TestCandidateTieBreak(t *testing.T) {
	t.Run("nearest wins on equal time", func(t *testing.T) {
		r := newRig(0, 3)
		far := r.tile(2, 0.8, 0, 3, 3, 1)
		near := r.tile(2, 0, 0, 3, 1, 1)
		a := r.actor("a", core.V3(0, 0, 0), world.Dynamic, core.Vec3{})

		r.c.Update()
		hit, ok := r.p.candidate(a, core.V3(2, 0, 0))
		if !ok {
			t.Fatal("expected a candidate")
		}
		if hit.Other.ID() != near.ID() {
			t.Errorf("candidate = %d, expected nearer %d (not %d)", hit.Other.ID(), near.ID(), far.ID())
		}
	})

	t.Run("lowest ID wins on equal time and distance", func(t *testing.T) {
		r := newRig(0, 3)
		first := r.tile(2, 0.5, 0, 3, 2.5, 1)
		r.tile(2, -1.5, 0, 3, 0.5, 1)
		a := r.actor("a", core.V3(0, 0, 0), world.Dynamic, core.Vec3{})

		for i := 0; i < 10; i++ {
			r.c.Update()
			hit, ok := r.p.candidate(a, core.V3(2, 0, 0))
			if !ok {
				t.Fatal("expected a candidate")
			}
			if hit.Other.ID() != first.ID() {
				t.Fatalf("candidate = %d, expected %d", hit.Other.ID(), first.ID())
			}
		}
	})

	t.Run("earliest time wins over distance", func(t *testing.T) {
		r := newRig(0, 3)
		r.tile(2.5, 0, 0, 3, 1, 1)
		early := r.tile(1.5, 0.9, 0, 2, 4, 1)
		a := r.actor("a", core.V3(0, 0, 0), world.Dynamic, core.Vec3{})

		r.c.Update()
		hit, ok := r.p.candidate(a, core.V3(2, 0, 0))
		if !ok {
			t.Fatal("expected a candidate")
		}
		if hit.Other.ID() != early.ID() {
			t.Errorf("candidate = %d, expected %d", hit.Other.ID(), early.ID())
		}
	})
}

func TestKinematicCarriesRider(t *testing.T) {
	r := newRig(0, 3)
	rider := r.w.SpawnActor("rider", core.V3(0.5, 0.5, 1))
	rider.SetCollider(world.Collider{Size: core.V3(1, 1, 1)})
	rider.SetBody(world.PhysicsBody{Mode: world.Dynamic, Mass: 1})
	platform := r.w.SpawnActor("lift", core.V3(0, 0, 0))
	platform.SetCollider(world.Collider{Size: core.V3(2, 2, 1)})
	platform.SetBody(world.PhysicsBody{Mode: world.Kinematic, Velocity: core.V3(0, 0, 5)})

	r.step()

	if !approxVec(platform.Position(), core.V3(0, 0, 0.5)) {
		t.Errorf("platform Position() = %v, expected full move", platform.Position())
	}
	if !approxVec(rider.Position(), core.V3(0.5, 0.5, 1.5)) {
		t.Errorf("rider Position() = %v, expected on new platform top", rider.Position())
	}
	body, _ := rider.Body()
	if len(body.Forces) != 1 || body.Forces[0] != core.V3(0, 0, 5) {
		t.Errorf("rider forces = %v, expected [(0, 0, 5)]", body.Forces)
	}
}

func TestRiderAdoptsPlatformVelocity(t *testing.T) {
	r := newRig(-30, 3)
	rider := r.actor("rider", core.V3(0.5, 0.5, 1), world.Dynamic, core.Vec3{})
	platform := r.w.SpawnActor("lift", core.V3(0, 0, 0))
	platform.SetCollider(world.Collider{Size: core.V3(2, 2, 1)})
	platform.SetBody(world.PhysicsBody{Mode: world.Kinematic, Velocity: core.V3(0, 0, -2)})

	r.step()

	if v := velocity(t, rider); v[2] != -2 {
		t.Errorf("rider velocity.z = %f, expected platform's -2", v[2])
	}
}

func TestKinematicNotBlocked(t *testing.T) {
	r := newRig(0, 3)
	r.tile(1.5, -5, -1, 2, 5, 2)
	mover := r.actor("pusher", core.V3(0, 0, 0), world.Kinematic, core.V3(20, 0, 0))

	r.step()

	if !approxVec(mover.Position(), core.V3(2, 0, 0)) {
		t.Errorf("Position() = %v, expected full delta", mover.Position())
	}
}

func TestSolidMoverMovesAnyway(t *testing.T) {
	r := newRig(-30, 3)
	r.tile(1.5, -5, -1, 2, 5, 2)
	mover := r.actor("crate", core.V3(0, 0, 0), world.Solid, core.V3(20, 0, 0))

	r.step()

	if !approxVec(mover.Position(), core.V3(2, 0, 0)) {
		t.Errorf("Position() = %v, expected full delta without gravity", mover.Position())
	}
}

func TestForcesDrained(t *testing.T) {
	r := newRig(0, 3)
	dyn := r.actor("pushed", core.V3(0, 0, 0), world.Dynamic, core.Vec3{})
	kin := r.actor("lift", core.V3(5, 5, 0), world.Kinematic, core.Vec3{})

	for _, o := range []*world.Object{dyn, kin} {
		b, _ := o.Body()
		b.AddForce(core.V3(10, 0, 0))
	}

	r.step()

	if !approxVec(dyn.Position(), core.V3(1, 0, 0)) {
		t.Errorf("dynamic Position() = %v, expected pushed to x=1", dyn.Position())
	}
	if kin.Position() != core.V3(5, 5, 0) {
		t.Errorf("kinematic Position() = %v, forces must not move it", kin.Position())
	}
	for _, o := range []*world.Object{dyn, kin} {
		if b, _ := o.Body(); len(b.Forces) != 0 {
			t.Errorf("object %d forces = %v, expected drained", o.ID(), b.Forces)
		}
	}
}

func TestActorWithoutColliderMovesFreely(t *testing.T) {
	r := newRig(0, 3)
	r.tile(0.5, -5, -5, 1, 5, 5)
	o := r.w.SpawnActor("spirit", core.V3(0, 0, 0))
	o.SetBody(world.PhysicsBody{Mode: world.Dynamic, Velocity: core.V3(20, 0, 0)})

	r.step()

	if !approxVec(o.Position(), core.V3(2, 0, 0)) {
		t.Errorf("Position() = %v, expected unobstructed", o.Position())
	}
}

func TestSafetyBreak(t *testing.T) {
	r := newRig(0, 1)
	r.tile(1.3, -5, -1, 2, 5, 2)
	a := r.actor("slider", core.V3(0, 0, 0), world.Dynamic, core.V3(10, 10, 0))

	r.step()

	if got := r.p.Stats().SafetyHits; got != 1 {
		t.Errorf("SafetyHits = %d, expected 1", got)
	}
	if !approxVec(a.Position(), core.V3(0.3, 0.3, 0)) {
		t.Errorf("Position() = %v, expected stop at first contact", a.Position())
	}
}

func TestCornerClampLeavesPosition(t *testing.T) {
	r := newRig(0, 3)
	other := r.tile(2, 2, 0, 3, 3, 1)
	a := r.actor("a", core.V3(0.5, 0.5, 0), world.Dynamic, core.Vec3{})
	box, _ := other.CollisionBox()

	r.p.clampToSide(a, collision.PredictedCollision{
		Collision: collision.Collision{Other: other, Box: box, Side: collision.SideCorner},
	})

	if a.Position() != core.V3(0.5, 0.5, 0) {
		t.Errorf("Position() = %v, expected unchanged", a.Position())
	}
	if r.p.Stats().Corners != 1 {
		t.Errorf("Corners = %d, expected 1", r.p.Stats().Corners)
	}
}

func TestClampToSide(t *testing.T) {
	other := core.BoxFromMinMax(core.V3(0, 0, 0), core.V3(4, 4, 4))

	tests := []struct {
		side collision.Side
		want core.Vec3
	}{
		{collision.SideLeft, core.V3(-0.5, 9, 9)},
		{collision.SideRight, core.V3(4.5, 9, 9)},
		{collision.SideFront, core.V3(9, -0.5, 9)},
		{collision.SideBack, core.V3(9, 4.5, 9)},
		{collision.SideTop, core.V3(9, 9, 4)},
		{collision.SideBottom, core.V3(9, 9, -2)},
	}

	for _, tc := range tests {
		t.Run(tc.side.String(), func(t *testing.T) {
			r := newRig(0, 3)
			tile := r.w.SpawnTile("wall", other)
			a := r.w.SpawnActor("a", core.V3(9, 9, 9))
			a.SetCollider(world.CenteredCollider(core.V3(1, 1, 2)))
			a.SetBody(world.PhysicsBody{Mode: world.Dynamic})

			r.p.clampToSide(a, collision.PredictedCollision{
				Collision: collision.Collision{Other: tile, Box: other, Side: tc.side},
			})

			if !approxVec(a.Position(), tc.want) {
				t.Errorf("Position() = %v, expected %v", a.Position(), tc.want)
			}
		})
	}
}

func TestLostColliderPanics(t *testing.T) {
	r := newRig(0, 3)
	other := r.tile(2, 2, 0, 3, 3, 1)
	a := r.w.SpawnActor("a", core.V3(0, 0, 0))
	box, _ := other.CollisionBox()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for a mover without collider")
		}
	}()
	r.p.clampToSide(a, collision.PredictedCollision{
		Collision: collision.Collision{Other: other, Box: box, Side: collision.SideTop},
	})
}

func TestUpdateDeterministic(t *testing.T) {
	run := func() []core.Vec3 {
		r := newRig(-30, 3)
		r.tile(-10, -10, -1, 10, 10, 0)
		r.tile(3, -10, 0, 4, 10, 2)
		var actors []*world.Object
		for i := 0; i < 6; i++ {
			x := float64(i%3) * 1.5
			y := float64(i/3) * 1.5
			actors = append(actors, r.actor("a", core.V3(x, y, float64(i)), world.Dynamic, core.V3(8, 3, 0)))
		}
		for i := 0; i < 40; i++ {
			r.step()
		}
		out := make([]core.Vec3, len(actors))
		for i, a := range actors {
			out[i] = a.Position()
		}
		return out
	}

	first := run()
	second := run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("actor %d diverged: %v vs %v", i, first[i], second[i])
		}
	}
}
