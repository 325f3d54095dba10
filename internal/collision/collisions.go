package collision

import (
	"math"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/isoworld/internal/core"
)

// Collidable is anything the query engine can test against.
// CollisionBox reports false for objects without a collider.
type Collidable interface {
	ID() uint64
	CollisionBox() (core.Box, bool)
}

// SpatialIndex is the broad phase. It may return false positives but must
// never miss an object whose box touches the query.
type SpatialIndex interface {
	ObjectsInArea(area core.Box) []Collidable
	ObjectsAt(p core.Vec3) []Collidable
}

// Collision is a contact between an actor and another object.
type Collision struct {
	Other    Collidable
	Box      core.Box // other's box at detection time
	Distance float64  // center to center
	Side     Side
}

// PointCollision is a box containing a queried point.
type PointCollision struct {
	Other Collidable
	Box   core.Box
	Point core.Vec3
}

// SegmentCollision is the nearest entry of a segment into a box.
type SegmentCollision struct {
	Other    Collidable
	Box      core.Box
	Point    core.Vec3
	Distance float64 // from segment start to Point
	Side     Side
}

// PredictedCollision is a contact found along a movement delta.
type PredictedCollision struct {
	Collision
	Time   float64
	Normal core.Vec3
}

// Collisions answers point, box, segment and swept queries against a
// spatial index and keeps the rolling per-actor record of swept contacts.
// It is not safe for concurrent use.
type Collisions struct {
	index    SpatialIndex
	logger   *log.Logger
	frame    uint64
	current  map[uint64]map[uint64]Collision
	previous map[uint64]map[uint64]Collision
}

// New creates a query engine over the given index.
func New(index SpatialIndex, logger *log.Logger) *Collisions {
	if logger == nil {
		logger = log.Default()
	}
	return &Collisions{
		index:    index,
		logger:   logger,
		current:  make(map[uint64]map[uint64]Collision),
		previous: make(map[uint64]map[uint64]Collision),
	}
}

// Update rolls the current frame's records into the previous slot.
// Call it once per frame before any PredictCollisions call.
func (c *Collisions) Update() {
	c.previous = c.current
	c.current = make(map[uint64]map[uint64]Collision, len(c.previous))
	c.frame++
}

// Frame returns how many times Update has been called.
func (c *Collisions) Frame() uint64 {
	return c.frame
}

// CheckPoint returns every object whose box contains p, sorted by ID.
func (c *Collisions) CheckPoint(p core.Vec3) []PointCollision {
	var out []PointCollision
	for _, obj := range c.index.ObjectsAt(p) {
		box, ok := obj.CollisionBox()
		if !ok || !box.Contains(p) {
			continue
		}
		out = append(out, PointCollision{Other: obj, Box: box, Point: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Other.ID() < out[j].Other.ID() })
	return out
}

// CheckBox returns every object whose box intersects b, sorted by ID.
// Static overlaps carry no direction, so Side is always Corner.
func (c *Collisions) CheckBox(b core.Box) []Collision {
	var out []Collision
	for _, obj := range c.index.ObjectsInArea(b) {
		box, ok := obj.CollisionBox()
		if !ok || !b.Intersects(box) {
			continue
		}
		out = append(out, Collision{Other: obj, Box: box, Distance: b.Dst(box), Side: SideCorner})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Other.ID() < out[j].Other.ID() })
	return out
}

// CheckSegment returns every object the segment passes through, nearest
// first. A segment starting inside a box hits it at distance 0.
func (c *Collisions) CheckSegment(s core.Segment) []SegmentCollision {
	var out []SegmentCollision
	for _, obj := range c.index.ObjectsInArea(s.Bounds()) {
		box, ok := obj.CollisionBox()
		if !ok {
			continue
		}
		hit, ok := segmentHit(s, box)
		if !ok {
			continue
		}
		hit.Other = obj
		hit.Box = box
		out = append(out, hit)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Other.ID() < out[j].Other.ID()
	})
	return out
}

// segmentHit intersects s with each face of box and keeps the nearest.
func segmentHit(s core.Segment, box core.Box) (SegmentCollision, bool) {
	if box.Contains(s.A) {
		return SegmentCollision{Point: s.A, Side: SideCorner}, true
	}

	dir := s.B.Sub(s.A)
	best := SegmentCollision{Distance: math.Inf(1)}
	found := false
	for _, f := range box.Faces() {
		d := dir[f.Axis]
		if d == 0 {
			continue
		}
		t := (f.Coord - s.A[f.Axis]) / d
		if t < 0 || t > 1 {
			continue
		}
		p := s.At(t)
		if !onFace(p, f) {
			continue
		}
		dist := p.Sub(s.A).Len()
		if dist < best.Distance {
			var n core.Vec3
			n[f.Axis] = f.Normal
			best = SegmentCollision{Point: p, Distance: dist, Side: SideFromNormal(n)}
			found = true
		}
	}
	return best, found
}

func onFace(p core.Vec3, f core.Face) bool {
	for i := 0; i < 3; i++ {
		if core.Axis(i) == f.Axis {
			continue
		}
		if p[i] < f.Min[i]-core.Epsilon || p[i] > f.Max[i]+core.Epsilon {
			return false
		}
	}
	return true
}

// PredictCollisions sweeps actor's box by delta against everything the
// broad phase returns and records each hit for the current frame. The
// result is unordered; callers pick their own resolution order.
func (c *Collisions) PredictCollisions(actor Collidable, delta core.Vec3) []PredictedCollision {
	box, ok := actor.CollisionBox()
	if !ok {
		return nil
	}
	if delta == (core.Vec3{}) {
		return nil
	}

	area := box.Expand(core.CeilAway(delta[0]), core.CeilAway(delta[1]), core.CeilAway(delta[2]))

	var out []PredictedCollision
	for _, other := range c.index.ObjectsInArea(area) {
		if other.ID() == actor.ID() {
			continue
		}
		otherBox, ok := other.CollisionBox()
		if !ok {
			continue
		}
		sweep, ok := SweepTest(box, otherBox, delta)
		if !ok {
			continue
		}
		pc := PredictedCollision{
			Collision: Collision{
				Other:    other,
				Box:      otherBox,
				Distance: box.Dst(otherBox),
				Side:     SideFromNormal(sweep.Normal),
			},
			Time:   sweep.Time,
			Normal: sweep.Normal,
		}
		c.record(actor.ID(), pc.Collision)
		out = append(out, pc)
	}

	if len(out) > 0 {
		c.logger.Debug("predicted collisions", "actor", actor.ID(), "delta", delta, "hits", len(out))
	}
	return out
}

// record stores a contact for the current frame. A later record for the
// same pair replaces the earlier one.
func (c *Collisions) record(actor uint64, col Collision) {
	set, ok := c.current[actor]
	if !ok {
		set = make(map[uint64]Collision)
		c.current[actor] = set
	}
	set[col.Other.ID()] = col
}

// Current returns the actor's contacts recorded this frame, sorted by the
// other object's ID.
func (c *Collisions) Current(actor Collidable) []Collision {
	return sortedSet(c.current[actor.ID()])
}

// Previous returns the actor's contacts recorded last frame.
func (c *Collisions) Previous(actor Collidable) []Collision {
	return sortedSet(c.previous[actor.ID()])
}

func sortedSet(set map[uint64]Collision) []Collision {
	if len(set) == 0 {
		return nil
	}
	out := make([]Collision, 0, len(set))
	for _, col := range set {
		out = append(out, col)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Other.ID() < out[j].Other.ID() })
	return out
}
