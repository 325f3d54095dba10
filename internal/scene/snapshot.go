package scene

import (
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot is the complete simulated state of a scene, used for
// determinism checks and stored with recorded runs.
type Snapshot struct {
	SceneID string           `msgpack:"scene"`
	Seed    int64            `msgpack:"seed,omitempty"`
	Tick    uint64           `msgpack:"tick"`
	Score   int              `msgpack:"score"`
	State   string           `msgpack:"state"`
	Cause   string           `msgpack:"cause,omitempty"`
	Objects []ObjectSnapshot `msgpack:"objects"`
}

// ObjectSnapshot is one object's state.
type ObjectSnapshot struct {
	ID       uint64     `msgpack:"id"`
	Name     string     `msgpack:"name"`
	Kind     string     `msgpack:"kind"`
	Mode     string     `msgpack:"mode"`
	Position [3]float64 `msgpack:"pos"`
	Velocity [3]float64 `msgpack:"vel,omitempty"`
}

// Snapshot captures the current state. Objects are in ID order.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		SceneID: g.def.ID,
		Seed:    g.runtime.Seed,
		Tick:    g.tick,
		Score:   g.score,
		State:   g.state,
		Cause:   g.cause,
	}
	for _, o := range g.world.Objects() {
		st := ObjectSnapshot{
			ID:       o.ID(),
			Name:     o.Name(),
			Kind:     o.Kind().String(),
			Mode:     o.Mode().String(),
			Position: o.Position(),
		}
		if body, ok := o.Body(); ok {
			st.Velocity = body.Velocity
		}
		snap.Objects = append(snap.Objects, st)
	}
	return snap
}

// Encode serializes the snapshot as msgpack.
func (s Snapshot) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("scene: encoding snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a msgpack snapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("scene: decoding snapshot: %w", err)
	}
	return s, nil
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (s Snapshot) Hash() uint64 {
	h := s.Tick
	h = h*31 + uint64(s.Seed)  //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Score) //#nosec G115 -- hash computation
	for _, c := range s.State {
		h = h*31 + uint64(c)
	}
	for _, o := range s.Objects {
		h = h*31 + o.ID
		for i := 0; i < 3; i++ {
			h = h*31 + math.Float64bits(o.Position[i])
			h = h*31 + math.Float64bits(o.Velocity[i])
		}
	}
	return h
}
