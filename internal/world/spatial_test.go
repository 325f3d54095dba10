package world

import (
	"slices"
	"testing"

	"github.com/vovakirdan/isoworld/internal/core"
)

func TestObjectsInAreaFindsNearbyOnly(t *testing.T) {
	w := newTestWorld()
	near := w.SpawnTile("near", core.BoxFromMinMax(core.V3(0, 0, 0), core.V3(1, 1, 1)))
	w.SpawnTile("far", core.BoxFromMinMax(core.V3(12, 12, 0), core.V3(13, 13, 1)))

	got := ids(w.ObjectsInArea(core.BoxFromMinMax(core.V3(-1, -1, 0), core.V3(0.5, 0.5, 1))))
	if !slices.Equal(got, []uint64{near.ID()}) {
		t.Errorf("ObjectsInArea() = %v, expected [%d]", got, near.ID())
	}
}

func TestObjectsInAreaCellBorders(t *testing.T) {
	w := newTestWorld()
	// Cell size 4 from origin -16: x=0 is a cell border.
	left := w.SpawnTile("left", core.BoxFromMinMax(core.V3(-1, 0, 0), core.V3(0, 1, 1)))
	right := w.SpawnTile("right", core.BoxFromMinMax(core.V3(0, 0, 0), core.V3(1, 1, 1)))

	t.Run("touch left face", func(t *testing.T) {
		got := ids(w.ObjectsInArea(core.BoxFromMinMax(core.V3(0, 0, 0), core.V3(0, 1, 1))))
		if !slices.Contains(got, left.ID()) {
			t.Errorf("left tile missing from query: %v", got)
		}
	})

	t.Run("touch right face", func(t *testing.T) {
		got := ids(w.ObjectsInArea(core.BoxFromMinMax(core.V3(1, 0, 0), core.V3(2, 1, 1))))
		if !slices.Contains(got, right.ID()) {
			t.Errorf("right tile missing from query: %v", got)
		}
	})
}

func TestObjectsAtAfterMove(t *testing.T) {
	w := newTestWorld()
	a := w.SpawnActor("runner", core.V3(0, 0, 0))
	a.SetCollider(CenteredCollider(core.V3(1, 1, 1)))

	a.MoveTo(core.V3(10, 10, 0))
	if got := ids(w.ObjectsAt(core.V3(10, 10, 0.5))); !slices.Equal(got, []uint64{a.ID()}) {
		t.Errorf("new position: ObjectsAt() = %v", got)
	}
	if got := ids(w.ObjectsAt(core.V3(0, 0, 0.5))); len(got) != 0 {
		t.Errorf("old position: ObjectsAt() = %v, expected nothing", got)
	}
}

func TestOutOfBoundsObjectsAlwaysReturned(t *testing.T) {
	w := newTestWorld()
	huge := w.SpawnTile("ground", core.BoxFromMinMax(core.V3(-100, -100, -1), core.V3(100, 100, 0)))
	outside := w.SpawnActor("wanderer", core.V3(50, 50, 0))
	outside.SetCollider(CenteredCollider(core.V3(1, 1, 1)))

	got := ids(w.ObjectsInArea(core.BoxFromMinMax(core.V3(0, 0, 0), core.V3(1, 1, 1))))
	if !slices.Equal(got, []uint64{huge.ID(), outside.ID()}) {
		t.Fatalf("ObjectsInArea() = %v, expected overflow objects", got)
	}

	// Moving back inside the grid leaves the overflow set.
	outside.MoveTo(core.V3(8, 8, 0))
	got = ids(w.ObjectsAt(core.V3(-8, -8, 0)))
	if !slices.Equal(got, []uint64{huge.ID()}) {
		t.Errorf("ObjectsAt() = %v, expected only the ground", got)
	}
}

func TestQueryResultsSortedByID(t *testing.T) {
	w := newTestWorld()
	for i := 0; i < 5; i++ {
		x := float64(4 - i)
		w.SpawnTile("t", core.BoxFromMinMax(core.V3(x, 0, 0), core.V3(x+1, 1, 1)))
	}

	got := ids(w.ObjectsInArea(core.BoxFromMinMax(core.V3(0, 0, 0), core.V3(5, 1, 1))))
	if len(got) != 5 {
		t.Fatalf("ObjectsInArea() returned %d objects, expected 5", len(got))
	}
	if !slices.IsSorted(got) {
		t.Errorf("results not sorted by ID: %v", got)
	}
}
