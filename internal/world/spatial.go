package world

import (
	"math"
	"sort"

	"github.com/solarlune/resolv"

	"github.com/vovakirdan/isoworld/internal/config"
	"github.com/vovakirdan/isoworld/internal/core"
)

// spaceScale converts world units to resolv space units.
const spaceScale = 1000

// spatialGrid buckets collider footprints on the X/Y plane into resolv
// cells. Footprints that leave the grid are kept in an overflow set that
// every query returns, so lookups never miss an object.
type spatialGrid struct {
	space    *resolv.Space
	origin   [2]float64
	cellSize float64
	cols     int
	rows     int
	objects  map[uint64]*resolv.Object
	overflow map[uint64]struct{}
}

func newSpatialGrid(cfg config.WorldConfig) *spatialGrid {
	cols := int(math.Ceil(cfg.Extent[0] / cfg.CellSize))
	rows := int(math.Ceil(cfg.Extent[1] / cfg.CellSize))
	cellPx := int(cfg.CellSize * spaceScale)
	return &spatialGrid{
		space:    resolv.NewSpace(cols*cellPx, rows*cellPx, cellPx, cellPx),
		origin:   cfg.Origin,
		cellSize: cfg.CellSize,
		cols:     cols,
		rows:     rows,
		objects:  make(map[uint64]*resolv.Object),
		overflow: make(map[uint64]struct{}),
	}
}

// place indexes the footprint of b under id, replacing any previous entry.
func (g *spatialGrid) place(id uint64, b core.Box) {
	g.remove(id)

	if !g.inBounds(b) {
		g.overflow[id] = struct{}{}
		return
	}

	x := (b.Min[0] - g.origin[0]) * spaceScale
	y := (b.Min[1] - g.origin[1]) * spaceScale
	w := math.Max((b.Max[0]-b.Min[0])*spaceScale, 1)
	h := math.Max((b.Max[1]-b.Min[1])*spaceScale, 1)

	obj := resolv.NewObject(x, y, w, h)
	obj.Data = id
	g.space.Add(obj)
	g.objects[id] = obj
}

func (g *spatialGrid) remove(id uint64) {
	if obj, ok := g.objects[id]; ok {
		g.space.Remove(obj)
		delete(g.objects, id)
	}
	delete(g.overflow, id)
}

func (g *spatialGrid) inBounds(b core.Box) bool {
	maxX := g.origin[0] + float64(g.cols)*g.cellSize
	maxY := g.origin[1] + float64(g.rows)*g.cellSize
	return b.Min[0] >= g.origin[0] && b.Min[1] >= g.origin[1] &&
		b.Max[0] < maxX && b.Max[1] < maxY
}

// query returns the IDs of every object that may touch area, sorted.
// The cell range is padded by one so footprints sitting on a cell border
// are always found.
func (g *spatialGrid) query(area core.Box) []uint64 {
	seen := make(map[uint64]struct{}, len(g.overflow))
	for id := range g.overflow {
		seen[id] = struct{}{}
	}

	cx0 := g.cellIndex(area.Min[0], g.origin[0]) - 1
	cy0 := g.cellIndex(area.Min[1], g.origin[1]) - 1
	cx1 := g.cellIndex(area.Max[0], g.origin[0]) + 1
	cy1 := g.cellIndex(area.Max[1], g.origin[1]) + 1

	cx0, cx1 = max(cx0, 0), min(cx1, g.cols-1)
	cy0, cy1 = max(cy0, 0), min(cy1, g.rows-1)

	for cy := cy0; cy <= cy1; cy++ {
		for cx := cx0; cx <= cx1; cx++ {
			cell := g.space.Cell(cx, cy)
			if cell == nil {
				continue
			}
			for _, obj := range cell.Objects {
				if id, ok := obj.Data.(uint64); ok {
					seen[id] = struct{}{}
				}
			}
		}
	}

	ids := make([]uint64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (g *spatialGrid) cellIndex(v, origin float64) int {
	return int(math.Floor((v - origin) / g.cellSize))
}
