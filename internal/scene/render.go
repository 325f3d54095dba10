package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/vovakirdan/isoworld/internal/core"
	"github.com/vovakirdan/isoworld/internal/world"
)

// Glyphs used for wireframes.
const (
	TileGlyph   = '.'
	ActorGlyph  = '#'
	PickupGlyph = '*'
)

// Projection scale: screen columns per world unit along X-Y, rows per unit
// along X+Y and Z.
const (
	isoColumns = 2.0
	isoRows    = 0.5
	isoHeight  = 1.0
)

// Render draws every collider as an isometric wireframe centered on the
// player, with a HUD on the first row.
func (g *Game) Render(dst *core.Screen) {
	if g.screenTooSmall {
		dst.DrawTextCentered(dst.Height()/2, "Terminal too small!")
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", g.minScreenW, g.minScreenH))
		return
	}

	cam := g.camera()
	objs := g.world.Objects()
	// Far objects first so nearer ones overdraw them.
	sort.SliceStable(objs, func(i, j int) bool {
		a, _ := objs[i].CollisionBox()
		b, _ := objs[j].CollisionBox()
		da := a.Pos()[0] + a.Pos()[1]
		db := b.Pos()[0] + b.Pos()[1]
		if da != db {
			return da > db
		}
		return a.Min[2] < b.Min[2]
	})

	for _, o := range objs {
		box, ok := o.CollisionBox()
		if !ok {
			continue
		}
		glyph, color := g.style(o)
		for _, s := range box.Segments() {
			x0, y0 := project(s.A, cam, dst)
			x1, y1 := project(s.B, cam, dst)
			dst.DrawLine(x0, y0, x1, y1, glyph, color)
		}
	}

	g.renderHUD(dst)
}

func (g *Game) renderHUD(dst *core.Screen) {
	collected := g.pickupsTotal - g.remainingPickups()
	hud := fmt.Sprintf(" %s  Score: %d  Pickups: %d/%d  t=%.1fs",
		g.def.Name, g.score, collected, g.pickupsTotal, float64(g.tick)*g.runtime.StepSeconds())
	if g.player != nil {
		hud += "  contact: " + sideName(g.collisions.Previous(g.player))
	}
	dst.DrawText(0, 0, hud)

	switch g.state {
	case StatePaused:
		dst.DrawTextCentered(dst.Height()/2, "PAUSED")
	case StateGameOver:
		dst.DrawTextCentered(dst.Height()/2-1, "GAME OVER")
		dst.DrawTextCentered(dst.Height()/2, g.cause)
		dst.DrawTextCentered(dst.Height()/2+1, "Press R to restart")
	case StateWon:
		dst.DrawTextCentered(dst.Height()/2-1, "SCENE CLEARED")
		dst.DrawTextCentered(dst.Height()/2, fmt.Sprintf("Score: %d", g.score))
		dst.DrawTextCentered(dst.Height()/2+1, "Press R to restart")
	}
}

func (g *Game) style(o *world.Object) (rune, core.Color) {
	switch {
	case o.Kind() == world.KindTile:
		return TileGlyph, core.ColorGray
	case o.HasTag(RolePlayer):
		return ActorGlyph, core.ColorBrightGreen
	case o.HasTag(RoleGuard):
		return ActorGlyph, core.ColorBrightRed
	case o.HasTag(RolePickup):
		return PickupGlyph, core.ColorBrightYellow
	case o.HasTag(RolePlatform):
		return ActorGlyph, core.ColorCyan
	default:
		return ActorGlyph, core.ColorOrange
	}
}

// camera returns the world point drawn at the screen center.
func (g *Game) camera() core.Vec3 {
	if g.player != nil && g.player.Valid() {
		return g.player.Position()
	}
	var sum core.Vec3
	n := 0
	for _, t := range g.def.Tiles {
		sum = sum.Add(vec(t.Min).Add(vec(t.Max)).Mul(0.5))
		n++
	}
	if n == 0 {
		return core.Vec3{}
	}
	return sum.Mul(1 / float64(n))
}

// project maps a world point to a screen cell. +X runs right and up,
// +Y left and up, +Z straight up.
func project(p, cam core.Vec3, dst *core.Screen) (int, int) {
	r := p.Sub(cam)
	sx := (r[0] - r[1]) * isoColumns
	sy := -(r[0]+r[1])*isoRows - r[2]*isoHeight
	return dst.Width()/2 + int(math.Round(sx)), dst.Height()/2 + int(math.Round(sy))
}
