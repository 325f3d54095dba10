package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/isoworld/internal/core"
	"github.com/vovakirdan/isoworld/internal/logging"
	"github.com/vovakirdan/isoworld/internal/registry"
	"github.com/vovakirdan/isoworld/internal/storage"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// fakeGame records the frames it is stepped with and ends the run on
// demand.
type fakeGame struct {
	frames []core.InputFrame
	resets int
	state  core.GameState
}

func (f *fakeGame) ID() string               { return "fake" }
func (f *fakeGame) Title() string            { return "Fake" }
func (f *fakeGame) Reset(core.RuntimeConfig) { f.resets++; f.state = core.GameState{} }
func (f *fakeGame) Render(dst *core.Screen)  { dst.DrawText(0, 0, "HUD") }
func (f *fakeGame) State() core.GameState    { return f.state }
func (f *fakeGame) Step(in core.InputFrame) core.StepResult {
	f.frames = append(f.frames, in.Clone())
	if in.Has(core.ActionRestart) {
		f.state = core.GameState{}
	}
	return core.StepResult{State: f.state}
}

func newTestModel(t *testing.T, g *fakeGame, store *storage.Store) Model {
	t.Helper()
	cfg := core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 20, Seed: 1}
	return NewModel(g, store, cfg, logging.Discard())
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"w", runes("w"), core.ActionUp, false},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, core.ActionDown, false},
		{"a", runes("a"), core.ActionLeft, false},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, core.ActionJump, false},
		{"pause", runes("p"), core.ActionPause, false},
		{"restart", runes("r"), core.ActionRestart, false},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{"quit", runes("q"), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runes("x"), core.ActionNone, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			action, quit := km.MapKey(tc.msg)
			if action != tc.action || quit != tc.quit {
				t.Errorf("MapKey() = %v, %v; expected %v, %v", action, quit, tc.action, tc.quit)
			}
		})
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg      tea.KeyMsg
		expected MenuAction
	}{
		{runes("k"), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionBoard},
		{runes("b"), MenuActionBack},
		{runes("q"), MenuActionQuit},
		{runes("z"), MenuActionNone},
	}

	for _, tc := range tests {
		if got := km.MapKeyToMenuAction(tc.msg); got != tc.expected {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tc.msg.String(), got, tc.expected)
		}
	}
}

func TestModelHoldsMovement(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(t, g, nil)
	if m.holdTicks != 5 {
		t.Fatalf("holdTicks = %d, expected 5 at 20 ticks/s", m.holdTicks)
	}

	m = step(t, m, runes("d"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeySpace})
	for i := 0; i < 7; i++ {
		m = step(t, m, TickMsg{})
	}

	if len(g.frames) != 7 {
		t.Fatalf("stepped %d times, expected 7", len(g.frames))
	}
	for i, f := range g.frames {
		if want := i < 5; f.Has(core.ActionRight) != want {
			t.Errorf("frame %d: right held = %v, expected %v", i, f.Has(core.ActionRight), want)
		}
		if want := i == 0; f.Has(core.ActionJump) != want {
			t.Errorf("frame %d: jump = %v, expected %v", i, f.Has(core.ActionJump), want)
		}
	}
}

func TestModelRestartOnlyAfterGameOver(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(t, g, nil)

	m = step(t, m, runes("r"))
	m = step(t, m, TickMsg{})
	if g.frames[0].Has(core.ActionRestart) {
		t.Error("restart forwarded while playing")
	}

	g.state = core.GameState{GameOver: true, Score: 5}
	m = step(t, m, TickMsg{})
	m = step(t, m, runes("r"))
	_ = step(t, m, TickMsg{})
	if !g.frames[2].Has(core.ActionRestart) {
		t.Error("restart not forwarded after game over")
	}
}

func TestModelSavesScoreOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	g := &fakeGame{}
	m := newTestModel(t, g, store)

	g.state = core.GameState{GameOver: true, Won: true, Score: 30}
	for i := 0; i < 3; i++ {
		m = step(t, m, TickMsg{})
	}

	scores, err := store.TopScores("fake", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 30 {
		t.Errorf("scores = %+v, expected a single 30", scores)
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, &fakeGame{}, nil)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if v := next.View(); v != "" {
		t.Errorf("View() after quit = %q", v)
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t, &fakeGame{}, nil)
	if v := m.View(); !strings.Contains(v, "HUD") {
		t.Errorf("View() missing HUD: %q", v)
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(10, 3)
	s.DrawText(0, 0, "score 1")
	s.SetColored(2, 1, '#', core.ColorBrightGreen)
	s.SetColored(3, 1, '#', core.ColorBrightGreen)
	s.SetColored(4, 2, '.', core.Color(200))

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, expected 3", len(lines))
	}
	if !strings.Contains(lines[0], "score 1") {
		t.Errorf("HUD line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "##") || !strings.Contains(lines[2], ".") {
		t.Errorf("body = %q", out)
	}
}

func registerFake(t *testing.T, id string) {
	t.Helper()
	err := registry.Register(registry.SceneInfo{ID: id}, func() registry.Game { return &fakeGame{} })
	if err != nil && !errors.Is(err, registry.ErrDuplicate) {
		t.Fatalf("Register(%s): %v", id, err)
	}
}

func TestMenuSelect(t *testing.T) {
	registerFake(t, "zz_menu_a")
	registerFake(t, "zz_menu_b")

	m := NewMenuModel(nil, core.DefaultConfig())
	var idx int
	for i, it := range m.items {
		if it.SceneID == "zz_menu_b" {
			idx = i
		}
	}
	for i := 0; i < idx; i++ {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(MenuModel)
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)

	res := m.result()
	if res.SceneID != "zz_menu_b" || res.Quit || res.WantsRuns {
		t.Errorf("result() = %+v", res)
	}

	next, _ = NewMenuModel(nil, core.DefaultConfig()).Update(tea.KeyMsg{Type: tea.KeyTab})
	if res := next.(MenuModel).result(); !res.WantsRuns {
		t.Errorf("tab result() = %+v", res)
	}
}

func TestBoardShowsRuns(t *testing.T) {
	registerFake(t, "zz_board")

	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()
	store.SaveRun(storage.Run{SceneID: "zz_board", Frames: 600, Outcome: "won", Score: 20, Hash: 0xbeef})
	store.SaveScore("zz_board", 20)

	m := NewBoardModel(store, "zz_board", 120, 30)
	if len(m.runs) != 1 {
		t.Fatalf("loaded %d runs, expected 1", len(m.runs))
	}
	view := m.View()
	for _, want := range []string{"RUNS", "won", "000000000000beef", "best 20"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(BoardModel).goingBack {
		t.Error("esc should go back")
	}
}
