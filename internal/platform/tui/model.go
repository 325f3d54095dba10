package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/isoworld/internal/core"
	"github.com/vovakirdan/isoworld/internal/logging"
	"github.com/vovakirdan/isoworld/internal/registry"
	"github.com/vovakirdan/isoworld/internal/storage"
)

// Model is the Bubble Tea model for playing a scene.
type Model struct {
	game      registry.Game
	screen    *core.Screen
	store     *storage.Store
	config    core.RuntimeConfig
	keys      *KeyMapper
	logger    *log.Logger
	pending   core.InputFrame     // one-shot actions for the next tick
	held      map[core.Action]int // movement actions and their remaining ticks
	holdTicks int
	gameState core.GameState
	quitting  bool
	saved     bool // whether the score has been saved for the current run
}

// NewModel creates a new Bubble Tea model for the given scene.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	// Terminals report key repeats, not releases: a movement key stays
	// held for a quarter second after its last repeat.
	hold := cfg.TickRate / 4
	if hold < 1 {
		hold = 1
	}

	return Model{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:     store,
		config:    cfg,
		keys:      NewKeyMapper(),
		logger:    logging.OrDefault(logger),
		pending:   core.NewInputFrame(),
		held:      make(map[core.Action]int),
		holdTicks: hold,
	}
}

// Init initializes the model and starts the scene.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	switch {
	case isQuit, action == core.ActionBack:
		m.quitting = true
		return m, tea.Quit
	case IsMovement(action):
		m.held[action] = m.holdTicks
	case action == core.ActionRestart:
		if m.gameState.GameOver {
			m.pending.Set(action)
		}
	case action != core.ActionNone:
		m.pending.Set(action)
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	// The scene checks its minimum size on reset, so a resize restarts the
	// run unless it is already over.
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
		m.saved = false
	}

	return m, nil
}

// frame merges the one-shot actions with the held movement keys.
func (m *Model) frame() core.InputFrame {
	in := m.pending.Clone()
	for a, left := range m.held {
		in.Set(a)
		if left <= 1 {
			delete(m.held, a)
		} else {
			m.held[a] = left - 1
		}
	}
	return in
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	in := m.frame()
	restarting := in.Has(core.ActionRestart) && m.gameState.GameOver

	result := m.game.Step(in)
	m.gameState = result.State
	if restarting {
		m.saved = false
	}

	if m.gameState.GameOver && !m.saved {
		m.saveScore()
		m.saved = true
	}

	m.pending.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveScore records the final score of a finished run.
func (m *Model) saveScore() {
	if m.store == nil || m.gameState.Score <= 0 {
		return
	}
	if _, err := m.store.SaveScore(m.game.ID(), m.gameState.Score); err != nil {
		m.logger.Warn("cannot save score", "scene", m.game.ID(), "err", err)
		return
	}
	m.logger.Info("score saved", "scene", m.game.ID(), "score", m.gameState.Score, "won", m.gameState.Won)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	dir := filepath.Join(home, ".isoworld", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// Run starts the Bubble Tea program for a scene.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	p := tea.NewProgram(
		NewModel(game, store, cfg, logger),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
