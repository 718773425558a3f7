package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/firefly-sketch/internal/sketch"
)

// Controller is the subset of sketch.Manager the picker drives.
type Controller interface {
	List() ([]sketch.Info, error)
	Run(ctx context.Context, name string) (*sketch.RunResult, error)
	Stop(name string) error
	Delete(name string) error
}

// Action represents an operation requested from the picker
type Action int

const (
	ActionNone Action = iota
	ActionRun
	ActionStop
	ActionDelete
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionRun:
		return "run"
	case ActionStop:
		return "stop"
	case ActionDelete:
		return "delete"
	case ActionQuit:
		return "quit"
	}
	return "none"
}

// sketchItem implements list.Item for sketch display
type sketchItem struct {
	info sketch.Info
}

func (i sketchItem) Title() string {
	return i.info.Name
}

func (i sketchItem) Description() string {
	parts := []string{statusIcon(i.info.Status) + " " + string(i.info.Status)}
	if i.info.PID > 0 {
		parts = append(parts, fmt.Sprintf("pid %d", i.info.PID))
	}
	if i.info.Description != "" {
		parts = append(parts, truncate(i.info.Description, 40))
	}
	return strings.Join(parts, " | ")
}

func (i sketchItem) FilterValue() string {
	return i.info.Name
}

func statusIcon(s sketch.Status) string {
	switch s {
	case sketch.StatusRunning:
		return runningStyle.Render("▶")
	case sketch.StatusReady:
		return readyStyle.Render("✓")
	case sketch.StatusCompiling:
		return busyStyle.Render("⚙")
	case sketch.StatusStopped:
		return busyStyle.Render("■")
	case sketch.StatusFailed:
		return failedStyle.Render("✗")
	}
	return "○"
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	readyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	busyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// actionDoneMsg reports the end of an operation started from the picker.
type actionDoneMsg struct {
	action  Action
	name    string
	message string
	err     error
}

// refreshMsg carries a fresh catalog listing.
type refreshMsg struct {
	infos []sketch.Info
	err   error
}

// errPickerClosed is reported by actions that start after the picker closed.
var errPickerClosed = errors.New("picker closed")

// inflight tracks actions running outside the bubbletea loop so the
// picker can wait for them before its caller stops what they started.
type inflight struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func (f *inflight) begin() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.wg.Add(1)
	return true
}

func (f *inflight) end() {
	f.wg.Done()
}

// close refuses new actions and waits for running ones.
func (f *inflight) close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.wg.Wait()
}

// Model is the bubbletea model for the sketch picker
type Model struct {
	list     list.Model
	ctrl     Controller
	ctx      context.Context
	busy     map[string]sketch.Status
	inflight *inflight
	message  string
	failed   bool
	closing  bool
	quitting bool
	width    int
	height   int
}

// NewPicker creates a picker over infos that performs actions through ctrl.
func NewPicker(ctx context.Context, ctrl Controller, infos []sketch.Info) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(toItems(infos), delegate, 80, 20)
	l.Title = "Claude Sketch - Sketches"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return Model{
		list: l,
		ctrl: ctrl,
		ctx:      ctx,
		busy:     make(map[string]sketch.Status),
		inflight: &inflight{},
	}
}

func toItems(infos []sketch.Info) []list.Item {
	items := make([]list.Item, len(infos))
	for i, info := range infos {
		items[i] = sketchItem{info: info}
	}
	return items
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case actionDoneMsg:
		delete(m.busy, msg.name)
		m.message, m.failed = msg.message, msg.err != nil
		if msg.err != nil {
			m.message = fmt.Sprintf("%s %s: %v", msg.action, msg.name, msg.err)
		}
		if m.closing && len(m.busy) == 0 {
			m.quitting = true
			return m, tea.Quit
		}
		return m, m.refresh()

	case refreshMsg:
		if msg.err != nil {
			m.message, m.failed = msg.err.Error(), true
			return m, nil
		}
		return m, m.list.SetItems(toItems(m.overlay(msg.infos)))

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			return m.start(ActionRun, sketch.StatusCompiling)
		case "s":
			return m.start(ActionStop, sketch.StatusStopped)
		case "d":
			return m.start(ActionDelete, sketch.StatusStopped)
		case "r":
			return m, m.refresh()
		case "q", "esc":
			if len(m.busy) > 0 {
				m.closing = true
				m.message, m.failed = fmt.Sprintf("Waiting for %d action(s) to finish...", len(m.busy)), false
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// start marks the selected sketch with a transient status and runs the
// action in the background. Only one action per sketch is in flight.
func (m Model) start(action Action, transient sketch.Status) (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(sketchItem)
	if !ok {
		return m, nil
	}
	name := item.info.Name
	if _, inFlight := m.busy[name]; inFlight || m.closing {
		return m, nil
	}
	m.busy[name] = transient
	m.message, m.failed = fmt.Sprintf("%s %s...", action, name), false

	infos := make([]sketch.Info, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		infos = append(infos, it.(sketchItem).info)
	}
	setCmd := m.list.SetItems(toItems(m.overlay(infos)))

	return m, tea.Batch(setCmd, m.perform(action, name))
}

// overlay replaces derived statuses with the transient ones of in-flight actions.
func (m Model) overlay(infos []sketch.Info) []sketch.Info {
	out := make([]sketch.Info, len(infos))
	copy(out, infos)
	for i := range out {
		if s, ok := m.busy[out[i].Name]; ok {
			out[i].Status = s
		}
	}
	return out
}

func (m Model) perform(action Action, name string) tea.Cmd {
	ctrl, ctx, tracker := m.ctrl, m.ctx, m.inflight
	return func() tea.Msg {
		done := actionDoneMsg{action: action, name: name}
		if !tracker.begin() {
			done.err = errPickerClosed
			return done
		}
		defer tracker.end()

		switch action {
		case ActionRun:
			// A started run always finishes, so its handle is
			// registered before the caller stops everything.
			res, err := ctrl.Run(context.WithoutCancel(ctx), name)
			if err != nil {
				done.err = err
			} else {
				done.message = res.Message
				if !res.Success {
					done.err = errors.New(firstLine(res.Message))
				}
			}
		case ActionStop:
			done.err = ctrl.Stop(name)
			done.message = fmt.Sprintf("Stopped %s", name)
		case ActionDelete:
			done.err = ctrl.Delete(name)
			done.message = fmt.Sprintf("Deleted %s", name)
		}
		return done
	}
}

func (m Model) refresh() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		infos, err := ctrl.List()
		return refreshMsg{infos: infos, err: err}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var status string
	if m.message != "" {
		style := messageStyle
		if m.failed {
			style = errorStyle
		}
		status = "\n" + style.Render(m.message)
	}

	help := helpStyle.Render("[enter] Run  [s] Stop  [d] Delete  [r] Refresh  [/] Filter  [q] Quit")

	return m.list.View() + status + "\n" + help
}

// RunPicker runs the interactive picker until the user quits, then waits
// for actions still in flight.
func RunPicker(ctx context.Context, ctrl Controller) error {
	infos, err := ctrl.List()
	if err != nil {
		return err
	}

	m := NewPicker(ctx, ctrl, infos)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	m.inflight.close()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// SimplePicker is a non-interactive rendering of the catalog
func SimplePicker(infos []sketch.Info) string {
	var sb strings.Builder

	sb.WriteString("Claude Sketch - Sketches\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(infos) == 0 {
		sb.WriteString("No sketches found.\n")
		sb.WriteString("Create one with: sketch-ctl create <name> --file main.rs\n")
		return sb.String()
	}

	for i, info := range infos {
		sb.WriteString(fmt.Sprintf("%d. %s %s (%s)\n",
			i+1, statusIcon(info.Status), info.Name, info.Status))
		if info.Description != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", truncate(info.Description, 56)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
