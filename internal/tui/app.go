// Package tui is the terminal render collaborator. It reads state from an
// engine store, renders the split view and turns key presses into actions.
// It holds no model state of its own beyond the cursor and the text being
// typed.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/roach88/navsplit/internal/engine"
	"github.com/roach88/navsplit/internal/feature/app"
	"github.com/roach88/navsplit/internal/feature/detail"
	"github.com/roach88/navsplit/internal/feature/list"
)

// Store is the store the UI drives.
type Store = engine.Store[app.State, app.Action]

// App is the bubbletea model.
type App struct {
	store       *Store
	changed     chan struct{}
	unsubscribe func()

	state  app.State
	cursor map[app.Tag]int
	input  inputMode
	buffer string
	width  int
	height int
	status string
}

type inputMode string

const (
	inputNone   inputMode = ""
	inputFilter inputMode = "filter"
	inputRename inputMode = "rename"
	inputAdd    inputMode = "add"
)

// changedMsg reports that the store committed since the last refresh.
// It carries no state: Update reads the newest commit from the store, so a
// late notification can never roll the view back.
type changedMsg struct{}

// columnOrder is the cycle the c key walks through.
var columnOrder = []app.ColumnVisibility{
	app.ColumnsAutomatic, app.ColumnsAll, app.ColumnsDouble, app.ColumnsDetailOnly,
}

// New returns an App driving st. The App subscribes to st immediately;
// call Close when done.
func New(st *Store) *App {
	a := &App{
		store:   st,
		changed: make(chan struct{}, 1),
		state:   st.State(),
		cursor:  make(map[app.Tag]int),
	}
	a.unsubscribe = st.Subscribe(a.offer)
	return a
}

// offer records that a commit happened. A pending signal already covers
// it, so a slow renderer never blocks the store.
func (a *App) offer(app.State) {
	select {
	case a.changed <- struct{}{}:
	default:
	}
}

// Close stops receiving state updates.
func (a *App) Close() {
	a.unsubscribe()
}

// Run shows the UI until the user quits or ctx is done.
func Run(ctx context.Context, st *Store) error {
	a := New(st)
	defer a.Close()
	_, err := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (a *App) Init() tea.Cmd {
	a.send(app.Appeared{})
	return a.waitForChange()
}

func (a *App) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-a.changed
		return changedMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case changedMsg:
		a.state = a.store.State()
		a.clampCursor()
		return a, a.waitForChange()
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil
	case tea.KeyMsg:
		if a.input != inputNone {
			return a.handleInputKey(m)
		}
		if _, ok := a.list().Modal.(list.DeleteConfirmation); ok {
			return a.handleConfirmKey(m)
		}
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.status = ""
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "tab":
		a.selectTag(a.nextTag(1))
	case "shift+tab":
		a.selectTag(a.nextTag(-1))
	case "1", "2", "3":
		a.selectTag(app.Tags()[m.String()[0]-'1'])
	case "down", "j":
		a.moveCursor(1)
	case "up", "k":
		a.moveCursor(-1)
	case "enter":
		if row, ok := a.current(); ok {
			a.sendList(list.ShowDetails{ID: row.ID})
			a.sendList(list.Detail{Action: detail.Appeared{}})
		}
	case "esc":
		if a.list().Details != nil {
			a.sendList(list.Detail{Action: detail.Disappeared{}})
			a.sendList(list.DismissDetails{})
		}
	case "d":
		if row, ok := a.current(); ok {
			a.sendList(list.PresentDeleteConfirmation{ID: row.ID})
		}
	case "a":
		a.sendList(list.PresentAdd{})
		if _, ok := a.list().Modal.(list.AddSheet); ok {
			a.input, a.buffer = inputAdd, ""
		} else {
			a.status = a.state.DestinationTag.Title() + " cannot be added to"
		}
	case "r":
		if d := a.list().Details; d != nil {
			a.input, a.buffer = inputRename, d.Draft
		}
	case "/":
		a.input, a.buffer = inputFilter, a.list().Filter
	case "i":
		a.send(app.Binding{BindingAction: engine.Set(app.FieldInspectorVisible, !a.state.InspectorVisible)})
	case "c":
		a.send(app.Binding{BindingAction: engine.Set(app.FieldColumnVisibility, a.nextColumns())})
	}
	return a, nil
}

func (a *App) handleConfirmKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "y", "enter":
		a.sendList(list.ConfirmDelete{})
	case "n", "esc":
		a.sendList(list.DismissDestination{})
	case "ctrl+c":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleInputKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit
	case tea.KeyEsc:
		a.cancelInput()
		return a, nil
	case tea.KeyEnter:
		a.commitInput()
		return a, nil
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if r := []rune(a.buffer); len(r) > 0 {
			a.buffer = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		a.buffer += " "
	case tea.KeyRunes:
		a.buffer += string(m.Runes)
	default:
		return a, nil
	}
	a.bindInput()
	return a, nil
}

// bindInput writes the buffer to the field being edited, so the state
// always shows what is typed.
func (a *App) bindInput() {
	switch a.input {
	case inputFilter:
		a.sendList(list.Binding{BindingAction: engine.Set(list.FieldFilter, a.buffer)})
		a.clampCursor()
	case inputAdd:
		a.sendList(list.Binding{BindingAction: engine.Set(list.FieldAddName, a.buffer)})
	case inputRename:
		a.sendList(list.Detail{Action: detail.Binding{BindingAction: engine.Set(detail.FieldDraftName, a.buffer)}})
	}
}

func (a *App) commitInput() {
	switch a.input {
	case inputAdd:
		a.sendList(list.ConfirmAdd{})
	case inputRename:
		a.sendList(list.Detail{Action: detail.Commit{}})
	}
	a.input, a.buffer = inputNone, ""
}

func (a *App) cancelInput() {
	switch a.input {
	case inputFilter:
		a.buffer = ""
		a.bindInput()
	case inputAdd:
		a.sendList(list.DismissDestination{})
	case inputRename:
		if d := a.list().Details; d != nil {
			a.buffer = d.Label
			a.bindInput()
		}
	}
	a.input, a.buffer = inputNone, ""
}

// send dispatches action and picks up the committed state right away;
// effect results arrive later through the subscription.
func (a *App) send(action app.Action) {
	a.store.Send(action)
	a.state = a.store.State()
}

func (a *App) sendList(action list.Action) {
	a.send(app.Route(a.state.DestinationTag, action))
}

func (a *App) selectTag(tag app.Tag) {
	a.input, a.buffer = inputNone, ""
	a.send(app.SetDestinationTag{Tag: tag})
}

func (a *App) nextTag(step int) app.Tag {
	tags := app.Tags()
	for i, t := range tags {
		if t == a.state.DestinationTag {
			return tags[(i+step+len(tags))%len(tags)]
		}
	}
	return tags[0]
}

func (a *App) nextColumns() app.ColumnVisibility {
	for i, v := range columnOrder {
		if v == a.state.ColumnVisibility {
			return columnOrder[(i+1)%len(columnOrder)]
		}
	}
	return columnOrder[0]
}

func (a *App) list() pane {
	return paneOf(a.state, a.state.DestinationTag)
}

func (a *App) current() (row, bool) {
	rows := a.list().Rows
	i := a.cursor[a.state.DestinationTag]
	if i < 0 || i >= len(rows) {
		return row{}, false
	}
	return rows[i], true
}

func (a *App) moveCursor(step int) {
	a.cursor[a.state.DestinationTag] += step
	a.clampCursor()
}

func (a *App) clampCursor() {
	tag := a.state.DestinationTag
	n := len(a.list().Rows)
	i := a.cursor[tag]
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	a.cursor[tag] = i
}
