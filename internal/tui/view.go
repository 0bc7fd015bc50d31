package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/navsplit/internal/feature/app"
	"github.com/roach88/navsplit/internal/feature/list"
	"github.com/roach88/navsplit/internal/model"
)

// pane is one list flattened for rendering.
type pane struct {
	Rows     []row
	Selected model.ID
	Details  *detailPane
	Modal    list.Destination
	// ModalLabel names the entity a delete confirmation is about.
	ModalLabel string
	Filter     string
}

type row struct {
	ID    model.ID
	Label string
	Extra string
}

type detailPane struct {
	Label      string
	Title      string
	Draft      string
	Activities []string
}

func paneOf(s app.State, tag app.Tag) pane {
	switch tag {
	case app.TagSports:
		return buildPane(s.Sports, nil)
	case app.TagSessions:
		return buildPane(s.Sessions, func(e model.Session) string {
			parts := make([]string, len(e.Measurements))
			for i, m := range e.Measurements {
				parts[i] = m.String()
			}
			return strings.Join(parts, ", ")
		})
	default:
		return buildPane(s.Players, nil)
	}
}

func buildPane[E model.Entity](l list.State[E], extra func(E) string) pane {
	p := pane{Modal: l.Destination, Filter: l.Filter}
	for _, e := range l.Visible() {
		r := row{ID: e.EntityID(), Label: e.Label()}
		if extra != nil {
			r.Extra = extra(e)
		}
		p.Rows = append(p.Rows, r)
	}
	if d, ok := l.Details.Get(); ok {
		p.Selected = d.Entity.EntityID()
		dp := &detailPane{Label: d.Entity.Label(), Title: d.Title(), Draft: d.DraftName}
		for _, act := range d.Activities.Items() {
			dp.Activities = append(dp.Activities, act.Name)
		}
		p.Details = dp
	}
	if c, ok := l.Destination.(list.DeleteConfirmation); ok {
		if e, found := l.Items.Get(c.Target); found {
			p.ModalLabel = e.Label()
		}
	}
	return p
}

// styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	columnStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	activeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(0, 1)
)

const helpLine = "[tab] section  [j/k] move  [enter] show  [esc] close  [a] add  [d] delete  [r] rename  [/] filter  [i] inspector  [c] columns  [q] quit"

func (a *App) View() string {
	p := a.list()

	var cols []string
	switch a.state.ColumnVisibility {
	case app.ColumnsDetailOnly:
		cols = []string{a.renderDetail(p)}
	case app.ColumnsDouble:
		cols = []string{a.renderContent(p), a.renderDetail(p)}
	default:
		cols = []string{a.renderSidebar(), a.renderContent(p), a.renderDetail(p)}
	}
	if a.state.InspectorVisible {
		cols = append(cols, a.renderInspector())
	}

	out := []string{lipgloss.JoinHorizontal(lipgloss.Top, cols...)}
	if modal := a.renderModal(p); modal != "" {
		out = append(out, modal)
	}
	if a.input == inputFilter || a.input == inputRename {
		out = append(out, fmt.Sprintf("%s: %s_", a.input, a.buffer))
	}
	if a.status != "" {
		out = append(out, a.status)
	}
	out = append(out, dimStyle.Render(helpLine))
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func (a *App) renderSidebar() string {
	lines := []string{titleStyle.Render("navsplit")}
	for i, tag := range app.Tags() {
		line := fmt.Sprintf("%d %s", i+1, tag.Title())
		if tag == a.state.DestinationTag {
			line = activeStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return columnStyle.Render(strings.Join(lines, "\n"))
}

func (a *App) renderContent(p pane) string {
	lines := []string{titleStyle.Render(a.state.DestinationTag.Title())}
	if p.Filter != "" {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("filter %q", p.Filter)))
	}
	if len(p.Rows) == 0 {
		lines = append(lines, dimStyle.Render("(empty)"))
	}
	cursor := a.cursor[a.state.DestinationTag]
	for i, r := range p.Rows {
		marker := "  "
		if i == cursor {
			marker = "> "
		}
		text := r.Label
		if r.Extra != "" {
			text += "  " + dimStyle.Render(r.Extra)
		}
		if r.ID == p.Selected && p.Details != nil {
			text = selectedStyle.Render("* " + text)
		}
		lines = append(lines, marker+text)
	}
	return columnStyle.Render(strings.Join(lines, "\n"))
}

func (a *App) renderDetail(p pane) string {
	d := p.Details
	if d == nil {
		return columnStyle.Render(dimStyle.Render("Select an item"))
	}
	lines := []string{titleStyle.Render(d.Title)}
	if d.Draft != d.Label {
		lines = append(lines, fmt.Sprintf("draft: %s", d.Draft))
	}
	if len(d.Activities) > 0 {
		lines = append(lines, "", "Activities")
		for _, name := range d.Activities {
			lines = append(lines, "  "+name)
		}
	}
	return columnStyle.Render(strings.Join(lines, "\n"))
}

func (a *App) renderInspector() string {
	lines := []string{
		titleStyle.Render("Inspector"),
		fmt.Sprintf("columns: %s", a.state.ColumnVisibility),
		fmt.Sprintf("commits: %d", a.store.Seq()),
		"effects:",
	}
	for _, id := range a.store.RunningEffects() {
		lines = append(lines, "  "+string(id))
	}
	return columnStyle.Render(strings.Join(lines, "\n"))
}

func (a *App) renderModal(p pane) string {
	switch m := p.Modal.(type) {
	case list.AddSheet:
		return modalStyle.Render(fmt.Sprintf("New %s\nname: %s_\n[enter] add  [esc] cancel",
			strings.TrimSuffix(strings.ToLower(a.state.DestinationTag.Title()), "s"), m.Name))
	case list.DeleteConfirmation:
		return modalStyle.Render(fmt.Sprintf("Delete %s?\n[y] delete  [n] cancel", p.ModalLabel))
	}
	return ""
}
