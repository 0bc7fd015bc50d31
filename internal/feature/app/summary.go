package app

import (
	"fmt"
	"strings"

	"github.com/roach88/navsplit/internal/feature/list"
	"github.com/roach88/navsplit/internal/model"
)

// Summary renders a deterministic plain-text digest of s. Golden scenario
// files and the CLI print it; it contains no identifiers that vary between
// runs of the same scenario.
func Summary(s State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "destination: %s\n", s.DestinationTag)
	fmt.Fprintf(&b, "inspector_visible: %t\n", s.InspectorVisible)
	fmt.Fprintf(&b, "column_visibility: %s\n", s.ColumnVisibility)

	writeList(&b, TagPlayers, s.Players, nil)
	writeList(&b, TagSports, s.Sports, nil)
	writeList(&b, TagSessions, s.Sessions, func(e model.Session) string {
		parts := make([]string, len(e.Measurements))
		for i, m := range e.Measurements {
			parts[i] = m.String()
		}
		return strings.Join(parts, ", ")
	})
	return b.String()
}

func writeList[E model.Entity](b *strings.Builder, tag Tag, s list.State[E], extra func(E) string) {
	fmt.Fprintf(b, "\n[%s] %d\n", tag, s.Items.Len())

	selected, hasSelection := s.Selected()
	for _, e := range s.Items.Items() {
		marker := " "
		if hasSelection && e.EntityID() == selected {
			marker = "*"
		}
		line := fmt.Sprintf("  %s %s", marker, e.Label())
		if extra != nil {
			if x := extra(e); x != "" {
				line += "  " + x
			}
		}
		b.WriteString(line + "\n")
	}

	if s.Filter != "" {
		fmt.Fprintf(b, "  filter: %q (%d visible)\n", s.Filter, len(s.Visible()))
	}

	if d, ok := s.Details.Get(); ok {
		fmt.Fprintf(b, "  details: %s (draft %q)\n", d.Entity.Label(), d.DraftName)
		if d.Activities.Len() > 0 {
			names := make([]string, 0, d.Activities.Len())
			for _, a := range d.Activities.Items() {
				names = append(names, a.Name)
			}
			fmt.Fprintf(b, "    activities: %s\n", strings.Join(names, ", "))
		}
	} else {
		b.WriteString("  details: none\n")
	}

	switch dest := s.Destination.(type) {
	case list.AddSheet:
		fmt.Fprintf(b, "  destination: add %q\n", dest.Name)
	case list.DeleteConfirmation:
		label := "?"
		if e, ok := s.Items.Get(dest.Target); ok {
			label = e.Label()
		}
		fmt.Fprintf(b, "  destination: confirm delete %s\n", label)
	}
}
