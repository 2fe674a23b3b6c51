package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/kdelane/enginectl/internal/engine"
)

// FormatTime renders a timestamp compactly (YYYY-MM-DD HH:MM), or ""
// for the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// valueOrNA substitutes "N/A" for empty detail fields.
func valueOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// RenderAgentTable renders agents as an aligned table.
func RenderAgentTable(agents []engine.Agent) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDISPLAY NAME\tCREATED\tUPDATED\tIDENTITY")
	for _, a := range agents {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			a.ID(), a.DisplayName, FormatTime(a.CreateTime), FormatTime(a.UpdateTime), valueOrNA(a.EffectiveIdentity()))
	}
	w.Flush()
	return b.String()
}

// RenderAgentDetail renders one agent as a bordered detail panel.
func RenderAgentDetail(a engine.Agent) string {
	key := Styles.Key.Render
	lines := []string{
		Styles.Title.Render("Agent Details"),
		"",
		key("Name:        ") + a.ID(),
		key("Display:     ") + valueOrNA(a.DisplayName),
		key("Description: ") + valueOrNA(a.Description),
		key("Created:     ") + valueOrNA(FormatTime(a.CreateTime)),
		key("Updated:     ") + valueOrNA(FormatTime(a.UpdateTime)),
		key("Identity:    ") + valueOrNA(a.EffectiveIdentity()),
	}
	return Styles.Panel.Render(strings.Join(lines, "\n"))
}

// RenderSessionTable renders sessions as an aligned table.
func RenderSessionTable(sessions []engine.Session) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tUSER\tCREATED\tUPDATED")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID(), s.UserID, FormatTime(s.CreateTime), FormatTime(s.UpdateTime))
	}
	w.Flush()
	return b.String()
}

// RenderSandboxTable renders sandboxes as an aligned table.
func RenderSandboxTable(sandboxes []engine.Sandbox) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SANDBOX\tDISPLAY NAME\tSTATE\tCREATED\tEXPIRES")
	for _, s := range sandboxes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.ID(), s.DisplayName, s.State, FormatTime(s.CreateTime), FormatTime(s.ExpireTime))
	}
	w.Flush()
	return b.String()
}

// RenderMemoryTable renders memories as an aligned table, truncating
// long facts.
func RenderMemoryTable(memories []engine.Memory) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MEMORY\tFACT\tCREATED")
	for _, m := range memories {
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID(), truncate(m.Fact, 60), FormatTime(m.CreateTime))
	}
	w.Flush()
	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
