package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"schoolnet/cohort/internal/composition"
	"schoolnet/cohort/internal/orchestrate"
)

const (
	memberPreview = 8
	labelWidth    = 24
	rule          = "────────────────────────────────────────"
)

// TextReporter prints a human-readable report
type TextReporter struct {
	w        io.Writer
	heading  lipgloss.Style
	emphasis lipgloss.Style
	warn     lipgloss.Style
}

// NewText returns a TextReporter. Styling degrades to plain text when w is not a terminal.
func NewText(w io.Writer) *TextReporter {
	r := lipgloss.NewRenderer(w)
	return &TextReporter{
		w:        w,
		heading:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF")),
		emphasis: r.NewStyle().Bold(true),
		warn:     r.NewStyle().Foreground(lipgloss.Color("#FFAA00")),
	}
}

func (t *TextReporter) Report(rep *orchestrate.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n  Run %s  %s  (%s)\n", rep.RunID, rep.GeneratedAt.Format("2006-01-02 15:04:05Z"),
		orchestrate.FormatDurationShort(rep.DurationMs))
	fmt.Fprintf(&b, "  Resolution: %g\n", rep.Resolution)

	for _, vr := range rep.Variants() {
		if vr != nil {
			t.writeVariant(&b, vr)
		}
	}

	if rep.Unweighted != nil && rep.Weighted != nil {
		delta, same := orchestrate.CompareVariants(rep)
		fmt.Fprintf(&b, "\n  %s\n  %s\n", t.heading.Render("COMPARISON"), rule)
		fmt.Fprintf(&b, "  Modularity: unweighted=%.4f weighted=%.4f (delta %+.4f)\n",
			rep.Unweighted.Modularity, rep.Weighted.Modularity, delta)
		if same {
			b.WriteString("  Both variants found the same communities\n")
		} else {
			fmt.Fprintf(&b, "  Communities: unweighted=%d weighted=%d, assignments differ\n",
				rep.Unweighted.Communities, rep.Weighted.Communities)
		}
	}

	if len(rep.Warnings) > 0 {
		fmt.Fprintf(&b, "\n  %s\n", t.warn.Render(fmt.Sprintf("WARNINGS (%d)", len(rep.Warnings))))
		for _, w := range rep.Warnings {
			fmt.Fprintf(&b, "    - %s\n", w)
		}
	}
	b.WriteString("\n")

	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *TextReporter) writeVariant(b *strings.Builder, vr *orchestrate.VariantReport) {
	fmt.Fprintf(b, "\n  %s\n  %s\n", t.heading.Render(strings.ToUpper(vr.Variant.String())), rule)

	if top := vr.Topology; top != nil {
		fmt.Fprintf(b, "  Nodes: %s  Edges: %s  Components: %d  Isolated: %d\n",
			humanize.Comma(int64(top.TotalNodes)), humanize.Comma(int64(top.TotalEdges)),
			top.NumComponents, top.IsolatedCount)
	}
	converged := "converged"
	if !vr.Converged {
		converged = "stopped at bound"
	}
	fmt.Fprintf(b, "  Communities: %s  Modularity: %s  Levels: %d  Sweeps: %d  (%s, %s)\n",
		humanize.Comma(int64(vr.Communities)), t.emphasis.Render(fmt.Sprintf("%.4f", vr.Modularity)),
		vr.Levels, vr.Sweeps, converged, orchestrate.FormatDurationShort(vr.DurationMs))

	for _, s := range vr.Summaries {
		fmt.Fprintf(b, "\n  Community %d (%s members)\n", s.CommunityID, humanize.Comma(int64(s.Size)))
		fmt.Fprintf(b, "    members: %s\n", previewMembers(s.Members))
		for _, field := range sortedFields(s.Distributions) {
			fmt.Fprintf(b, "    %s: %s", field, formatCounts(s.Distributions[field]))
			if v, n := s.Dominant(field); n > 0 {
				fmt.Fprintf(b, "  (mostly %s, %.0f%%)", v, 100*float64(n)/float64(s.Size))
			}
			b.WriteString("\n")
		}
		if s.Unlabeled > 0 {
			fmt.Fprintf(b, "    %s\n", t.warn.Render(fmt.Sprintf("%d without metadata", s.Unlabeled)))
		}
	}

	if br := vr.Bridges; br != nil && (len(br.Links) > 0 || br.BridgeCount > 0) {
		fmt.Fprintf(b, "\n  Links between communities\n")
		for _, l := range br.Links {
			fragile := ""
			if l.Fragile {
				fragile = "  " + t.warn.Render("fragile")
			}
			fmt.Fprintf(b, "    %d <-> %d: %d edges (weight %g)%s\n", l.A, l.B, l.Edges, l.Weight, fragile)
		}
		if br.BridgeCount > 0 {
			fmt.Fprintf(b, "    %d bridge edges, %d articulation points\n", br.BridgeCount, br.APCount)
			for _, e := range br.BridgeEdges {
				fmt.Fprintf(b, "      %s -- %s\n", orchestrate.TruncateMiddle(e.Source, labelWidth),
					orchestrate.TruncateMiddle(e.Target, labelWidth))
			}
		}
	}

	for _, ct := range vr.Crosstabs {
		if len(ct.Categories) == 0 {
			continue
		}
		fmt.Fprintf(b, "\n  %s by community\n", ct.Field)
		b.WriteString(indent(crosstabTable(ct), "  "))
		b.WriteString("\n")
	}
}

// crosstabTable renders communities as rows and categories as columns,
// the tabular form of a stacked bar chart.
func crosstabTable(ct composition.Table) string {
	headers := append([]string{"community"}, ct.Categories...)
	headers = append(headers, "total")

	tbl := table.New().Border(lipgloss.NormalBorder()).Headers(headers...)
	for i, row := range ct.Rows {
		cells := make([]string, 0, len(row)+2)
		cells = append(cells, fmt.Sprintf("%d", ct.Communities[i]))
		total := 0
		for _, n := range row {
			cells = append(cells, fmt.Sprintf("%d", n))
			total += n
		}
		cells = append(cells, fmt.Sprintf("%d", total))
		tbl.Row(cells...)
	}
	return tbl.String()
}

func previewMembers(members []string) string {
	limit := memberPreview
	if len(members) < limit {
		limit = len(members)
	}
	shown := make([]string, limit)
	for i, id := range members[:limit] {
		shown[i] = orchestrate.TruncateMiddle(id, labelWidth)
	}
	out := strings.Join(shown, ", ")
	if len(members) > limit {
		out += fmt.Sprintf(" ... and %d more", len(members)-limit)
	}
	return out
}

func sortedFields(d map[string]map[string]int) []string {
	fields := make([]string, 0, len(d))
	for f := range d {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// formatCounts prints value=count pairs, most frequent first
func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "-"
	}
	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		if counts[values[i]] != counts[values[j]] {
			return counts[values[i]] > counts[values[j]]
		}
		return values[i] < values[j]
	})
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%s=%d", v, counts[v])
	}
	return strings.Join(parts, " ")
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
