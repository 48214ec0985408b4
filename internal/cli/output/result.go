package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/inference"
)

// Result renders an inference or merge result. With explain set, every
// reason behind each match is listed.
func (r *Renderer) Result(res *inference.Result, explain bool) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(res)
	case ModeMarkdown:
		r.resultMarkdown(res, explain)
	default:
		r.resultText(res, explain)
	}
	return nil
}

func matchTable(res *inference.Result, explain bool) table.Writer {
	t := table.NewWriter()
	header := table.Row{"Source", "Canonical", "Score", "Label"}
	if explain {
		header = append(header, "Reasons")
	}
	t.AppendHeader(header)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Score", Align: text.AlignRight},
	})

	for _, m := range res.Matches {
		row := table.Row{m.Source, m.Canonical, FormatScore(m.Score), m.MatchedLabel}
		if explain {
			row = append(row, strings.Join(m.Reasons, "\n"))
		}
		t.AppendRow(row)
	}
	return t
}

func (r *Renderer) resultText(res *inference.Result, explain bool) {
	s := r.styles

	r.Header(1, fmt.Sprintf("Column matches (%d)", len(res.Matches)))
	if len(res.Matches) == 0 {
		r.Println(s.Muted.Render("  no columns matched"))
	} else {
		t := matchTable(res, explain)
		t.SetStyle(table.StyleLight)
		r.Println(t.Render())
	}

	if len(res.UnmatchedSources) > 0 {
		r.Println()
		r.Header(2, "Unmatched sources")
		for _, src := range res.UnmatchedSources {
			r.StatusLine(src, "warning", "")
		}
	}
	if len(res.MissingTargets) > 0 {
		r.Println()
		r.Header(2, "Missing targets")
		for _, tgt := range res.MissingTargets {
			r.StatusLine(tgt, "error", "")
		}
	}
	r.Println()
	r.Println(s.Muted.Render(Coverage(res)))
	if len(res.RenameMap) > 0 {
		r.Println(s.Muted.Render(fmt.Sprintf("%d column(s) will be renamed", len(res.RenameMap))))
	}
}

// Coverage summarizes how many sources and targets a result matched.
func Coverage(res *inference.Result) string {
	return fmt.Sprintf("%d/%d source columns matched, %d/%d canonical columns filled",
		len(res.Matches), len(res.Sources()), len(res.Matches), len(res.Targets()))
}

func (r *Renderer) resultMarkdown(res *inference.Result, explain bool) {
	r.Println(FormatHeader(1, fmt.Sprintf("Column matches (%d)", len(res.Matches))))
	r.Println()
	if len(res.Matches) == 0 {
		r.Println("_no columns matched_")
	} else {
		t := matchTable(res, false)
		r.Println(t.RenderMarkdown())
	}

	if explain {
		for _, m := range res.Matches {
			r.Println()
			r.Println(FormatHeader(3, fmt.Sprintf("%s → %s", m.Source, m.Canonical)))
			r.Println()
			for _, reason := range m.Reasons {
				r.Println("- " + reason)
			}
		}
	}

	r.markdownList("Unmatched sources", res.UnmatchedSources)
	r.markdownList("Missing targets", res.MissingTargets)
	r.Println()
	r.Println("_" + Coverage(res) + "_")
}

func (r *Renderer) markdownList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	r.Println()
	r.Println(FormatHeader(2, title))
	r.Println()
	for _, item := range items {
		r.Printf("- `%s`\n", item)
	}
}

// FormatScore formats a score with the four decimals used in JSON output.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.4f", score)
}

// Table renders rows as a styled table on a terminal and a markdown table
// otherwise.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	hr := make(table.Row, len(header))
	for i, h := range header {
		hr[i] = h
	}
	t.AppendHeader(hr)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeMarkdown {
		r.Println(t.RenderMarkdown())
		return
	}
	t.SetStyle(table.StyleLight)
	r.Println(t.Render())
}
