package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/corey/remark/internal/adapters/docx"
	"github.com/corey/remark/internal/app"
	"github.com/corey/remark/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// palette returns paint, which wraps s in code when color is on.
func palette(color bool) func(code, s string) string {
	return func(code, s string) string {
		if !color {
			return s
		}
		return code + s + colorReset
	}
}

// formatReport formats one annotation run.
//
//	⚡ 5 comments │ 12 paragraphs │ 2 cleared │ 3ms
//	  fund      3
//	  raising   2
//	  → report.reviewed.docx
func formatReport(rep *app.Report, color bool) string {
	paint := palette(color)
	run := rep.Run
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s │ %d paragraphs │ %d cleared │ %s",
		paint(colorBold, fmt.Sprintf("⚡ %d comments", run.Annotations)),
		run.Paragraphs, run.Cleared, run.Duration.Round(time.Microsecond))
	if rep.Previous != nil {
		sb.WriteString(paint(colorGray, fmt.Sprintf(" │ last run %d", rep.Previous.Annotations)))
	}
	sb.WriteString("\n")
	sb.WriteString(formatPerTerm(run.PerTerm, paint))
	fmt.Fprintf(&sb, "  → %s\n", paint(colorCyan, run.Output))
	return sb.String()
}

// formatPerTerm lists counts by term, most frequent first.
func formatPerTerm(perTerm map[string]int, paint func(code, s string) string) string {
	terms := make([]string, 0, len(perTerm))
	width := 0
	for t := range perTerm {
		terms = append(terms, t)
		if n := len([]rune(t)); n > width {
			width = n
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if perTerm[terms[i]] != perTerm[terms[j]] {
			return perTerm[terms[i]] > perTerm[terms[j]]
		}
		return terms[i] < terms[j]
	})
	var sb strings.Builder
	for _, t := range terms {
		pad := strings.Repeat(" ", width-len([]rune(t)))
		fmt.Fprintf(&sb, "  %s%s  %d\n", paint(colorGreen, t), pad, perTerm[t])
	}
	return sb.String()
}

// formatMatches prints each matched term, in dictionary order, with its
// start offsets.
//
//	fund     @2 @17
func formatMatches(terms []string, matches map[string][]int, color bool) string {
	paint := palette(color)
	var sb strings.Builder
	for _, t := range terms {
		starts, ok := matches[t]
		if !ok {
			continue
		}
		offs := make([]string, len(starts))
		for i, s := range starts {
			offs[i] = fmt.Sprintf("@%d", s)
		}
		fmt.Fprintf(&sb, "%s  %s\n", paint(colorGreen, t), paint(colorGray, strings.Join(offs, " ")))
	}
	return sb.String()
}

// formatOverlaps prints the dictionary check report.
func formatOverlaps(terms int, overlaps []ports.Overlap, color bool) string {
	paint := palette(color)
	var sb strings.Builder
	if len(overlaps) == 0 {
		fmt.Fprintf(&sb, "%s │ %d terms │ no overlaps\n", paint(colorBold, "⚡ dictionary ok"), terms)
		return sb.String()
	}
	fmt.Fprintf(&sb, "%s │ %d terms\n", paint(colorBold, fmt.Sprintf("⚡ %d overlaps", len(overlaps))), terms)
	for _, o := range overlaps {
		note := ""
		switch {
		case o.Duplicate:
			note = paint(colorYellow, "duplicate, first spelling wins")
		case o.Prefix:
			note = paint(colorGray, "prefix")
		default:
			note = paint(colorGray, fmt.Sprintf("at %d", o.Offset))
		}
		fmt.Fprintf(&sb, "  %q ⊃ %q  %s\n", o.Outer, o.Inner, note)
	}
	return sb.String()
}

// formatComments lists existing comments.
func formatComments(list []ports.Annotation, color bool) string {
	paint := palette(color)
	var sb strings.Builder
	for _, a := range list {
		fmt.Fprintf(&sb, "%s  %s  %s\n",
			paint(colorCyan, fmt.Sprintf("#%d", a.ID)),
			paint(colorMagenta, a.Author),
			strings.ReplaceAll(a.Text, "\n", " ⏎ "))
	}
	return sb.String()
}

// formatImages lists embedded pictures.
func formatImages(images []docx.Image, color bool) string {
	paint := palette(color)
	var sb strings.Builder
	for _, img := range images {
		part := img.Part
		if part == "" {
			part = paint(colorYellow, "(missing)")
		}
		fmt.Fprintf(&sb, "¶%d  %s  %s\n", img.Paragraph, paint(colorGray, img.RelID), part)
	}
	return sb.String()
}

// formatHistory lists recorded runs, oldest first.
func formatHistory(runs []*ports.RunRecord, color bool) string {
	paint := palette(color)
	var sb strings.Builder
	for _, r := range runs {
		ids := "-"
		if r.FirstID > 0 {
			ids = fmt.Sprintf("#%d–#%d", r.FirstID, r.LastID)
		}
		fmt.Fprintf(&sb, "%s  %s  %3d comments  %3d cleared  %s  %s\n",
			paint(colorGray, r.StartedAt.Local().Format("2006-01-02 15:04:05")),
			paint(colorMagenta, r.Author),
			r.Annotations, r.Cleared, ids,
			paint(colorGray, r.ID[:min(8, len(r.ID))]))
	}
	return sb.String()
}
