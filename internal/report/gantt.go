package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ChuLiYu/cpusched/pkg/types"
	"github.com/mattn/go-runewidth"
)

const idleLabel = "idle"

type ganttCell struct {
	label      string
	start, end int
}

// WriteGantt draws the trace as a one line chart with a time axis below it.
// Idle gaps, including one before the first segment, are drawn as "idle".
func WriteGantt(w io.Writer, trace types.Trace) error {
	if len(trace) == 0 {
		_, err := fmt.Fprintln(w, "(empty trace)")
		return err
	}

	var cells []ganttCell
	clock := 0
	for _, s := range trace {
		if s.Start > clock {
			cells = append(cells, ganttCell{label: idleLabel, start: clock, end: s.Start})
		}
		cells = append(cells, ganttCell{label: s.TaskID, start: s.Start, end: s.End})
		clock = s.End
	}

	// barWidth counts terminal columns; labels may hold wide characters
	var bar, axis strings.Builder
	bar.WriteString("|")
	barWidth := 1
	axis.WriteString(strconv.Itoa(cells[0].start))

	for _, c := range cells {
		mark := strconv.Itoa(c.end)
		labelWidth := runewidth.StringWidth(c.label)
		width := max(labelWidth+2, len(mark)+1, 4)
		pad := width - labelWidth
		left := pad / 2

		bar.WriteString(strings.Repeat(" ", left))
		bar.WriteString(c.label)
		bar.WriteString(strings.Repeat(" ", pad-left))
		bar.WriteString("|")
		barWidth += width + 1

		gap := max(barWidth-len(mark)-axis.Len(), 1)
		axis.WriteString(strings.Repeat(" ", gap))
		axis.WriteString(mark)
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n", bar.String(), axis.String())
	return err
}
