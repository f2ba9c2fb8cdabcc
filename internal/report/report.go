// ============================================================================
// cpusched Report - Rendering simulation results
// ============================================================================
//
// Package: internal/report
// File: report.go
// Purpose: Turn a types.Report into something a person (or another tool) reads.
//          The engine never formats output; everything here consumes its results.
//
// Formats:
//   table - per-task table with averages footer, statistics, optional Gantt chart
//   json  - the full report
//   yaml  - the full report
//   csv   - the execution trace, one segment per row
//
// ============================================================================

package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ChuLiYu/cpusched/pkg/types"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Format is an output format
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

// ErrUnknownFormat is returned by ParseFormat
var ErrUnknownFormat = errors.New("report: unknown output format")

// ParseFormat validates an output format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatTable, FormatJSON, FormatYAML, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Write renders report in format. gantt only applies to the table format.
func Write(w io.Writer, r *types.Report, format Format, gantt bool) error {
	switch format {
	case FormatTable:
		if err := WriteTable(w, r); err != nil {
			return err
		}
		if gantt {
			if _, err := fmt.Fprintln(w, "\nGantt chart"); err != nil {
				return err
			}
			return WriteGantt(w, r.Trace)
		}
		return nil
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return yaml.NewEncoder(w).Encode(r)
	case FormatCSV:
		return WriteTraceCSV(w, r.Trace)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// WriteTable prints the per-task results with an averages footer and the
// schedule statistics
func WriteTable(w io.Writer, r *types.Report) error {
	title := r.Algorithm.DisplayName()
	if r.Quantum > 0 {
		title = fmt.Sprintf("%s (quantum=%d)", title, r.Quantum)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"ID", "Arrival", "Burst", "Priority", "Completion", "Turnaround", "Waiting"})
	for _, t := range r.Tasks {
		table.Append([]string{
			t.ID,
			strconv.Itoa(t.ArrivalTime),
			strconv.Itoa(t.BurstTime),
			optional(t.Priority),
			optional(t.CompletionTime),
			optional(t.TurnaroundTime),
			optional(t.WaitingTime),
		})
	}
	table.SetFooter([]string{"", "", "", "", "Average",
		fmt.Sprintf("%.2f", r.Averages.AvgTurnaround),
		fmt.Sprintf("%.2f", r.Averages.AvgWaiting),
	})
	table.Render()

	_, err := fmt.Fprintf(w, "Makespan: %d  Idle: %d  Context switches: %d  Utilization: %.1f%%  Throughput: %.3f/t\n",
		r.Stats.Makespan,
		r.Stats.IdleTime,
		r.Stats.ContextSwitches,
		r.Stats.Utilization*100,
		r.Stats.Throughput,
	)
	return err
}

// WriteComparison prints one row per report, for side by side comparison
func WriteComparison(w io.Writer, reports []*types.Report) error {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Algorithm", "Avg TAT", "Avg WT", "Makespan", "Idle", "Switches", "Utilization"})
	for _, r := range reports {
		name := r.Algorithm.DisplayName()
		if r.Quantum > 0 {
			name = fmt.Sprintf("%s (q=%d)", name, r.Quantum)
		}
		table.Append([]string{
			name,
			fmt.Sprintf("%.2f", r.Averages.AvgTurnaround),
			fmt.Sprintf("%.2f", r.Averages.AvgWaiting),
			strconv.Itoa(r.Stats.Makespan),
			strconv.Itoa(r.Stats.IdleTime),
			strconv.Itoa(r.Stats.ContextSwitches),
			fmt.Sprintf("%.1f%%", r.Stats.Utilization*100),
		})
	}
	table.Render()
	return nil
}

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteTraceCSV writes one row per execution segment
func WriteTraceCSV(w io.Writer, trace types.Trace) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"task_id", "task_index", "start", "end", "duration"}); err != nil {
		return err
	}
	for _, s := range trace {
		rec := []string{
			s.TaskID,
			strconv.Itoa(s.TaskIndex),
			strconv.Itoa(s.Start),
			strconv.Itoa(s.End),
			strconv.Itoa(s.Duration()),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func optional(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

// WriteAlgorithms lists the available strategies and what each one requires
func WriteAlgorithms(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Name", "Algorithm", "Quantum", "Priority"})
	for _, alg := range types.Algorithms() {
		table.Append([]string{
			alg.String(),
			alg.DisplayName(),
			yesNo(alg.NeedsQuantum()),
			yesNo(alg.NeedsPriority()),
		})
	}
	table.Render()
	return nil
}

func yesNo(b bool) string {
	if b {
		return "required"
	}
	return "-"
}
