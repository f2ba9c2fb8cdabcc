// Package taskfile loads task sets from JSON, YAML or CSV files.
//
// CSV rows are "id,arrival_time,burst_time[,priority]"; a first row whose
// arrival column is not numeric is treated as a header.
package taskfile

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ChuLiYu/cpusched/pkg/types"
	"gopkg.in/yaml.v3"
)

// Format is a task file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ErrUnsupportedFormat is returned for unknown file extensions
var ErrUnsupportedFormat = errors.New("taskfile: unsupported format")

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and decodes the task file at path
func Load(path string) ([]types.Task, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}

	tasks, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tasks, nil
}

// Decode parses tasks from r
func Decode(r io.Reader, format Format) ([]types.Task, error) {
	switch format {
	case FormatJSON:
		var tasks []types.Task
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&tasks); err != nil {
			return nil, fmt.Errorf("failed to parse task JSON: %w", err)
		}
		return tasks, nil

	case FormatYAML:
		var tasks []types.Task
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&tasks); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse task YAML: %w", err)
		}
		return tasks, nil

	case FormatCSV:
		return decodeCSV(r)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
}

func decodeCSV(r io.Reader) ([]types.Task, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var tasks []types.Task
	for first := true; ; first = false {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse task CSV: %w", err)
		}

		if first && len(row) > 1 {
			if _, err := strconv.Atoi(strings.TrimSpace(row[1])); err != nil {
				continue // header
			}
		}

		// file line, comments and blank lines included
		line, _ := reader.FieldPos(0)

		task, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func parseRow(row []string) (types.Task, error) {
	if len(row) < 3 || len(row) > 4 {
		return types.Task{}, fmt.Errorf("expected 3 or 4 fields, got %d", len(row))
	}

	field := func(name, value string) (int, error) {
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("%s %q is not an integer", name, value)
		}
		return v, nil
	}

	task := types.Task{ID: strings.TrimSpace(row[0])}
	var err error
	if task.ArrivalTime, err = field("arrival_time", row[1]); err != nil {
		return types.Task{}, err
	}
	if task.BurstTime, err = field("burst_time", row[2]); err != nil {
		return types.Task{}, err
	}
	if len(row) == 4 && strings.TrimSpace(row[3]) != "" {
		pr, err := field("priority", row[3])
		if err != nil {
			return types.Task{}, err
		}
		task.Priority = types.Int(pr)
	}
	return task, nil
}
