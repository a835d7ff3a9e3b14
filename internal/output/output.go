package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeHuman  Mode = "human"
	ModePlain  Mode = "plain"
	ModeJSON   Mode = "json"
	ModeNDJSON Mode = "ndjson"
)

func (m Mode) Machine() bool {
	return m == ModeJSON || m == ModeNDJSON
}

type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	Count     int    `json:"count,omitempty"`
	Cursor    string `json:"next_cursor,omitempty"`
}

type Envelope struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

type ErrorBody struct {
	Error     string `json:"error"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func DetectMode(jsonFlag, plainFlag, ndjsonFlag bool, stdoutIsTTY bool) (Mode, error) {
	selected := 0
	for _, on := range []bool{jsonFlag, plainFlag, ndjsonFlag} {
		if on {
			selected++
		}
	}
	if selected > 1 {
		return "", errors.New("--json, --plain and --ndjson are mutually exclusive")
	}
	switch {
	case ndjsonFlag:
		return ModeNDJSON, nil
	case jsonFlag:
		return ModeJSON, nil
	case plainFlag || !stdoutIsTTY:
		return ModePlain, nil
	}
	return ModeHuman, nil
}

func IsTTY(stream any) bool {
	f, ok := stream.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func WriteJSON(out io.Writer, data any, meta Meta) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(Envelope{Data: data, Meta: meta})
}

func WriteError(out io.Writer, body ErrorBody) error {
	return json.NewEncoder(out).Encode(body)
}

func WriteNDJSON[T any](out io.Writer, items []T) error {
	enc := json.NewEncoder(out)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

func WriteYAML(out io.Writer, data any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

func WritePlain(out io.Writer, rows [][]string) error {
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = sanitizeCell(cell)
		}
		if _, err := fmt.Fprintln(out, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func WriteTable(out io.Writer, headers []string, rows [][]string) error {
	cols := len(headers)
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return nil
	}
	widths := make([]int, cols)
	measure := func(row []string) {
		for i := range row {
			widths[i] = max(widths[i], lipgloss.Width(sanitizeCell(row[i])))
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}
	if len(headers) > 0 {
		if err := writeTableRow(out, headers, widths); err != nil {
			return err
		}
		separator := make([]string, cols)
		for i, width := range widths {
			separator[i] = strings.Repeat("-", width)
		}
		if err := writeTableRow(out, separator, widths); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err := writeTableRow(out, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func writeTableRow(out io.Writer, row []string, widths []int) error {
	var b strings.Builder
	for i, width := range widths {
		if i > 0 {
			b.WriteString("  ")
		}
		cell := ""
		if i < len(row) {
			cell = sanitizeCell(row[i])
		}
		b.WriteString(cell)
		if i < len(widths)-1 {
			if padding := width - lipgloss.Width(cell); padding > 0 {
				b.WriteString(strings.Repeat(" ", padding))
			}
		}
	}
	_, err := fmt.Fprintln(out, strings.TrimRight(b.String(), " "))
	return err
}

func sanitizeCell(value string) string {
	replacer := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ")
	return strings.TrimSpace(replacer.Replace(value))
}
