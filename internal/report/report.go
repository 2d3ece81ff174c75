// Package report renders component descriptions as aligned tables or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/agentx-labs/plugx/internal/plugin"
)

// Column names, as accepted by Options.Columns.
const (
	ColumnOrder       = "order"
	ColumnActivated   = "x"
	ColumnName        = "name"
	ColumnPackage     = "package"
	ColumnVersion     = "version"
	ColumnLocation    = "location"
	ColumnDescription = "description"
)

// AllColumns lists every column in display order.
var AllColumns = []string{
	ColumnOrder, ColumnActivated, ColumnName, ColumnPackage, ColumnVersion, ColumnLocation, ColumnDescription,
}

// DefaultColumns are always displayed.
var DefaultColumns = []string{ColumnOrder, ColumnActivated, ColumnName}

type column struct {
	label   string
	extract func(plugin.Info) string
}

var columns = map[string]column{
	ColumnOrder:     {"Order", func(i plugin.Info) string { return strconv.Itoa(i.Priority) }},
	ColumnActivated: {"X", func(i plugin.Info) string { return marker(i.Activated) }},
	ColumnName: {"Name", func(i plugin.Info) string {
		return strings.Repeat("  ", i.Level) + i.Name
	}},
	ColumnPackage:     {"Package", func(i plugin.Info) string { return i.Package }},
	ColumnVersion:     {"Version", func(i plugin.Info) string { return i.Version }},
	ColumnLocation:    {"Location", func(i plugin.Info) string { return i.Location }},
	ColumnDescription: {"Description", func(i plugin.Info) string { return i.Description }},
}

func marker(activated bool) string {
	if activated {
		return "X"
	}
	return ""
}

// Options selects what Write renders.
type Options struct {
	// Title is printed above the table.
	Title string
	// Columns are displayed in addition to DefaultColumns.
	Columns []string
	JSON    bool
	// Color highlights the header and the activated rows.
	Color bool
}

// Write renders infos to w.
func Write(w io.Writer, infos []plugin.Info, opts Options) error {
	if opts.JSON {
		if infos == nil {
			infos = []plugin.Info{}
		}
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	selected, err := selectColumns(opts.Columns)
	if err != nil {
		return err
	}

	header := color.New(color.Bold)
	active := color.New(color.FgGreen)
	if !opts.Color {
		header.DisableColor()
		active.DisableColor()
	}

	if opts.Title != "" {
		if _, err := header.Fprintf(w, "%s:\n\n", opts.Title); err != nil {
			return err
		}
	}
	if len(infos) == 0 {
		_, err := fmt.Fprintln(w, "  <empty>")
		return err
	}

	rows := make([][]string, len(infos))
	widths := make([]int, len(selected))
	labels := make([]string, len(selected))
	rules := make([]string, len(selected))
	for i, name := range selected {
		labels[i] = columns[name].label
		widths[i] = len(labels[i])
	}
	for r, info := range infos {
		rows[r] = make([]string, len(selected))
		for i, name := range selected {
			rows[r][i] = columns[name].extract(info)
			widths[i] = max(widths[i], len(rows[r][i]))
		}
	}
	for i := range selected {
		rules[i] = strings.Repeat("-", widths[i])
	}

	if _, err := header.Fprintln(w, "  "+pad(selected, labels, widths)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "  "+pad(selected, rules, widths)); err != nil {
		return err
	}
	for r, info := range infos {
		line := "  " + pad(selected, rows[r], widths)
		if info.Activated {
			line = active.Sprint(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// pad aligns fields on widths: the order column to the right, the others
// to the left. Trailing blanks are trimmed.
func pad(selected, fields []string, widths []int) string {
	cells := make([]string, len(fields))
	for i, f := range fields {
		fill := strings.Repeat(" ", widths[i]-len(f))
		if selected[i] == ColumnOrder {
			cells[i] = fill + f
		} else {
			cells[i] = f + fill
		}
	}
	return strings.TrimRight(strings.Join(cells, " "), " ")
}

// selectColumns returns the default columns plus extra, in display order.
func selectColumns(extra []string) ([]string, error) {
	wanted := slices.Clone(DefaultColumns)
	for _, name := range extra {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		wanted = append(wanted, name)
	}

	var selected []string
	for _, name := range AllColumns {
		if slices.Contains(wanted, name) {
			selected = append(selected, name)
		}
	}
	return selected, nil
}
