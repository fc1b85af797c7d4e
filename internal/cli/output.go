// internal/cli/output.go
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validateFormat(f string) error {
	switch f {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", f)
}

// printer renders v in the selected format. rows supplies the table view.
type printer struct {
	w      io.Writer
	format string
}

func (p printer) print(v interface{}, header []string, rows [][]string) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

// message prints a one-line confirmation; structured formats get an object.
func (p printer) message(msg string, extra map[string]interface{}) error {
	if p.format == formatTable {
		_, err := fmt.Fprintln(p.w, msg)
		return err
	}
	out := map[string]interface{}{"message": msg}
	for k, v := range extra {
		out[k] = v
	}
	return p.print(out, nil, nil)
}
