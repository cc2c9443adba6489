package format

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// KeyValueTable renders rows of (name, value) pairs under the given headers.
func KeyValueTable(w io.Writer, headers [2]string, rows [][2]string) error {
	data := [][]string{{headers[0], headers[1]}}
	for _, r := range rows {
		data = append(data, []string{r[0], r[1]})
	}
	table, err := pterm.DefaultTable.
		WithHasHeader(true).
		WithHeaderStyle(pterm.NewStyle(pterm.FgCyan, pterm.Bold)).
		WithData(data).
		Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	_, err = fmt.Fprintln(w, table)
	return err
}
