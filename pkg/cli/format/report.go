package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pterm/pterm"

	"github.com/rzbill/ultranode/pkg/playbook"
)

// ReportPrinter writes lint results for an operator.
type ReportPrinter struct {
	out io.Writer
}

// NewReportPrinter returns a printer writing to out.
func NewReportPrinter(out io.Writer) *ReportPrinter {
	return &ReportPrinter{out: out}
}

// Banner announces how many playbooks are about to be checked.
func (p *ReportPrinter) Banner(count int) {
	line := Divider("#")
	fmt.Fprintf(p.out, "\n%s\n", line)
	fmt.Fprintln(p.out, Header("# ANSIBLE PLAYBOOK VALIDATOR"))
	fmt.Fprintf(p.out, "# Found %d playbook(s) to validate\n", count)
	fmt.Fprintln(p.out, line)
}

// Result prints one file: its header, each check's notes, then the summary.
func (p *ReportPrinter) Result(res *playbook.Result) {
	line := Divider("=")
	fmt.Fprintf(p.out, "\n%s\n", line)
	fmt.Fprintf(p.out, "Validating: %s\n", res.File)
	fmt.Fprintf(p.out, "%s\n\n", line)

	for _, cr := range res.Checks {
		for _, n := range cr.Notes {
			fmt.Fprintln(p.out, noteLine(n))
		}
	}

	fmt.Fprintf(p.out, "\n%s\n", line)
	fmt.Fprintln(p.out, Header("VALIDATION SUMMARY"))
	fmt.Fprintf(p.out, "%s\n\n", line)

	if len(res.Issues) > 0 {
		fmt.Fprintln(p.out, Error("Found %d critical issues:", len(res.Issues)))
		for _, f := range res.Issues {
			fmt.Fprintf(p.out, "  %s %s\n", ErrorSymbol, f.Message)
		}
		fmt.Fprintln(p.out)
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintln(p.out, Warning("Found %d warnings:", len(res.Warnings)))
		for _, f := range res.Warnings {
			fmt.Fprintf(p.out, "  %s %s\n", WarningSymbol, f.Message)
		}
		fmt.Fprintln(p.out)
	}

	switch {
	case !res.Passed():
		fmt.Fprintln(p.out, Error("Playbook validation FAILED"))
	case len(res.Warnings) > 0:
		fmt.Fprintln(p.out, Success("Playbook validation passed (with warnings)"))
	default:
		fmt.Fprintln(p.out, Success("Playbook validation passed with no issues!"))
	}
}

func noteLine(n playbook.Note) string {
	switch n.Kind {
	case playbook.NoteSuccess:
		return Success("%s", n.Text)
	case playbook.NoteAdvisory:
		return Warning("%s", n.Text)
	case playbook.NoteDetail:
		return n.Text
	default:
		return Info("%s", n.Text)
	}
}

// Summary prints the final PASS/FAIL table, sorted by file name, and totals.
func (p *ReportPrinter) Summary(rep *playbook.Report) error {
	line := Divider("#")
	fmt.Fprintf(p.out, "\n%s\n", line)
	fmt.Fprintln(p.out, Header("# FINAL SUMMARY"))
	fmt.Fprintf(p.out, "%s\n\n", line)

	results := make([]*playbook.Result, len(rep.Results))
	copy(results, rep.Results)
	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })

	rows := [][]string{{"STATUS", "PLAYBOOK", "ISSUES", "WARNINGS"}}
	for _, res := range results {
		status := SuccessColor.Sprint("PASS")
		if !res.Passed() {
			status = ErrorColor.Sprint("FAIL")
		}
		rows = append(rows, []string{status, res.File, fmt.Sprint(len(res.Issues)), fmt.Sprint(len(res.Warnings))})
	}

	table, err := pterm.DefaultTable.
		WithHasHeader(true).
		WithHeaderStyle(pterm.NewStyle(pterm.FgCyan, pterm.Bold)).
		WithData(rows).
		Srender()
	if err != nil {
		return fmt.Errorf("failed to render summary table: %w", err)
	}
	fmt.Fprintln(p.out, table)

	fmt.Fprintf(p.out, "\n%s | %s\n",
		Success("Passed: %d", rep.Passed),
		Error("Failed: %d", rep.Failed))
	return nil
}

// JSON writes the report as indented JSON.
func (p *ReportPrinter) JSON(rep *playbook.Report) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		*playbook.Report
		OK bool `json:"ok"`
	}{rep, rep.OK()})
}
