// Package playbook lints deployment playbooks with a fixed set of
// independent textual and YAML checks.
package playbook

import "fmt"

// Severity classifies a finding.
type Severity string

const (
	// SeverityIssue blocks the file from passing.
	SeverityIssue Severity = "issue"
	// SeverityWarning is reported but never fails a file.
	SeverityWarning Severity = "warning"
)

// Finding is a single issue or warning produced by a check.
type Finding struct {
	Check    string   `json:"check"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Check, f.Message)
}

// NoteKind selects how a note is presented.
type NoteKind string

const (
	NoteInfo     NoteKind = "info"
	NoteSuccess  NoteKind = "success"
	NoteAdvisory NoteKind = "advisory"
	NoteDetail   NoteKind = "detail"
)

// Note is per-check progress output. Notes never affect pass/fail.
type Note struct {
	Kind NoteKind `json:"kind"`
	Text string   `json:"text"`
}

// CheckResult is what a single check returns.
type CheckResult struct {
	Check    string    `json:"check"`
	Findings []Finding `json:"findings,omitempty"`
	Notes    []Note    `json:"notes,omitempty"`
}

func (r *CheckResult) issue(format string, a ...interface{}) {
	r.Findings = append(r.Findings, Finding{Check: r.Check, Severity: SeverityIssue, Message: fmt.Sprintf(format, a...)})
}

func (r *CheckResult) warn(format string, a ...interface{}) {
	r.Findings = append(r.Findings, Finding{Check: r.Check, Severity: SeverityWarning, Message: fmt.Sprintf(format, a...)})
}

func (r *CheckResult) note(kind NoteKind, format string, a ...interface{}) {
	r.Notes = append(r.Notes, Note{Kind: kind, Text: fmt.Sprintf(format, a...)})
}

// Result is the outcome of validating one playbook file.
type Result struct {
	File     string        `json:"file"`
	Checks   []CheckResult `json:"checks"`
	Issues   []Finding     `json:"issues"`
	Warnings []Finding     `json:"warnings"`
}

// Passed reports whether the file has no blocking issues.
func (r *Result) Passed() bool {
	return len(r.Issues) == 0
}

func (r *Result) add(cr CheckResult) {
	r.Checks = append(r.Checks, cr)
	for _, f := range cr.Findings {
		switch f.Severity {
		case SeverityIssue:
			r.Issues = append(r.Issues, f)
		case SeverityWarning:
			r.Warnings = append(r.Warnings, f)
		}
	}
}
