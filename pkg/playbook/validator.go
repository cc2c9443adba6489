package playbook

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rzbill/ultranode/pkg/log"
)

// Validator runs the playbook checks over files.
type Validator struct {
	checks   []Check
	readFile func(string) ([]byte, error)
	logger   log.Logger
}

// NewValidator creates a validator with the standard checks.
func NewValidator(opts Options, logger log.Logger) *Validator {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Validator{
		checks:   Checks(opts),
		readFile: os.ReadFile,
		logger:   logger.WithComponent("playbook"),
	}
}

// WithChecks replaces the check list. Used by tests and callers that want a
// subset.
func (v *Validator) WithChecks(checks ...Check) *Validator {
	v.checks = checks
	return v
}

// Validate reads path and runs every check over it. A read failure is
// recorded as an issue and the checks are skipped.
func (v *Validator) Validate(path string) *Result {
	data, err := v.readFile(path)
	if err != nil {
		res := &Result{File: filepath.Base(path)}
		cr := CheckResult{Check: CheckLoad}
		cr.issue("Cannot read file: %v", err)
		res.add(cr)
		v.logger.Warn("Playbook unreadable", log.Str("file", path), log.Err(err))
		return res
	}
	return v.ValidateContent(filepath.Base(path), string(data))
}

// ValidateContent runs every check over content. Checks never short-circuit
// each other.
func (v *Validator) ValidateContent(name, content string) *Result {
	res := &Result{File: name}
	for _, c := range v.checks {
		cr := runCheck(c, content)
		v.logger.Debug("Check finished",
			log.Str("file", name),
			log.Str("check", c.Name),
			log.Int("findings", len(cr.Findings)))
		for _, f := range cr.Findings {
			v.logger.Debug("Finding", log.Str("file", name), log.Str("finding", f.String()))
		}
		res.add(cr)
	}
	return res
}

// runCheck converts a panic inside a check into an issue tagged with the
// check's name.
func runCheck(c Check, content string) (cr CheckResult) {
	defer func() {
		if rec := recover(); rec != nil {
			cr = CheckResult{Check: c.Name}
			cr.issue("Check failed: %s: %v", c.Name, rec)
		}
	}()
	cr = c.Run(content)
	if cr.Check == "" {
		cr.Check = c.Name
	}
	return cr
}

// Report is the outcome of a lint run over several files.
type Report struct {
	Results []*Result `json:"results"`
	Passed  int       `json:"passed"`
	Failed  int       `json:"failed"`
}

// OK reports whether at least one file was checked and none failed.
func (r *Report) OK() bool {
	return len(r.Results) > 0 && r.Failed == 0
}

// Add records one file's result.
func (r *Report) Add(res *Result) {
	r.Results = append(r.Results, res)
	if res.Passed() {
		r.Passed++
	} else {
		r.Failed++
	}
}

// ValidateAll validates each path in order.
func (v *Validator) ValidateAll(paths []string) *Report {
	rep := &Report{}
	for _, p := range paths {
		rep.Add(v.Validate(p))
	}
	v.logger.Debug("Lint run finished",
		log.Int("files", len(paths)),
		log.Int("passed", rep.Passed),
		log.Int("failed", rep.Failed))
	return rep
}

// String summarises the report in one line.
func (r *Report) String() string {
	return fmt.Sprintf("%d passed, %d failed", r.Passed, r.Failed)
}
