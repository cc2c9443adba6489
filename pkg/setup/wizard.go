package setup

import (
	"fmt"
	"time"

	"github.com/rzbill/ultranode/pkg/log"
)

// Options configure a wizard run.
type Options struct {
	// Preset answers skip the matching prompts.
	Preset Inputs
	// Auto offers detected defaults for the team and host address.
	Auto      bool
	OutputDir string
	Render    RenderOptions
}

// Summary describes a completed run.
type Summary struct {
	Inputs Inputs
	Hosts  Hostnames
	Files  []string
}

// Wizard ties prompting, secret generation, rendering and writing together.
type Wizard struct {
	prompter *Prompter
	detector Detector
	now      func() time.Time
	logger   log.Logger
}

// NewWizard returns a wizard that asks its questions through prompter.
func NewWizard(prompter *Prompter, logger log.Logger) *Wizard {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Wizard{
		prompter: prompter,
		detector: SystemDetector(),
		now:      time.Now,
		logger:   logger.WithComponent("setup"),
	}
}

// WithDetector replaces the host fact lookup.
func (w *Wizard) WithDetector(d Detector) *Wizard {
	w.detector = d
	return w
}

// WithClock replaces the clock used to stamp tokens.
func (w *Wizard) WithClock(now func() time.Time) *Wizard {
	w.now = now
	return w
}

// Run collects the inputs, generates a fresh secret set and writes the
// artifacts. progress, when set, is called after each file is written.
func (w *Wizard) Run(opts Options, progress func(path string)) (*Summary, error) {
	var detected Inputs
	if opts.Auto {
		detected = w.detector.DetectDefaults()
		w.logger.Debug("Detected defaults", log.Str("team", detected.Team), log.Str("host_ip", detected.HostIP))
	}

	in, err := w.prompter.Collect(opts.Preset, opts.Auto, detected)
	if err != nil {
		return nil, err
	}
	w.logger.Info("Configuring node", log.Str("team", in.Team), log.Str("domain", in.Domain))
	for _, problem := range in.LabelProblems() {
		w.logger.Warn("Hostname may not resolve", log.Err(problem))
	}

	secrets, err := GenerateSecrets(w.now())
	if err != nil {
		return nil, err
	}

	artifacts, err := Render(in, secrets, opts.Render)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Inputs: in, Hosts: DeriveHostnames(in)}
	for _, a := range artifacts {
		paths, err := WriteArtifacts(opts.OutputDir, []Artifact{a})
		if err != nil {
			return nil, fmt.Errorf("setup aborted: %w", err)
		}
		w.logger.Debug("Wrote artifact", log.Str("path", paths[0]), log.Int("bytes", len(a.Content)))
		summary.Files = append(summary.Files, paths[0])
		if progress != nil {
			progress(paths[0])
		}
	}
	return summary, nil
}
