package setup

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompt labels, shown in this order.
const (
	promptTeam   = "1. Team Name (lowercase, no spaces)"
	promptDomain = "2. Root Domain (e.g., company.com)"
	promptHostIP = "3. Local IP of THIS container"
)

// Prompter asks the operator for the wizard inputs.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewPrompter reads answers from in and writes questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{reader: bufio.NewReader(in), out: out}
}

// Ask prints label (with def in brackets when set) and returns the trimmed
// answer, or def when the answer is empty. io.EOF is returned only when the
// input ended before anything was typed.
func (p *Prompter) Ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return def, io.EOF
		}
		return def, nil
	}
	return answer, nil
}

// Collect fills in whatever preset leaves empty. In auto mode the detected
// defaults are offered for the team and address; the domain is always asked
// until it is non-empty.
func (p *Prompter) Collect(preset Inputs, auto bool, detected Inputs) (Inputs, error) {
	in := preset.Normalize()
	var defaults Inputs
	if auto {
		defaults = detected
	}

	if in.Team == "" {
		team, err := p.Ask(promptTeam, defaults.Team)
		if err != nil && !errors.Is(err, io.EOF) {
			return Inputs{}, err
		}
		in.Team = team
	}

	for in.Domain == "" {
		domain, err := p.Ask(promptDomain, "")
		if errors.Is(err, io.EOF) {
			return Inputs{}, fmt.Errorf("root domain is required: input closed")
		}
		if err != nil {
			return Inputs{}, err
		}
		in.Domain = domain
		if in.Domain == "" {
			fmt.Fprintln(p.out, "   Root domain is required.")
		}
	}

	if in.HostIP == "" {
		ip, err := p.Ask(promptHostIP, defaults.HostIP)
		if err != nil && !errors.Is(err, io.EOF) {
			return Inputs{}, err
		}
		in.HostIP = ip
	}

	in = in.Normalize()
	return in, in.Validate()
}
