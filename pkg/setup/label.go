package setup

import "fmt"

// hostLabels are the service labels joined to the team name.
var hostLabels = []string{"chat", "n8n", "flowise", "supabase", "langfuse", "search", "neo4j", "minio", "ollama"}

// maxLabelLength is the longest DNS label allowed.
const maxLabelLength = 63

// ValidateHostLabel checks that team-derived host labels such as
// "<team>-search" are valid DNS-1123 labels. The wizard only warns on
// failure; the operator may front the node with something less strict.
func ValidateHostLabel(label string) error {
	if len(label) < 1 || len(label) > maxLabelLength {
		return fmt.Errorf("host label %q must be between 1 and %d characters", label, maxLabelLength)
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return fmt.Errorf("host label %q cannot start or end with a hyphen", label)
	}
	for _, c := range label {
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-') {
			return fmt.Errorf("host label %q can only contain lowercase letters, digits, and hyphens", label)
		}
	}
	return nil
}

// LabelProblems returns one error per routed host whose leading label is
// not a valid DNS label.
func (in Inputs) LabelProblems() []error {
	var problems []error
	for _, label := range hostLabels {
		if err := ValidateHostLabel(in.Team + "-" + label); err != nil {
			problems = append(problems, err)
		}
	}
	return problems
}
