package playbook

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const blockLiteralMarker = "content: |"

// extractEmbeddedCompose pulls the compose document out of the first
// "content: |" block that contains a version: line. The block's indentation
// is taken from the version: line and stripped; the block ends at the first
// non-blank line indented less than that.
func extractEmbeddedCompose(content string) (string, bool) {
	start := strings.Index(content, blockLiteralMarker)
	if start == -1 {
		return "", false
	}

	lines := strings.Split(content[start:], "\n")
	first := -1
	for i, line := range lines {
		if strings.Contains(line, "version:") {
			first = i
			break
		}
	}
	if first == -1 {
		return "", false
	}

	indent := leadingSpaces(lines[first])
	var out []string
	for i := first; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		if strings.TrimSpace(line) == "" {
			out = append(out, "")
			continue
		}
		if i > first && leadingSpaces(line) < indent {
			break
		}
		if leadingSpaces(line) >= indent {
			line = line[indent:]
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n"), true
}

func leadingSpaces(s string) int {
	return len(s) - len(strings.TrimLeft(s, " "))
}

// CheckEmbeddedCompose parses an embedded docker-compose document and
// verifies each service declares an image and a restart policy.
func CheckEmbeddedCompose(content string) CheckResult {
	r := CheckResult{Check: CheckCompose}
	text, ok := extractEmbeddedCompose(content)
	if !ok {
		return r
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		r.issue("Embedded docker-compose.yml syntax error: %v", err)
		return r
	}
	services := mappingValue(documentRoot(&root), "services")
	if services == nil || services.Kind != yaml.MappingNode {
		return r
	}

	var names []string
	for i := 0; i+1 < len(services.Content); i += 2 {
		names = append(names, services.Content[i].Value)
	}
	r.note(NoteSuccess, "Embedded docker-compose.yml is valid")
	r.note(NoteInfo, "  Services: %s", strings.Join(names, ", "))

	for i := 0; i+1 < len(services.Content); i += 2 {
		name := services.Content[i].Value
		var svc map[string]interface{}
		if err := services.Content[i+1].Decode(&svc); err != nil {
			svc = nil
		}
		if _, ok := svc["image"]; !ok {
			r.warn("Service '%s' missing image", name)
		}
		if _, ok := svc["restart"]; !ok {
			r.warn("Service '%s' missing restart policy", name)
		}
	}
	return r
}

func documentRoot(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return n.Content[0]
	}
	return n
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			v := n.Content[i+1]
			if v.Kind == yaml.AliasNode && v.Alias != nil {
				return v.Alias
			}
			return v
		}
	}
	return nil
}
