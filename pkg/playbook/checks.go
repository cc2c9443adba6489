package playbook

import (
	"errors"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/distribution/reference"
	"gopkg.in/yaml.v3"
)

// Check names, used to tag findings.
const (
	CheckLoad      = "load"
	CheckSyntax    = "syntax"
	CheckImages    = "images"
	CheckPorts     = "ports"
	CheckVariables = "variables"
	CheckModules   = "modules"
	CheckResources = "resources"
	CheckCompose   = "compose"
)

// DefaultMemoryLimit is the summed memory value above which a playbook is
// considered too heavy for a single host.
const DefaultMemoryLimit = 64

// maxReportedVariables caps the unknown variables listed in the advisory.
const maxReportedVariables = 5

var (
	imagePattern    = regexp.MustCompile(`image:\s+(\S+)`)
	portPattern     = regexp.MustCompile(`["'](\d+):\d+["']`)
	variablePattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)
	modulePattern   = regexp.MustCompile(`(?m)^\s+([a-z_]+):\s*$`)
	memoryPattern   = regexp.MustCompile(`(?i)memory["\s:]*(\d+)([GM])`)
)

// untaggedImages may be referenced without a tag.
var untaggedImages = map[string]bool{
	"postgres": true,
	"redis":    true,
}

// knownVariables are expected to come from the inventory or Ansible itself.
var knownVariables = map[string]bool{
	"ansible_host":      true,
	"ansible_user":      true,
	"base_domain":       true,
	"ai_admin_user":     true,
	"ansible_date_time": true,
}

// collectionModules maps modules to the collection that ships them.
var collectionModules = map[string]string{
	"docker_compose":    "community.docker",
	"docker_compose_v2": "community.docker",
	"docker_container":  "community.docker",
	"docker_image":      "community.docker",
	"docker_network":    "community.docker",
	"docker_volume":     "community.docker",
}

// Options tune the checks that have knobs.
type Options struct {
	// MemoryLimit is compared against the summed memory values.
	MemoryLimit int
	// NormalizeMemory converts M values to G before summing. Off by default,
	// in which case M and G values are added as raw numbers.
	NormalizeMemory bool
}

// DefaultOptions returns the stock check options.
func DefaultOptions() Options {
	return Options{MemoryLimit: DefaultMemoryLimit}
}

// Check is a named, independent check over a playbook's raw content.
type Check struct {
	Name string
	Run  func(content string) CheckResult
}

// Checks returns the seven playbook checks in execution order.
func Checks(opts Options) []Check {
	return []Check{
		{Name: CheckSyntax, Run: CheckYAMLSyntax},
		{Name: CheckImages, Run: CheckDockerImages},
		{Name: CheckPorts, Run: CheckPortConflicts},
		{Name: CheckVariables, Run: CheckVariableReferences},
		{Name: CheckModules, Run: CheckModuleCollections},
		{Name: CheckResources, Run: func(content string) CheckResult {
			return CheckMemoryAllocation(content, opts)
		}},
		{Name: CheckCompose, Run: CheckEmbeddedCompose},
	}
}

// CheckYAMLSyntax parses every YAML document in content.
func CheckYAMLSyntax(content string) CheckResult {
	r := CheckResult{Check: CheckSyntax}
	dec := yaml.NewDecoder(strings.NewReader(content))
	for {
		var doc interface{}
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			r.issue("YAML syntax error: %v", err)
			return r
		}
	}
	r.note(NoteSuccess, "YAML syntax is valid")
	return r
}

// CheckDockerImages looks at every image: declaration and warns about
// references without a tag.
func CheckDockerImages(content string) CheckResult {
	r := CheckResult{Check: CheckImages}
	matches := imagePattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		r.warn("No Docker images found in playbook")
		return r
	}

	r.note(NoteInfo, "Found %d Docker images", len(matches))
	for _, m := range matches {
		img := m[1]
		if isTemplated(img) {
			continue
		}
		if !strings.Contains(img, ":") && !untaggedImages[img] {
			r.warn("Image '%s' missing tag (will use :latest)", img)
		} else if ref, ok := imageReference(img); ok {
			if _, err := reference.ParseNormalizedNamed(ref); err != nil {
				r.note(NoteAdvisory, "Image '%s' may not be a valid image reference: %v", ref, err)
			}
		}
		r.note(NoteDetail, "- %s", img)
	}
	r.note(NoteSuccess, "Docker images look valid")
	return r
}

// imageReference strips quoting and flow-collection punctuation from an
// image: capture. A capture ending in ':' is the next mapping key, as in an
// "image:" module name followed by "name:", and is not a reference.
func imageReference(capture string) (string, bool) {
	ref := strings.TrimRight(capture, ",}]")
	ref = strings.Trim(ref, `"'`)
	if ref == "" || strings.HasSuffix(ref, ":") {
		return "", false
	}
	return ref, true
}

func isTemplated(s string) bool {
	return strings.Contains(s, "${") || strings.Contains(s, "{{")
}

// CheckPortConflicts warns when a host port appears in more than one quoted
// "host:container" mapping.
func CheckPortConflicts(content string) CheckResult {
	r := CheckResult{Check: CheckPorts}
	matches := portPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return r
	}

	seen := make(map[string]int, len(matches))
	for _, m := range matches {
		seen[m[1]]++
	}
	var dupes []string
	for port, n := range seen {
		if n > 1 {
			dupes = append(dupes, port)
		}
	}
	if len(dupes) > 0 {
		sortNumeric(dupes)
		r.warn("Potential port conflicts detected (host ports: %s)", strings.Join(dupes, ", "))
	}
	r.note(NoteInfo, "Found %d unique external ports", len(seen))
	return r
}

func sortNumeric(ports []string) {
	sort.Slice(ports, func(i, j int) bool {
		a, _ := strconv.Atoi(ports[i])
		b, _ := strconv.Atoi(ports[j])
		return a < b
	})
}

// CheckVariableReferences lists template variables that are not part of the
// known inventory set. The result is advisory only.
func CheckVariableReferences(content string) CheckResult {
	r := CheckResult{Check: CheckVariables}
	used := uniqueInOrder(variablePattern.FindAllStringSubmatch(content, -1))
	if len(used) == 0 {
		return r
	}

	r.note(NoteInfo, "Found %d variables used", len(used))
	var undefined []string
	for _, name := range used {
		if !knownVariables[name] {
			undefined = append(undefined, name)
		}
	}
	if len(undefined) > maxReportedVariables {
		undefined = undefined[:maxReportedVariables]
	}
	if len(undefined) > 0 {
		r.note(NoteAdvisory, "Variables may need definition in inventory: %s", strings.Join(undefined, ", "))
	}
	return r
}

func uniqueInOrder(matches [][]string) []string {
	seen := make(map[string]bool, len(matches))
	var out []string
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		out = append(out, m[1])
	}
	return out
}

// CheckModuleCollections reports collections needed by the modules used.
// The result is advisory only.
func CheckModuleCollections(content string) CheckResult {
	r := CheckResult{Check: CheckModules}
	needed := map[string]bool{}
	for _, m := range modulePattern.FindAllStringSubmatch(content, -1) {
		if coll, ok := collectionModules[m[1]]; ok {
			needed[coll] = true
		}
	}
	if len(needed) == 0 {
		return r
	}
	colls := make([]string, 0, len(needed))
	for c := range needed {
		colls = append(colls, c)
	}
	sort.Strings(colls)
	r.note(NoteAdvisory, "Requires collections: %s", strings.Join(colls, ", "))
	return r
}

// CheckMemoryAllocation sums the memory values and warns when the total
// exceeds opts.MemoryLimit.
func CheckMemoryAllocation(content string, opts Options) CheckResult {
	r := CheckResult{Check: CheckResources}
	matches := memoryPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return r
	}

	var total float64
	for _, m := range matches {
		// Values too large for a float64 saturate to +Inf and still warn.
		amount, err := strconv.ParseFloat(m[1], 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			continue
		}
		if opts.NormalizeMemory && strings.EqualFold(m[2], "M") {
			amount /= 1024
		}
		total += amount
	}

	limit := opts.MemoryLimit
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}
	if total > float64(limit) {
		r.warn("Total memory allocation (%sGB) may be high for single host", strconv.FormatFloat(total, 'f', -1, 64))
	}
	return r
}
