package playbook

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/ultranode/pkg/log"
)

func TestValidate_SamplePlaybook(t *testing.T) {
	v := NewValidator(DefaultOptions(), nil)
	res := v.Validate(filepath.Join("testdata", "deploy-stack.yml"))

	assert.Equal(t, "deploy-stack.yml", res.File)
	assert.True(t, res.Passed())
	assert.Empty(t, res.Issues)
	require.Len(t, res.Checks, 7)

	var msgs []string
	for _, w := range res.Warnings {
		msgs = append(msgs, w.Message)
	}
	assert.Equal(t, []string{"Service 'qdrant' missing restart policy"}, msgs)
}

func TestValidate_SyntaxErrorFailsWithoutWarnings(t *testing.T) {
	v := NewValidator(DefaultOptions(), nil).WithChecks(Check{Name: CheckSyntax, Run: CheckYAMLSyntax})
	res := v.ValidateContent("broken.yml", "tasks:\n  - name: [oops\n")
	assert.False(t, res.Passed())
	assert.Len(t, res.Issues, 1)
	assert.Empty(t, res.Warnings)
}

func TestValidate_ReadFailure(t *testing.T) {
	v := NewValidator(DefaultOptions(), nil)
	v.readFile = func(string) ([]byte, error) { return nil, errors.New("permission denied") }

	res := v.Validate("/nope/site.yml")
	assert.False(t, res.Passed())
	require.Len(t, res.Issues, 1)
	assert.Equal(t, CheckLoad, res.Issues[0].Check)
	assert.Equal(t, "Cannot read file: permission denied", res.Issues[0].Message)
	assert.Len(t, res.Checks, 1, "remaining checks are skipped")
}

func TestValidate_PanicBecomesIssue(t *testing.T) {
	ran := false
	v := NewValidator(DefaultOptions(), nil).WithChecks(
		Check{Name: "exploding", Run: func(string) CheckResult { panic("boom") }},
		Check{Name: "after", Run: func(string) CheckResult { ran = true; return CheckResult{} }},
	)
	res := v.ValidateContent("x.yml", "a: 1\n")

	assert.True(t, ran, "a failing check must not stop the others")
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "exploding", res.Issues[0].Check)
	assert.Equal(t, "Check failed: exploding: boom", res.Issues[0].Message)
	assert.Equal(t, "after", res.Checks[1].Check)
}

func TestValidateAll(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yml")
	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(good, []byte("- hosts: all\n  tasks:\n    - docker_container:\n        image: nginx:1.25\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("- hosts: all\n  tasks: [\n"), 0o644))

	rep := NewValidator(DefaultOptions(), nil).ValidateAll([]string{bad, good})
	assert.Equal(t, 1, rep.Passed)
	assert.Equal(t, 1, rep.Failed)
	assert.False(t, rep.OK())
	assert.Equal(t, "1 passed, 1 failed", rep.String())

	empty := &Report{}
	assert.False(t, empty.OK(), "no files is a failure")
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"site.yml", "base.yml", "inventory.yml", "inventory-prod.yml", "notes.txt", "vars.yaml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("a: 1\n"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "roles.yml"), 0o755))

	files, err := Discover(dir, DefaultPattern, DefaultExcludePrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "base.yml"), filepath.Join(dir, "site.yml")}, files)

	_, err = Discover(filepath.Join(dir, "missing"), DefaultPattern, DefaultExcludePrefix)
	assert.Error(t, err)
}

func TestValidateContentLogsFindings(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogger(&log.Config{Level: "debug", Format: "json", Output: &buf})

	NewValidator(DefaultOptions(), logger).ValidateContent("web.yml", "image: nginx\n")
	assert.Contains(t, buf.String(), "[warning] images: Image 'nginx' missing tag")
	assert.Contains(t, buf.String(), `"file":"web.yml"`)
}
