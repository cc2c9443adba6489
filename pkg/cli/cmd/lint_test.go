package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanPlaybook = `- hosts: all
  tasks:
    - name: Start web
      community.docker.docker_container:
        name: web
        image: nginx:1.25
        ports:
          - "8080:80"
`

const brokenPlaybook = "- hosts: all\n  tasks: [unclosed\n"

func writePlaybooks(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLintCommandPasses(t *testing.T) {
	dir := writePlaybooks(t, map[string]string{
		"deploy.yml":    cleanPlaybook,
		"inventory.yml": brokenPlaybook,
	})

	out, _, err := executeCommand(t, "", "lint", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "# Found 1 playbook(s) to validate")
	assert.Contains(t, out, "Validating: deploy.yml")
	assert.NotContains(t, out, "inventory.yml")
	assert.Contains(t, out, "Passed: 1")
	assert.Contains(t, out, "Failed: 0")
}

func TestLintCommandLogsOutcome(t *testing.T) {
	dir := writePlaybooks(t, map[string]string{"deploy.yml": cleanPlaybook})

	_, stderr, err := executeCommand(t, "", "lint", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Lint finished")
	assert.Contains(t, stderr, "1 passed, 0 failed")
	assert.Contains(t, stderr, "elapsed")
}

func TestLintCommandFails(t *testing.T) {
	dir := writePlaybooks(t, map[string]string{
		"deploy.yml": cleanPlaybook,
		"broken.yml": brokenPlaybook,
	})

	out, _, err := executeCommand(t, "", "lint", dir)
	require.ErrorIs(t, err, errSilentExit)
	assert.Contains(t, out, "Playbook validation FAILED")
	assert.Contains(t, out, "Failed: 1")
}

func TestLintCommandNoPlaybooks(t *testing.T) {
	dir := writePlaybooks(t, map[string]string{"inventory.yml": cleanPlaybook})

	out, _, err := executeCommand(t, "", "lint", dir)
	require.ErrorIs(t, err, errSilentExit)
	assert.Contains(t, out, "No playbooks found in directory")
}

func TestLintCommandJSON(t *testing.T) {
	dir := writePlaybooks(t, map[string]string{
		"deploy.yml": cleanPlaybook,
		"broken.yml": brokenPlaybook,
	})

	out, _, err := executeCommand(t, "", "lint", "--format", "json", dir)
	require.ErrorIs(t, err, errSilentExit)

	var report struct {
		Results []struct {
			File string `json:"file"`
		} `json:"results"`
		Passed int  `json:"passed"`
		Failed int  `json:"failed"`
		OK     bool `json:"ok"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 1, report.Failed)
	assert.False(t, report.OK)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "broken.yml", report.Results[0].File)
}

func TestLintCommandCustomPattern(t *testing.T) {
	dir := writePlaybooks(t, map[string]string{
		"deploy.yaml": cleanPlaybook,
		"broken.yml":  brokenPlaybook,
	})

	_, _, err := executeCommand(t, "", "lint", "--pattern", "*.yaml", dir)
	require.NoError(t, err)
}

func TestLintCommandRejectsUnknownFormat(t *testing.T) {
	_, _, err := executeCommand(t, "", "lint", "--format", "xml", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestLintCommandMissingDirectory(t *testing.T) {
	_, _, err := executeCommand(t, "", "lint", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
