package setup

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("artifacts").Option("missingkey=error").ParseFS(templateFS, "templates/*.tmpl"))

// Artifact file names.
const (
	EnvFileName     = ".env"
	ComposeFileName = "docker-compose.override.private.yml"
)

// Defaults for RenderOptions.
const (
	DefaultCertResolver   = "myresolver"
	DefaultRestartRetries = 2
)

// ProxyFileName is the reverse-proxy routing file for team.
func ProxyFileName(team string) string {
	return fmt.Sprintf("traefik_%s.yml", team)
}

// Artifact is one generated file.
type Artifact struct {
	Name    string
	Content []byte
}

// RenderOptions tune the generated artifacts.
type RenderOptions struct {
	CertResolver   string
	RestartRetries int
}

// DefaultRenderOptions returns the stock certificate resolver and a restart
// limit of two attempts.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{CertResolver: DefaultCertResolver, RestartRetries: DefaultRestartRetries}
}

type renderData struct {
	Inputs       Inputs
	TeamTitle    string
	Hosts        Hostnames
	Routes       []Route
	Secrets      SecretSet
	Restart      string
	CertResolver string
}

// Render produces the environment file, the compose override and the proxy
// routing file, in that order.
func Render(in Inputs, secrets SecretSet, opts RenderOptions) ([]Artifact, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if opts.RestartRetries < 1 {
		return nil, fmt.Errorf("restart retries must be at least 1, got %d", opts.RestartRetries)
	}
	if opts.CertResolver == "" {
		opts.CertResolver = DefaultCertResolver
	}

	hosts := DeriveHostnames(in)
	data := renderData{
		Inputs:       in,
		TeamTitle:    in.TeamTitle(),
		Hosts:        hosts,
		Routes:       hosts.Routes(),
		Secrets:      secrets,
		Restart:      fmt.Sprintf("on-failure:%d", opts.RestartRetries),
		CertResolver: opts.CertResolver,
	}

	files := []struct {
		tmpl string
		name string
	}{
		{"env.tmpl", EnvFileName},
		{"compose-override.tmpl", ComposeFileName},
		{"traefik.tmpl", ProxyFileName(in.Team)},
	}

	artifacts := make([]Artifact, 0, len(files))
	for _, f := range files {
		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, f.tmpl, data); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", f.name, err)
		}
		artifacts = append(artifacts, Artifact{Name: f.name, Content: buf.Bytes()})
	}
	return artifacts, nil
}
