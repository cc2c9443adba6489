package setup

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func renderFixture(t *testing.T, opts RenderOptions) (SecretSet, map[string]string) {
	t.Helper()
	secrets, err := GenerateSecrets(time.Unix(1700000000, 0))
	require.NoError(t, err)
	in := Inputs{Team: "alpha", HostIP: "10.0.0.5", Domain: "example.com"}

	artifacts, err := Render(in, secrets, opts)
	require.NoError(t, err)
	require.Len(t, artifacts, 3)

	files := map[string]string{}
	for _, a := range artifacts {
		files[a.Name] = string(a.Content)
	}
	return secrets, files
}

func parseEnv(t *testing.T, content string) map[string]string {
	t.Helper()
	env := map[string]string{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		require.True(t, ok, "malformed line %q", line)
		env[k] = v
	}
	return env
}

func TestRenderArtifactNames(t *testing.T) {
	_, files := renderFixture(t, DefaultRenderOptions())
	assert.Contains(t, files, EnvFileName)
	assert.Contains(t, files, ComposeFileName)
	assert.Contains(t, files, "traefik_alpha.yml")
}

func TestRenderEnvFile(t *testing.T) {
	secrets, files := renderFixture(t, DefaultRenderOptions())
	content := files[EnvFileName]
	env := parseEnv(t, content)

	assert.True(t, strings.HasPrefix(content, "# GENERATED ULTRA-NODE CONFIG FOR: alpha\n"))
	assert.Equal(t, "10.0.0.5", env["HOST_IP"])
	assert.Equal(t, "example.com", env["DOMAIN_ROOT"])
	assert.Equal(t, "alpha-chat.example.com", env["WEBUI_HOSTNAME"])
	assert.Equal(t, "alpha-search.example.com", env["SEARXNG_HOSTNAME"])
	assert.Equal(t, "alpha-ollama.example.com", env["OLLAMA_HOSTNAME"])
	assert.Equal(t, "https://alpha-supabase.example.com", env["API_EXTERNAL_URL"])
	assert.Equal(t, "Alpha Org", env["STUDIO_DEFAULT_ORGANIZATION"])
	assert.Equal(t, "Alpha Project", env["STUDIO_DEFAULT_PROJECT"])
	assert.Equal(t, "alpha-org", env["LANGFUSE_INIT_ORG_ID"])
	assert.Equal(t, "neo4j/"+secrets.Neo4jPassword, env["NEO4J_AUTH"])
	assert.Equal(t, "postgresql://postgres:"+secrets.PostgresPassword+"@db:5432/postgres", env["DATABASE_URL"])
	assert.Equal(t, secrets.PostgresPassword, env["DB_POSTGRESDB_PASSWORD"])
	assert.Equal(t, secrets.PostgresPassword, env["FLOWISE_DATABASE_PASSWORD"])
	assert.Equal(t, `"*"`, env["OLLAMA_ORIGINS"])

	for key, value := range secrets.Values() {
		if key == "NEO4J_PASSWORD" {
			continue
		}
		assert.Equal(t, value, env[key], key)
	}
}

func TestRenderComposeOverride(t *testing.T) {
	secrets, files := renderFixture(t, DefaultRenderOptions())

	var doc struct {
		Version  string `yaml:"version"`
		Services map[string]struct {
			Ports       []string `yaml:"ports"`
			Restart     string   `yaml:"restart"`
			Environment []string `yaml:"environment"`
		} `yaml:"services"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(files[ComposeFileName]), &doc))

	assert.Equal(t, "3.8", doc.Version)
	want := []string{
		"open-webui", "db", "qdrant", "neo4j", "clickhouse", "flowise",
		"n8n", "langfuse-server", "searxng", "kong", "minio", "ollama",
	}
	assert.Len(t, doc.Services, len(want))
	for _, name := range want {
		svc, ok := doc.Services[name]
		require.True(t, ok, name)
		assert.Equal(t, "on-failure:2", svc.Restart, name)
		assert.NotEmpty(t, svc.Ports, name)
	}
	assert.Equal(t, []string{"9011:9001", "9090:9000"}, doc.Services["minio"].Ports)
	assert.Contains(t, doc.Services["qdrant"].Environment, "QDRANT__SERVICE__API_KEY="+secrets.QdrantAPIKey)
	assert.Contains(t, doc.Services["n8n"].Environment, "WEBHOOK_URL=https://alpha-n8n.example.com/")
}

func TestRenderRestartRetries(t *testing.T) {
	_, files := renderFixture(t, RenderOptions{RestartRetries: 5})
	assert.Equal(t, 12, strings.Count(files[ComposeFileName], "restart: on-failure:5"))
	assert.NotContains(t, files[ComposeFileName], "always")
}

func TestRenderProxyRoutes(t *testing.T) {
	_, files := renderFixture(t, DefaultRenderOptions())

	type server struct {
		URL string `yaml:"url"`
	}
	var doc struct {
		HTTP struct {
			Routers map[string]struct {
				Rule    string `yaml:"rule"`
				Service string `yaml:"service"`
				TLS     struct {
					CertResolver string `yaml:"certResolver"`
				} `yaml:"tls"`
			} `yaml:"routers"`
			Services map[string]struct {
				LoadBalancer struct {
					Servers []server `yaml:"servers"`
				} `yaml:"loadBalancer"`
			} `yaml:"services"`
		} `yaml:"http"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(files["traefik_alpha.yml"]), &doc))

	routes := map[string]struct {
		host string
		port string
	}{
		"webui":    {"alpha-chat.example.com", "8080"},
		"n8n":      {"alpha-n8n.example.com", "5678"},
		"flowise":  {"alpha-flowise.example.com", "3001"},
		"supabase": {"alpha-supabase.example.com", "8000"},
		"langfuse": {"alpha-langfuse.example.com", "3300"},
		"search":   {"alpha-search.example.com", "8081"},
		"neo4j":    {"alpha-neo4j.example.com", "7474"},
		"minio":    {"alpha-minio.example.com", "9011"},
	}
	assert.Len(t, doc.HTTP.Routers, len(routes))
	assert.Len(t, doc.HTTP.Services, len(routes))
	for name, r := range routes {
		key := "alpha-" + name
		router, ok := doc.HTTP.Routers[key]
		require.True(t, ok, key)
		assert.Equal(t, "Host(`"+r.host+"`)", router.Rule)
		assert.Equal(t, key, router.Service)
		assert.Equal(t, DefaultCertResolver, router.TLS.CertResolver)

		svc, ok := doc.HTTP.Services[key]
		require.True(t, ok, key)
		assert.Equal(t, []server{{URL: "http://10.0.0.5:" + r.port}}, svc.LoadBalancer.Servers)
	}
}

func TestRenderCustomCertResolver(t *testing.T) {
	_, files := renderFixture(t, RenderOptions{CertResolver: "letsencrypt", RestartRetries: 2})
	assert.Equal(t, 8, strings.Count(files["traefik_alpha.yml"], "certResolver: letsencrypt"))
}

func TestRenderRejectsBadInput(t *testing.T) {
	_, err := Render(Inputs{Team: "alpha"}, SecretSet{}, DefaultRenderOptions())
	assert.Error(t, err)

	_, err = Render(Inputs{Team: "alpha", Domain: "example.com"}, SecretSet{}, RenderOptions{RestartRetries: 0})
	assert.Error(t, err)
}

func TestRenderEmptyTeamStillProducesArtifacts(t *testing.T) {
	artifacts, err := Render(Inputs{Domain: "example.com"}, SecretSet{}, DefaultRenderOptions())
	require.NoError(t, err)
	assert.Equal(t, "traefik_.yml", artifacts[2].Name)
	assert.Contains(t, string(artifacts[0].Content), "WEBUI_HOSTNAME=-chat.example.com")
}
