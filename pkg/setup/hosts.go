package setup

import "fmt"

// Hostnames are the public names of the routed services.
type Hostnames struct {
	WebUI    string
	N8N      string
	Flowise  string
	Supabase string
	Langfuse string
	Search   string
	Neo4j    string
	Minio    string
	// Ollama is published in the environment listing but not routed.
	Ollama string
}

// Hostname joins team, service label and domain: <team>-<label>.<domain>.
func Hostname(team, label, domain string) string {
	return fmt.Sprintf("%s-%s.%s", team, label, domain)
}

// DeriveHostnames builds every service hostname for in.
func DeriveHostnames(in Inputs) Hostnames {
	h := func(label string) string { return Hostname(in.Team, label, in.Domain) }
	return Hostnames{
		WebUI:    h("chat"),
		N8N:      h("n8n"),
		Flowise:  h("flowise"),
		Supabase: h("supabase"),
		Langfuse: h("langfuse"),
		Search:   h("search"),
		Neo4j:    h("neo4j"),
		Minio:    h("minio"),
		Ollama:   h("ollama"),
	}
}

// Route maps a public hostname to a backend port on the host address.
type Route struct {
	Name string
	Host string
	Port int
}

// Routes lists the reverse-proxy routes in declaration order.
func (h Hostnames) Routes() []Route {
	return []Route{
		{Name: "webui", Host: h.WebUI, Port: 8080},
		{Name: "n8n", Host: h.N8N, Port: 5678},
		{Name: "flowise", Host: h.Flowise, Port: 3001},
		{Name: "supabase", Host: h.Supabase, Port: 8000},
		{Name: "langfuse", Host: h.Langfuse, Port: 3300},
		{Name: "search", Host: h.Search, Port: 8081},
		{Name: "neo4j", Host: h.Neo4j, Port: 7474},
		{Name: "minio", Host: h.Minio, Port: 9011},
	}
}
