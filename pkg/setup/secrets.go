package setup

import (
	"fmt"
	"time"

	"github.com/rzbill/ultranode/pkg/crypto"
)

// Token roles signed with the JWT secret.
const (
	RoleAnon        = "anon"
	RoleServiceRole = "service_role"
)

// SecretSet holds every generated credential. It lives only in memory and is
// written verbatim into the artifacts.
type SecretSet struct {
	JWTSecret          string
	PostgresPassword   string
	DashboardPassword  string
	QdrantAPIKey       string
	Neo4jPassword      string
	LangfuseSalt       string
	NextAuthSecret     string
	ClickhousePassword string
	MinioPassword      string
	EncryptionKey      string
	N8NEncryptionKey   string
	N8NJWTSecret       string
	FlowisePassword    string
	PoolerTenantID     string
	AnonKey            string
	ServiceRoleKey     string
}

type secretSpec struct {
	target *string
	bytes  int
}

// GenerateSecrets creates a fresh SecretSet. Tokens are stamped with now.
func GenerateSecrets(now time.Time) (SecretSet, error) {
	var s SecretSet
	specs := []secretSpec{
		{&s.JWTSecret, 40},
		{&s.PostgresPassword, 24},
		{&s.DashboardPassword, 24},
		{&s.QdrantAPIKey, 32},
		{&s.Neo4jPassword, 24},
		{&s.LangfuseSalt, crypto.DefaultSecretBytes},
		{&s.NextAuthSecret, crypto.DefaultSecretBytes},
		{&s.ClickhousePassword, 24},
		{&s.MinioPassword, 24},
		{&s.EncryptionKey, crypto.DefaultSecretBytes},
		{&s.N8NEncryptionKey, crypto.DefaultSecretBytes},
		{&s.N8NJWTSecret, crypto.DefaultSecretBytes},
		{&s.FlowisePassword, 20},
	}
	for _, spec := range specs {
		v, err := crypto.URLSafe(spec.bytes)
		if err != nil {
			return SecretSet{}, fmt.Errorf("failed to generate secret: %w", err)
		}
		*spec.target = v
	}

	tenant, err := crypto.Hex(16)
	if err != nil {
		return SecretSet{}, fmt.Errorf("failed to generate pooler tenant id: %w", err)
	}
	s.PoolerTenantID = tenant

	if s.AnonKey, err = crypto.SignToken(s.JWTSecret, RoleAnon, now); err != nil {
		return SecretSet{}, err
	}
	if s.ServiceRoleKey, err = crypto.SignToken(s.JWTSecret, RoleServiceRole, now); err != nil {
		return SecretSet{}, err
	}
	return s, nil
}

// Values returns every secret keyed by its environment variable name.
func (s SecretSet) Values() map[string]string {
	return map[string]string{
		"JWT_SECRET":                     s.JWTSecret,
		"POSTGRES_PASSWORD":              s.PostgresPassword,
		"DASHBOARD_PASSWORD":             s.DashboardPassword,
		"QDRANT_API_KEY":                 s.QdrantAPIKey,
		"NEO4J_PASSWORD":                 s.Neo4jPassword,
		"LANGFUSE_SALT":                  s.LangfuseSalt,
		"NEXTAUTH_SECRET":                s.NextAuthSecret,
		"CLICKHOUSE_PASSWORD":            s.ClickhousePassword,
		"MINIO_ROOT_PASSWORD":            s.MinioPassword,
		"ENCRYPTION_KEY":                 s.EncryptionKey,
		"N8N_ENCRYPTION_KEY":             s.N8NEncryptionKey,
		"N8N_USER_MANAGEMENT_JWT_SECRET": s.N8NJWTSecret,
		"FLOWISE_PASSWORD":               s.FlowisePassword,
		"POOLER_TENANT_ID":               s.PoolerTenantID,
		"ANON_KEY":                       s.AnonKey,
		"SERVICE_ROLE_KEY":               s.ServiceRoleKey,
	}
}
