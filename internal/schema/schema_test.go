package schema

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentx-labs/plugx/internal/config"
)

type tlsConfig struct {
	Enabled bool   `json:"enabled" jsonschema:"default=false"`
	CAFile  string `json:"ca_file,omitempty"`
}

type ldapConfig struct {
	Host    string        `json:"host" jsonschema:"default=localhost"`
	Port    int           `json:"port" jsonschema:"default=389,minimum=1"`
	BindDN  string        `json:"bind_dn"`
	Mode    string        `json:"mode" jsonschema:"enum=simple,enum=sasl,default=simple"`
	Timeout time.Duration `json:"timeout" jsonschema:"default=30s"`
	Groups  []string      `json:"groups,omitempty"`
	TLS     tlsConfig     `json:"tls"`
}

func TestFor_ReflectsFieldsInOrder(t *testing.T) {
	s := For[ldapConfig]()

	assert.Equal(t, []string{"host", "port", "bind_dn", "mode", "timeout", "groups", "tls"}, s.Properties())
	assert.Contains(t, s.JSON().Required, "bind_dn")
	assert.NotContains(t, s.JSON().Required, "groups")
	assert.Empty(t, s.JSON().Version)

	port, ok := s.Property("port")
	require.True(t, ok)
	assert.Equal(t, "integer", port.Type)

	timeout, ok := s.Property("timeout")
	require.True(t, ok)
	assert.Equal(t, "string", timeout.Type)

	tls, ok := s.Section("tls")
	require.True(t, ok)
	assert.Equal(t, []string{"enabled", "ca_file"}, tls.Properties())

	_, ok = s.Section("host")
	assert.False(t, ok)
}

func TestReflect_NonStructIsOpen(t *testing.T) {
	s := Reflect(map[string]any{})
	assert.Empty(t, s.Properties())
	assert.Nil(t, s.JSON().AdditionalProperties)

	require.NoError(t, Validate(s, config.Section{"anything": 1}, ""))
}

func TestMergeDefaults(t *testing.T) {
	s := For[ldapConfig]()
	sec := config.Section{"host": "ldap.example.com"}

	merged := MergeDefaults(s, sec)

	assert.Equal(t, "ldap.example.com", merged["host"])
	assert.Equal(t, int64(389), merged["port"])
	assert.Equal(t, "simple", merged["mode"])
	assert.Equal(t, "30s", merged["timeout"])
	assert.NotContains(t, merged, "bind_dn")
	assert.NotContains(t, merged, "groups")
	assert.Equal(t, config.Section{"enabled": false}, merged["tls"])

	assert.Len(t, sec, 1, "input must not be modified")
}

func TestCoerce(t *testing.T) {
	s := For[ldapConfig]()
	sec := config.Section{
		"port":    "636",
		"groups":  "admins, users",
		"host":    42,
		"bind_dn": "cn=admin",
		"tls":     config.Section{"enabled": "yes"},
	}

	out := Coerce(s, sec)

	assert.Equal(t, int64(636), out["port"])
	assert.Equal(t, []any{"admins", "users"}, out["groups"])
	assert.Equal(t, "42", out["host"])
	assert.Equal(t, true, out.Sub("tls")["enabled"])
}

func TestCoerce_KeepsInvalidValues(t *testing.T) {
	s := For[ldapConfig]()
	out := Coerce(s, config.Section{"port": "many", "tls": config.Section{"enabled": "maybe"}})

	assert.Equal(t, "many", out["port"])
	assert.Equal(t, "maybe", out.Sub("tls")["enabled"])
}

func TestValidate_Valid(t *testing.T) {
	s := For[ldapConfig]()
	sec := MergeDefaults(s, config.Section{"bind_dn": "cn=admin"})

	require.NoError(t, Validate(s, sec, "app.yaml"))
}

func TestValidate_ReportsEveryIssue(t *testing.T) {
	s := For[ldapConfig]()
	sec := MergeDefaults(s, config.Section{
		"port": "many",
		"mode": "kerberos",
		"hots": "typo",
	})

	err := Validate(s, Coerce(s, sec), "app.yaml", "services", "ldap")
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrBadConfiguration))

	var bad *config.BadConfigurationError
	require.True(t, errors.As(err, &bad))
	assert.Equal(t, "app.yaml", bad.File)

	fields := make(map[string][]string)
	for _, issue := range bad.Issues {
		fields[issue.Field] = issue.Sections
	}
	assert.Len(t, fields, 4)
	for _, name := range []string{"bind_dn", "hots", "mode", "port"} {
		assert.Equal(t, []string{"services", "ldap"}, fields[name], name)
	}
}

func TestValidate_NestedSectionIssue(t *testing.T) {
	s := For[ldapConfig]()
	sec := MergeDefaults(s, config.Section{"bind_dn": "x", "tls": config.Section{"enabled": "maybe"}})

	err := Validate(s, sec, "")
	var bad *config.BadConfigurationError
	require.True(t, errors.As(err, &bad))
	require.Len(t, bad.Issues, 1)
	assert.Equal(t, []string{"tls"}, bad.Issues[0].Sections)
	assert.Equal(t, "enabled", bad.Issues[0].Field)
}

func TestDecode(t *testing.T) {
	s := For[ldapConfig]()
	sec := Coerce(s, MergeDefaults(s, config.Section{
		"bind_dn": "cn=admin",
		"groups":  "a,b",
		"timeout": "2m",
	}))
	require.NoError(t, Validate(s, sec, ""))

	var cfg ldapConfig
	require.NoError(t, Decode(sec, &cfg))

	assert.Equal(t, ldapConfig{
		Host:    "localhost",
		Port:    389,
		BindDN:  "cn=admin",
		Mode:    "simple",
		Timeout: 2 * time.Minute,
		Groups:  []string{"a", "b"},
	}, cfg)
}

func TestMergeAndActivated(t *testing.T) {
	base := New().Set("value1", &jsonschema.Schema{Type: "integer"})
	other := For[tlsConfig]()

	merged := base.Merge(other).WithActivated(true)

	assert.Equal(t, []string{"value1", "enabled", "ca_file", "activated"}, merged.Properties())
	assert.Equal(t, []string{"value1"}, base.Properties(), "merge must not modify its receiver")
	assert.Nil(t, merged.Open().JSON().AdditionalProperties)

	act, ok := merged.Property("activated")
	require.True(t, ok)
	assert.Equal(t, true, act.Default)
}

func TestDocument(t *testing.T) {
	data, err := For[tlsConfig]().Document()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "https://json-schema.org/draft/2020-12/schema", doc["$schema"])
	assert.Equal(t, "object", doc["type"])

	y, err := For[tlsConfig]().YAML()
	require.NoError(t, err)
	assert.Contains(t, string(y), "ca_file")
}
