package plugin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentx-labs/plugx/internal/config"
)

func TestSelection_LoadsChosenChild(t *testing.T) {
	sec := config.Section{
		"authentication": config.Section{"activated": false},
		"auth":           config.Section{"type": "ldap", "host": "ldap.example.com"},
	}
	reg := NewRegistry()

	require.NoError(t, NewLoader(authCatalog()).Load(context.Background(), reg, "services", sec))
	assert.Equal(t, []string{"auth"}, reg.Names())

	sel, ok := Lookup[*Selection](reg, "auth")
	require.True(t, ok)
	assert.Equal(t, "ldap", sel.Choice())
	assert.Equal(t, "type", sel.Selector())
	assert.Equal(t, ldapConfig{Host: "ldap.example.com", Port: 389}, sel.Plugin())
	assert.Equal(t, []string{"auth"}, sel.Registry().Names())
}

func TestSelection_SelectorFromGlobals(t *testing.T) {
	sec := config.Section{
		"authentication": config.Section{"activated": false},
		"auth":           config.Section{"type": "$kind"},
	}
	globals := config.Vars{"kind": "user", "default_email": "jane@example.com"}
	reg := NewRegistry()

	require.NoError(t, NewLoader(authCatalog(), WithGlobals(globals)).Load(context.Background(), reg, "services", sec))
	sel, _ := Lookup[*Selection](reg, "auth")
	require.NotNil(t, sel)
	assert.Equal(t, "user", sel.Choice())
	assert.Equal(t, userConfig{DefaultUser: "John Doe <jane@example.com>"}, sel.Plugin())
}

func TestSelection_InvalidSelector(t *testing.T) {
	tests := []struct {
		name string
		sec  config.Section
		want string
	}{
		{
			name: "missing",
			sec:  config.Section{},
			want: `bad configuration: section "[auth]", parameter "type": required`,
		},
		{
			name: "unknown",
			sec:  config.Section{"type": "x"},
			want: `bad configuration: section "[auth]", parameter "type": invalid value 'x', can only be 'ldap' or 'user'`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec := config.Section{"authentication": config.Section{"activated": false}, "auth": tt.sec}

			err := NewLoader(authCatalog()).Load(context.Background(), NewRegistry(), "services", sec)
			require.ErrorIs(t, err, ErrInvalidSelection)
			assert.ErrorIs(t, err, config.ErrBadConfiguration)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestSelection_NoChoiceAvailable(t *testing.T) {
	cat := catalogOf(map[string][]Entry{
		"services": {entry("store", NewSelection(SelectionSpec{Group: "stores", Selector: "kind"}))},
	})
	sec := config.Section{"store": config.Section{"kind": "redis"}}

	_, err := NewLoader(cat).Validate("services", sec)
	var invalid *InvalidSelectionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "kind", invalid.Selector)
	assert.Equal(t, "redis", invalid.Value)
	assert.EqualError(t, err, `bad configuration: section "[store]", parameter "kind": invalid value 'redis', no choice available`)
}

func TestSelection_SeveralInvalidSelectionsAreJoined(t *testing.T) {
	cat := authCatalog()
	cat.Register("services", entry("backup", NewSelection(SelectionSpec{Group: "auth"})))
	sec := config.Section{
		"authentication": config.Section{"activated": false},
		"auth":           config.Section{"type": "x"},
	}

	_, err := NewLoader(cat, WithFile("app.ini")).Validate("services", sec)
	var bad *config.BadConfigurationError
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, "app.ini", bad.File)
	require.Len(t, bad.Issues, 2)
	assert.Equal(t, []string{"auth"}, bad.Issues[0].Sections)
	assert.Equal(t, "invalid value 'x', can only be 'ldap' or 'user'", bad.Issues[0].Message)
	assert.Equal(t, []string{"backup"}, bad.Issues[1].Sections)
	assert.Equal(t, "required", bad.Issues[1].Message)
}

func TestSelection_ChildSchemaIsStrict(t *testing.T) {
	sec := config.Section{
		"authentication": config.Section{"activated": false},
		"auth":           config.Section{"type": "ldap", "default_user": "x"},
	}

	_, err := NewLoader(authCatalog()).Validate("services", sec)
	var bad *config.BadConfigurationError
	require.ErrorAs(t, err, &bad)
	require.Len(t, bad.Issues, 1)
	assert.Equal(t, config.Issue{Sections: []string{"auth"}, Field: "default_user", Message: "unknown parameter"}, bad.Issues[0])
}

func TestSelection_Schema(t *testing.T) {
	sec := config.Section{
		"authentication": config.Section{"activated": false},
		"auth":           config.Section{"type": "ldap"},
	}
	s, err := NewLoader(authCatalog()).Schema("services", sec)
	require.NoError(t, err)

	auth, ok := s.Section("auth")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"host", "port", "type", "activated"}, auth.Properties())
	assert.Contains(t, auth.JSON().Required, "type")
}
