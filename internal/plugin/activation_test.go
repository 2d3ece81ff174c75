package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentx-labs/plugx/internal/config"
)

func activationEntries() []Entry {
	return []Entry{entry("service1", &stub{}), entry("service2", &stub{}), entry("service3", &stub{})}
}

func TestFilterActivated(t *testing.T) {
	tests := []struct {
		name    string
		sec     config.Section
		globals config.Vars
		def     bool
		want    []string
	}{
		{
			name: "explicit deactivation",
			sec:  config.Section{"service2": config.Section{"activated": false}},
			def:  true,
			want: []string{"service1", "service3"},
		},
		{
			name: "default false",
			sec:  config.Section{"service3": config.Section{"activated": true}},
			def:  false,
			want: []string{"service3"},
		},
		{
			name: "textual values",
			sec: config.Section{
				"service1": config.Section{"activated": "off"},
				"service2": config.Section{"activated": "False"},
			},
			def:  true,
			want: []string{"service3"},
		},
		{
			name:    "interpolated against globals",
			sec:     config.Section{"service1": config.Section{"activated": "$enabled"}, "service2": config.Section{"activated": "${other:no}"}},
			globals: config.Vars{"enabled": "yes"},
			def:     false,
			want:    []string{"service1"},
		},
		{
			name:    "typed global",
			sec:     config.Section{"service2": config.Section{"activated": "${features.service2}"}},
			globals: config.Vars{"features": map[string]any{"service2": false}},
			def:     true,
			want:    []string{"service1", "service3"},
		},
		{
			name: "no section",
			def:  true,
			want: []string{"service1", "service2", "service3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			active, err := FilterActivated(activationEntries(), tt.sec, tt.globals, tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, entryNames(active))
		})
	}
}

func TestFilterActivated_SiblingsAreNotInterpolated(t *testing.T) {
	sec := config.Section{
		"flag":     true,
		"service1": config.Section{"activated": "$flag"},
	}
	_, err := FilterActivated(activationEntries(), sec, nil, true)
	require.ErrorIs(t, err, config.ErrBadConfiguration)
	assert.Contains(t, err.Error(), `missing option "flag"`)
}

func TestFilterActivated_ReportsEveryInvalidValue(t *testing.T) {
	sec := config.Section{
		"service1": config.Section{"activated": "maybe"},
		"service3": config.Section{"activated": 12},
	}
	_, err := FilterActivated(activationEntries(), sec, nil, true, "root")
	require.ErrorIs(t, err, config.ErrBadConfiguration)

	var bad *config.BadConfigurationError
	require.ErrorAs(t, err, &bad)
	require.Len(t, bad.Issues, 2)
	assert.Equal(t, []string{"root", "service1"}, bad.Issues[0].Sections)
	assert.Equal(t, "activated", bad.Issues[0].Field)
	assert.Equal(t, []string{"root", "service3"}, bad.Issues[1].Sections)
}

func TestFilterActivated_Empty(t *testing.T) {
	active, err := FilterActivated(nil, config.Section{"x": config.Section{}}, nil, true)
	require.NoError(t, err)
	assert.Empty(t, active)
}
