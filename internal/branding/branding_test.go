package branding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddedDefaults(t *testing.T) {
	assert.Equal(t, "plugx", CLIName())
	assert.Equal(t, "PLUGX", EnvPrefix())
	assert.Equal(t, "plugx.services", ServicesGroup())
	assert.Equal(t, "services", ServicesSection())
	assert.Equal(t, "plugx.yaml", ManifestName())
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "PLUGX_LOG_LEVEL", EnvVar("log_level"))
}
