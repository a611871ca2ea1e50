package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, "SKIP", String("OCRD_MISSING_INPUT"))
	assert.Equal(t, "SKIP", String("OCRD_MISSING_OUTPUT"))
	assert.Equal(t, "SKIP", String("OCRD_EXISTING_OUTPUT"))
	assert.Equal(t, 0, Int("OCRD_DOWNLOAD_RETRIES"))
	assert.InDelta(t, 0.1, Float("OCRD_MAX_MISSING_OUTPUTS"), 1e-9)
	assert.False(t, Bool("OCRD_LOGGING_DEBUG"))
}

func TestOverride(t *testing.T) {
	t.Setenv("OCRD_MISSING_OUTPUT", "COPY")
	assert.Equal(t, "COPY", String("OCRD_MISSING_OUTPUT"))

	t.Setenv("OCRD_DOWNLOAD_RETRIES", "3")
	assert.Equal(t, 3, Int("OCRD_DOWNLOAD_RETRIES"))
}

func TestInvalidValueRejected(t *testing.T) {
	t.Setenv("OCRD_MISSING_INPUT", "EXPLODE")
	_, err := Raw("OCRD_MISSING_INPUT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXPLODE")

	// String falls back to the default for invalid values.
	assert.Equal(t, "SKIP", String("OCRD_MISSING_INPUT"))
}

func TestUnregisteredVariable(t *testing.T) {
	_, err := Raw("OCRD_NO_SUCH_VARIABLE")
	require.Error(t, err)
}

func TestIsSet(t *testing.T) {
	assert.False(t, IsSet("OCRD_PROFILE_FILE"))
	t.Setenv("OCRD_PROFILE_FILE", "/tmp/profile.log")
	assert.True(t, IsSet("OCRD_PROFILE_FILE"))
}

func TestProfileValidator(t *testing.T) {
	t.Setenv("OCRD_PROFILE", "CPU,RSS")
	raw, err := Raw("OCRD_PROFILE")
	require.NoError(t, err)
	assert.Equal(t, "CPU,RSS", raw)

	t.Setenv("OCRD_PROFILE", "GPU")
	_, err = Raw("OCRD_PROFILE")
	require.Error(t, err)
}

func TestDescribe(t *testing.T) {
	out := Describe()
	assert.Contains(t, out, "OCRD_PROFILE")
	assert.Contains(t, out, "OCRD_MISSING_OUTPUT")
	assert.Contains(t, out, `(Default: "SKIP")`)
}
