package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultVocabulary(t *testing.T) {
	vocab := Default()

	assert.Equal(t, []string{"DC", "MD", "VA"}, vocab.StateNames())
	assert.Len(t, vocab.Services, 6)
	assert.True(t, vocab.HasService("HVAC / Heat Pump"))
	assert.False(t, vocab.HasService("hvac / heat pump"))
	for _, code := range []string{"CEA", "HEP", "BPI-ALCI", "BPI-ACHPP"} {
		assert.True(t, vocab.HasCertification(code), code)
	}
	assert.False(t, vocab.HasCertification("Certified Energy Auditor"))

	desc, ok := vocab.ServiceDescription("Electrical")
	require.True(t, ok)
	assert.Equal(t, "Electrical tasks and upgrades", desc)
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "malformed yaml", raw: "states: [\n"},
		{name: "missing certification code", raw: "states: [{name: DC}]\nservices: [{name: Electrical}]\ncertifications: [{name: Foo}]\n"},
		{name: "duplicate certification code", raw: "states: [{name: DC}]\nservices: [{name: Electrical}]\ncertifications: [{name: A, shortName: X}, {name: B, shortName: X}]\n"},
		{name: "no services", raw: "states: [{name: DC}]\n"},
		{name: "blank state", raw: "states: [{name: ' '}]\nservices: [{name: Electrical}]\n"},
		{name: "state spelled out", raw: "states: [{name: Maryland}]\nservices: [{name: Electrical}]\n"},
		{name: "lowercase state", raw: "states: [{name: md}]\nservices: [{name: Electrical}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	raw := "states:\n  - name: ' DC '\nservices:\n  - name: Solar\n    description: Panels\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	vocab, err := Load(path)
	require.NoError(t, err)
	assert.True(t, vocab.HasState("DC"))
	assert.True(t, vocab.HasService("Solar"))
	assert.False(t, vocab.HasService("Electrical"))

	fallback, err := Load("")
	require.NoError(t, err)
	assert.True(t, fallback.HasService("Electrical"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
