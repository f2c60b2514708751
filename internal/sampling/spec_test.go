package sampling

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseValueKind(t *testing.T) {
	for name, want := range map[string]ValueKind{
		"enum":    ValueEnum,
		"number":  ValueNumber,
		"date":    ValueDate,
		"boolean": ValueBoolean,
		"text":    ValueText,
	} {
		got, err := ParseValueKind(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got)
	}
}

func TestParseValueKindRejectsUnknown(t *testing.T) {
	_, err := ParseValueKind("hologram")
	require.Error(t, err)

	_, err = ParseValueKind("")
	require.Error(t, err)
}
