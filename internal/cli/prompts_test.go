package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAffirmative(t *testing.T) {
	for _, answer := range []string{"s", "S", "sim", "SIM", " Sim ", "y", "Y", "yes", "YES\n"} {
		assert.True(t, IsAffirmative(answer), answer)
	}
	for _, answer := range []string{"", "n", "nao", "não", "no", "si", "yess", "ok"} {
		assert.False(t, IsAffirmative(answer), answer)
	}
}

func TestChartDecisionConstants(t *testing.T) {
	confirm, err := chartDecision("yes")
	require.NoError(t, err)
	ok, err := confirm("?")
	require.NoError(t, err)
	assert.True(t, ok)

	confirm, err = chartDecision("NO")
	require.NoError(t, err)
	ok, err = confirm("?")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = chartDecision("later")
	require.Error(t, err)
}
