package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Unidade X", "UNIDADE X"},
		{"unidade x", "UNIDADE X"},
		{" Unidade X ", "UNIDADE X"},
		{"unidade\t\tx", "UNIDADE X"},
		{"UNIDADE X", "UNIDADE X"},
		{"SEPLAG/AUTOMATIZAMG", "SEPLAG/AUTOMATIZAMG"},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, NormalizeName(test.input))
	}
}

func TestEqualNames(t *testing.T) {
	require.True(t, EqualNames("Unidade X", " unidade x "))
	require.False(t, EqualNames("Unidade X", "Unidade X1"))
	require.False(t, EqualNames("Unidade X", "Unidade"))
}
