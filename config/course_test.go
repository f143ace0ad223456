package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvFlag(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"Y", true},
		{" true ", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"", false},
		{"banana", false},
	}

	for _, tt := range tests {
		t.Setenv("COVERAGE_TEST_FLAG", tt.value)
		assert.Equal(t, tt.want, EnvFlag("COVERAGE_TEST_FLAG", false), "value %q", tt.value)
	}
}

func TestEnvFlagDefault(t *testing.T) {
	assert.True(t, EnvFlag("COVERAGE_TEST_FLAG_UNSET", true))
	assert.False(t, EnvFlag("COVERAGE_TEST_FLAG_UNSET", false))
}
