package main

import (
	"bytes"
	"strings"
	"testing"

	"aircare/config"
	"aircare/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withSecret(secret string) func() {
	return func() { config.AppConfig.JWTSecret = secret }
}

func TestAdminTokenSignsSubject(t *testing.T) {
	t.Cleanup(func() { config.AppConfig.JWTSecret = "" })

	var out bytes.Buffer
	cmd := newRootCmd(withSecret("cli-secret"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--subject", "ops@aircare.sg", "--ttl", "1h"})
	require.NoError(t, cmd.Execute())

	sub, err := utils.ExtractAdminSubject(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "ops@aircare.sg", sub)
}

func TestAdminTokenRejectsBadInput(t *testing.T) {
	t.Cleanup(func() { config.AppConfig.JWTSecret = "" })

	cases := []struct {
		name   string
		secret string
		args   []string
		want   string
	}{
		{"missing subject", "cli-secret", nil, "--subject is required"},
		{"negative ttl", "cli-secret", []string{"--subject", "ops", "--ttl", "-1h"}, "--ttl must be positive"},
		{"no secret", "", []string{"--subject", "ops"}, "JWT secret not configured"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newRootCmd(withSecret(tc.secret))
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tc.args)
			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
