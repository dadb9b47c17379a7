package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"dev", "dev"},
		{"", ""},
		{"1.2.3", "v1.2.3"},
		{"v1.2.3", "v1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, formatVersion(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	assert.Equal(t, "exactly-ten", truncate("exactly-ten", 11))
	assert.Equal(t, "a-very-lon…", truncate("a-very-long-client-name", 11))
}

func writeStdin(t *testing.T, content string) *os.File {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	t.Cleanup(func() { r.Close() })
	return r
}

func TestReadCredentials_AllFromStdin(t *testing.T) {
	r := writeStdin(t, "admin\nhunter2\n123456\n")

	var username, password, totp string
	err := readCredentials(r, &username, &password, &totp)
	require.NoError(t, err)

	assert.Equal(t, "admin", username)
	assert.Equal(t, "hunter2", password)
	assert.Equal(t, "123456", totp)
}

func TestReadCredentials_NoTOTPLine(t *testing.T) {
	r := writeStdin(t, "admin\nhunter2\n")

	var username, password, totp string
	err := readCredentials(r, &username, &password, &totp)
	require.NoError(t, err)

	assert.Equal(t, "admin", username)
	assert.Equal(t, "hunter2", password)
	assert.Empty(t, totp)
}

func TestReadCredentials_UsernameFromFlag(t *testing.T) {
	r := writeStdin(t, "hunter2\n")

	username := "admin"
	var password, totp string
	err := readCredentials(r, &username, &password, &totp)
	require.NoError(t, err)

	assert.Equal(t, "admin", username)
	assert.Equal(t, "hunter2", password)
}

func TestReadCredentials_MissingPassword(t *testing.T) {
	r := writeStdin(t, "admin\n")

	var username, password, totp string
	err := readCredentials(r, &username, &password, &totp)
	assert.Error(t, err)
}

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{
		"login", "logout", "whoami",
		"client", "dashboard", "interface", "settings",
		"init", "version", "completion",
	} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}
