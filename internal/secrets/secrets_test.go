package secrets

import (
	"net/http"
	"testing"

	keyring "github.com/zalando/go-keyring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	keyring.MockInit()

	server := "https://vpn.example.com"
	cookies := []*http.Cookie{{Name: "session", Value: "tok-42", Path: "/"}}

	require.NoError(t, SaveSession(server, cookies))

	loaded, err := LoadSession(server)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "session", loaded[0].Name)
	assert.Equal(t, "tok-42", loaded[0].Value)
}

func TestLoadSession_Missing(t *testing.T) {
	keyring.MockInit()

	_, err := LoadSession("https://never-seen.example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClearSession(t *testing.T) {
	keyring.MockInit()

	server := "https://vpn.example.com"
	require.NoError(t, SaveSession(server, []*http.Cookie{{Name: "session", Value: "x"}}))
	require.NoError(t, ClearSession(server))

	_, err := LoadSession(server)
	assert.ErrorIs(t, err, ErrNotFound)

	// Clearing again must stay silent.
	assert.NoError(t, ClearSession(server))
}

func TestLoadSession_CorruptEntry(t *testing.T) {
	keyring.MockInit()

	server := "https://vpn.example.com"
	require.NoError(t, keyring.Set("wgdash", server, "not json"))

	_, err := LoadSession(server)
	assert.ErrorIs(t, err, ErrNotFound)
}
