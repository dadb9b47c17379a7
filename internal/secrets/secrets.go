// Package secrets persists the panel session cookie in the OS keyring so
// consecutive CLI invocations share one authenticated session, the same way
// a browser keeps its cookie between page loads. Peer data is never stored.
package secrets

import (
	"encoding/json"
	"errors"
	"net/http"

	keyring "github.com/zalando/go-keyring"

	wgerrors "github.com/rhalstead/wgdash/internal/errors"
)

// serviceName is the identifier used in the system keyring.
const serviceName = "wgdash"

// ErrNotFound is returned when no session is stored for the server.
var ErrNotFound = errors.New("no stored session")

// storedCookie is the subset of cookie state worth persisting.
type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SaveSession stores the session cookies for the given server URL.
func SaveSession(serverURL string, cookies []*http.Cookie) error {
	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value})
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	if err := keyring.Set(serviceName, serverURL, string(raw)); err != nil {
		return wgerrors.WrapWithCode(err, wgerrors.ErrConfig,
			"Failed to store the session in the system keyring",
			"Session will not persist; you may need to log in again next time")
	}
	return nil
}

// LoadSession retrieves stored session cookies for the given server URL.
// Returns ErrNotFound when nothing is stored.
func LoadSession(serverURL string) ([]*http.Cookie, error) {
	raw, err := keyring.Get(serviceName, serverURL)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var stored []storedCookie
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		// A corrupt entry is as good as no entry.
		return nil, ErrNotFound
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, s := range stored {
		cookies = append(cookies, &http.Cookie{Name: s.Name, Value: s.Value})
	}
	return cookies, nil
}

// ClearSession removes any stored session for the given server URL.
// Clearing an absent entry is not an error.
func ClearSession(serverURL string) error {
	err := keyring.Delete(serviceName, serverURL)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
