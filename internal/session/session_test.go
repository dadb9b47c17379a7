package session

import (
	"context"
	"errors"
	"testing"

	"github.com/rhalstead/wgdash/internal/api"
	wgerrors "github.com/rhalstead/wgdash/internal/errors"
	"github.com/rhalstead/wgdash/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI scripts gateway responses for session tests.
type fakeAPI struct {
	checkResp  api.SessionResponse
	checkErr   error
	loginResp  api.SessionResponse
	loginErr   error
	logoutErr  error
	lastLogin  api.LoginRequest
	loginCalls int
}

func (f *fakeAPI) CheckSession(ctx context.Context) (api.SessionResponse, error) {
	return f.checkResp, f.checkErr
}

func (f *fakeAPI) Login(ctx context.Context, req api.LoginRequest) (api.SessionResponse, error) {
	f.loginCalls++
	f.lastLogin = req
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	return f.logoutErr
}

func TestManager_StartsUnknown(t *testing.T) {
	m := NewManager(&fakeAPI{}, logger.Noop())
	assert.Equal(t, StateUnknown, m.State())
	assert.False(t, m.Authenticated())
}

func TestCheck_Authenticated(t *testing.T) {
	fake := &fakeAPI{checkResp: api.SessionResponse{Authenticated: true, Username: "admin"}}
	m := NewManager(fake, logger.Noop())

	state := m.Check(context.Background())

	assert.Equal(t, StateAuthenticated, state)
	assert.Equal(t, "admin", m.Username())
}

func TestCheck_Unauthenticated(t *testing.T) {
	fake := &fakeAPI{checkResp: api.SessionResponse{Authenticated: false}}
	m := NewManager(fake, logger.Noop())

	assert.Equal(t, StateUnauthenticated, m.Check(context.Background()))
	assert.Empty(t, m.Username())
}

func TestCheck_TransportFailureResolvesUnauthenticated(t *testing.T) {
	fake := &fakeAPI{checkErr: errors.New("dial tcp: connection refused")}
	log := logger.NewBufferLogger()
	m := NewManager(fake, log)

	// The check must never propagate the failure; it resolves to a safe state.
	assert.Equal(t, StateUnauthenticated, m.Check(context.Background()))
	assert.True(t, log.HasLevel("warn"))
}

func TestLogin_Success(t *testing.T) {
	fake := &fakeAPI{loginResp: api.SessionResponse{Authenticated: true, Username: "admin"}}
	m := NewManager(fake, logger.Noop())

	err := m.Login(context.Background(), "admin", "hunter2", "")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, "admin", m.Username())
	assert.Equal(t, 1, fake.loginCalls, "one attempt, no retries")
}

func TestLogin_UsernameFallsBackToInput(t *testing.T) {
	// Some servers omit the username in the login response.
	fake := &fakeAPI{loginResp: api.SessionResponse{Authenticated: true}}
	m := NewManager(fake, logger.Noop())

	require.NoError(t, m.Login(context.Background(), "admin", "pw", ""))
	assert.Equal(t, "admin", m.Username())
}

func TestLogin_WrongPassword(t *testing.T) {
	fake := &fakeAPI{loginResp: api.SessionResponse{Authenticated: false}}
	m := NewManager(fake, logger.Noop())

	err := m.Login(context.Background(), "admin", "wrong", "")
	require.Error(t, err)
	assert.True(t, wgerrors.IsCode(err, wgerrors.ErrAuth))
	assert.Equal(t, StateUnauthenticated, m.State())
}

func TestLogin_TransportFailureIsSameGenericError(t *testing.T) {
	fake := &fakeAPI{loginErr: errors.New("dial tcp: timeout")}
	m := NewManager(fake, logger.Noop())

	err := m.Login(context.Background(), "admin", "pw", "")
	require.Error(t, err)
	// Deliberately indistinguishable from a credential failure.
	assert.True(t, wgerrors.IsCode(err, wgerrors.ErrAuth))
	assert.NotContains(t, err.Error(), "timeout")
	assert.Equal(t, StateUnauthenticated, m.State())
}

func TestLogin_TOTPHandling(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		wantSent string
		wantErr  bool
	}{
		{name: "blank code omitted", code: "", wantSent: ""},
		{name: "whitespace code omitted", code: "  ", wantSent: ""},
		{name: "six digit code passed through", code: "123456", wantSent: "123456"},
		{name: "over-long code rejected locally", code: "1234567", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAPI{loginResp: api.SessionResponse{Authenticated: true}}
			m := NewManager(fake, logger.Noop())

			err := m.Login(context.Background(), "admin", "pw", tt.code)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, wgerrors.IsCode(err, wgerrors.ErrValidate))
				assert.Zero(t, fake.loginCalls, "validation failures never reach the network")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSent, fake.lastLogin.TOTPCode)
		})
	}
}

func TestLogout_AlwaysClearsLocalState(t *testing.T) {
	tests := []struct {
		name      string
		logoutErr error
	}{
		{name: "server accepts logout", logoutErr: nil},
		{name: "server call fails", logoutErr: errors.New("dial tcp: connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAPI{
				loginResp: api.SessionResponse{Authenticated: true, Username: "admin"},
				logoutErr: tt.logoutErr,
			}
			m := NewManager(fake, logger.Noop())
			require.NoError(t, m.Login(context.Background(), "admin", "pw", ""))

			m.Logout(context.Background())

			assert.Equal(t, StateUnauthenticated, m.State())
			assert.Empty(t, m.Username())
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unknown", StateUnknown.String())
	assert.Equal(t, "unauthenticated", StateUnauthenticated.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
}
