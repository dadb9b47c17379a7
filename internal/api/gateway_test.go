package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rhalstead/wgdash/internal/errors"
	"github.com/rhalstead/wgdash/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, handler http.Handler) (*Gateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gw, err := New(srv.URL, 5*time.Second, logger.Noop())
	require.NoError(t, err)
	return gw, srv
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("not a url", 0, logger.Noop())
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	_, err = New("vpn.example.com", 0, logger.Noop()) // missing scheme
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "admin", req.Username)
			assert.Equal(t, "hunter2", req.Password)

			http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok-1", Path: "/"})
			json.NewEncoder(w).Encode(SessionResponse{Authenticated: true, Username: "admin"})
		case http.MethodGet:
			c, err := r.Cookie("session")
			if err != nil || c.Value != "tok-1" {
				json.NewEncoder(w).Encode(SessionResponse{Authenticated: false})
				return
			}
			json.NewEncoder(w).Encode(SessionResponse{Authenticated: true, Username: "admin"})
		}
	})

	gw, _ := newTestGateway(t, mux)
	ctx := context.Background()

	resp, err := gw.Login(ctx, LoginRequest{Username: "admin", Password: "hunter2"})
	require.NoError(t, err)
	assert.True(t, resp.Authenticated)
	assert.Equal(t, "admin", resp.Username)

	// The cookie from login must ride along on the next request.
	check, err := gw.CheckSession(ctx)
	require.NoError(t, err)
	assert.True(t, check.Authenticated)

	// And it must be exportable for persistence.
	cookies := gw.SessionCookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Equal(t, "tok-1", cookies[0].Value)
}

func TestLogin_OmitsBlankTOTP(t *testing.T) {
	var rawBody map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rawBody))
		json.NewEncoder(w).Encode(SessionResponse{Authenticated: true})
	})

	gw, _ := newTestGateway(t, mux)
	_, err := gw.Login(context.Background(), LoginRequest{Username: "admin", Password: "pw"})
	require.NoError(t, err)

	_, present := rawBody["totp_code"]
	assert.False(t, present, "blank totp_code must be omitted from the body")
}

func TestClientCRUD_PathsAndMethods(t *testing.T) {
	var seen []string
	mux := http.NewServeMux()
	record := func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/client":
			json.NewEncoder(w).Encode([]Client{{ID: "c1", Name: "laptop", PublicKey: "PK1", Enabled: 1}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/client":
			json.NewEncoder(w).Encode(Client{ID: "c2", Name: "phone", PublicKey: "PK2", Enabled: 1})
		case r.Method == http.MethodGet && r.URL.Path == "/api/client/c1":
			json.NewEncoder(w).Encode(Client{ID: "c1", Name: "laptop", PublicKey: "PK1", Enabled: 1})
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
	mux.HandleFunc("/", record)

	gw, _ := newTestGateway(t, mux)
	ctx := context.Background()

	clients, err := gw.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.True(t, clients[0].IsEnabled())

	created, err := gw.CreateClient(ctx, "phone")
	require.NoError(t, err)
	assert.Equal(t, "c2", created.ID)
	assert.NotEmpty(t, created.PublicKey, "server assigns key material")

	_, err = gw.GetClient(ctx, "c1")
	require.NoError(t, err)

	name := "renamed"
	require.NoError(t, gw.UpdateClient(ctx, "c1", UpdateClientRequest{Name: &name}))
	require.NoError(t, gw.EnableClient(ctx, "c1"))
	require.NoError(t, gw.DisableClient(ctx, "c1"))
	require.NoError(t, gw.RemoveClient(ctx, "c1"))

	assert.Equal(t, []string{
		"GET /api/client",
		"POST /api/client",
		"GET /api/client/c1",
		"PUT /api/client/c1",
		"PUT /api/client/c1/enable",
		"PUT /api/client/c1/disable",
		"DELETE /api/client/c1",
	}, seen)
}

func TestUpdateClient_PatchOmitsAbsentFields(t *testing.T) {
	var rawBody map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/client/c1", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rawBody))
		w.WriteHeader(http.StatusNoContent)
	})

	gw, _ := newTestGateway(t, mux)
	enabled := false
	require.NoError(t, gw.UpdateClient(context.Background(), "c1", UpdateClientRequest{Enabled: &enabled}))

	assert.Equal(t, map[string]interface{}{"enabled": false}, rawBody,
		"absent fields must not appear in the patch body")
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode string
	}{
		{"unauthorized maps to AUTH", http.StatusUnauthorized, errors.ErrAuth},
		{"missing id maps to NOTFOUND", http.StatusNotFound, errors.ErrNotFound},
		{"server error maps to TRANSPORT", http.StatusInternalServerError, errors.ErrTransport},
		{"conflict maps to TRANSPORT", http.StatusConflict, errors.ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			err := gw.RemoveClient(context.Background(), "ghost")
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.wantCode), "got: %v", err)
		})
	}
}

func TestNotFound_SurfacesServerDetail(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("client ghost does not exist"))
	}))

	err := gw.RemoveClient(context.Background(), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client ghost does not exist")
}

func TestNetworkFailure_IsTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	gw, err := New(srv.URL, time.Second, logger.Noop())
	require.NoError(t, err)
	srv.Close() // connection refused from here on

	_, err = gw.GetStats(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrTransport))
}

func TestStats_DecodesOptionalHandshake(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"public_key":"A","rx_bytes":10,"tx_bytes":5,"last_handshake_secs":1700000000},
			{"public_key":"B","rx_bytes":0,"tx_bytes":0}
		]`))
	})

	gw, _ := newTestGateway(t, mux)
	stats, err := gw.GetStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)

	require.NotNil(t, stats[0].LastHandshakeSecs)
	assert.Equal(t, int64(1700000000), *stats[0].LastHandshakeSecs)
	assert.Nil(t, stats[1].LastHandshakeSecs, "never-contacted peer has no handshake time")
}

func TestInterfaceAndSettings(t *testing.T) {
	var ifacePatch, settingsPatch map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/interface", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&ifacePatch))
			w.WriteHeader(http.StatusNoContent)
			return
		}
		json.NewEncoder(w).Encode(Interface{ID: "wg0", Name: "wg0", ListenPort: 51820, IPv4CIDR: "10.8.0.0/24"})
	})
	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&settingsPatch))
			w.WriteHeader(http.StatusNoContent)
			return
		}
		json.NewEncoder(w).Encode(Settings{WGHost: "vpn.example.com", WGPort: 51820})
	})

	gw, _ := newTestGateway(t, mux)
	ctx := context.Background()

	iface, err := gw.GetInterface(ctx)
	require.NoError(t, err)
	assert.Equal(t, 51820, iface.ListenPort)

	port := 51821
	require.NoError(t, gw.UpdateInterface(ctx, InterfacePatch{ListenPort: &port}))
	assert.Equal(t, map[string]interface{}{"listen_port": float64(51821)}, ifacePatch)

	settings, err := gw.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "vpn.example.com", settings.WGHost)

	dns := "1.1.1.1"
	require.NoError(t, gw.UpdateSettings(ctx, SettingsPatch{WGDefaultDNS: &dns}))
	assert.Equal(t, map[string]interface{}{"wg_default_dns": "1.1.1.1"}, settingsPatch)
}

func TestResourceURLs(t *testing.T) {
	gw, err := New("https://vpn.example.com", 0, logger.Noop())
	require.NoError(t, err)

	assert.Equal(t, "https://vpn.example.com/api/client/c1/qrcode.svg", gw.QRCodeURL("c1"))
	assert.Equal(t, "https://vpn.example.com/api/client/c1/configuration", gw.ConfigFileURL("c1"))
}

func TestDownloadConfig(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/client/c1/configuration", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[Interface]\nPrivateKey = x\n"))
	})

	gw, _ := newTestGateway(t, mux)
	conf, err := gw.DownloadConfig(context.Background(), "c1")
	require.NoError(t, err)
	assert.Contains(t, string(conf), "[Interface]")
}
