package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	goConsole "github.com/MrEthical07/goConsole"
	"github.com/MrEthical07/goConsole/jwt"
	"github.com/stretchr/testify/require"
)

// backend is a minimal console API for driving the CLI end to end.
type backend struct {
	tokens *jwt.Manager

	mu         sync.Mutex
	revoked    bool
	statusPuts []string
}

func newBackend(t *testing.T) (*backend, *httptest.Server) {
	t.Helper()

	tokens, err := jwt.NewManager(jwt.Config{
		AccessTTL:  time.Hour,
		PrivateKey: []byte("cli-test-secret"),
	})
	require.NoError(t, err)

	b := &backend{tokens: tokens}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req goConsole.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password != "secret" {
			reply(w, 1, "Invalid username or password", nil, nil)
			return
		}
		token, err := tokens.Issue(1, req.Username)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		reply(w, 0, "ok", goConsole.LoginResponse{
			Token: token,
			UserInfo: goConsole.UserInfo{
				ID:          1,
				Username:    req.Username,
				Permissions: []string{"system:user:*", "system:menu:list"},
			},
		}, nil)
	})
	mux.HandleFunc("GET /api/auth/logout", b.authed(func(w http.ResponseWriter, r *http.Request) {
		reply(w, 0, "ok", nil, nil)
	}))
	mux.HandleFunc("GET /api/system/users", b.authed(func(w http.ResponseWriter, r *http.Request) {
		total := int64(2)
		reply(w, 0, "ok", []goConsole.User{
			{ID: 1, Username: "admin", Email: "admin@example.com", Status: goConsole.StatusNormal},
			{ID: 2, Username: "ops", Email: "ops@example.com", Status: goConsole.StatusDisabled},
		}, &total)
	}))
	mux.HandleFunc("PUT /api/system/users/{id}/status", b.authed(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.statusPuts = append(b.statusPuts, r.PathValue("id")+" "+strings.TrimSpace(string(body)))
		b.mu.Unlock()
		reply(w, 0, "ok", nil, nil)
	}))
	mux.HandleFunc("GET /api/system/menus", b.authed(func(w http.ResponseWriter, r *http.Request) {
		total := int64(3)
		reply(w, 0, "ok", []goConsole.Menu{
			{ID: 1, Name: "System", Code: "system"},
			{ID: 2, ParentID: 1, Name: "Users", Code: "system:user"},
			{ID: 3, Name: "Dashboard", Code: "dashboard"},
		}, &total)
	}))
	mux.HandleFunc("GET /api/system/logs/export", b.authed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="operation_logs.csv"`)
		_, _ = io.WriteString(w, "id,username\n1,admin\n")
	}))
	mux.HandleFunc("GET /api/dashboard/stats", b.authed(func(w http.ResponseWriter, r *http.Request) {
		reply(w, 0, "ok", goConsole.DashboardStats{TotalUsers: 12, TotalRoles: 3}, nil)
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *backend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		revoked := b.revoked
		b.mu.Unlock()
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if _, err := b.tokens.Verify(token); revoked || err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (b *backend) revoke() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked = true
}

func (b *backend) statusUpdates() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.statusPuts...)
}

func reply(w http.ResponseWriter, code int, message string, data any, total *int64) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    code,
		"message": message,
		"data":    data,
		"total":   total,
	})
}

// cliEnv points the CLI at srv with a throwaway session file and download
// directory, and returns both paths.
func cliEnv(t *testing.T, srv *httptest.Server) (sessionFile, downloadDir string) {
	t.Helper()
	dir := t.TempDir()
	sessionFile = filepath.Join(dir, "state", "session")
	downloadDir = filepath.Join(dir, "downloads")

	t.Setenv(goConsole.EnvBaseURL, srv.URL)
	t.Setenv(goConsole.EnvSessionBackend, string(goConsole.SessionFile))
	t.Setenv(goConsole.EnvSessionFile, sessionFile)
	t.Setenv(goConsole.EnvDownloadDir, downloadDir)
	t.Setenv(EnvPassword, "")
	return sessionFile, downloadDir
}

type result struct {
	stdout string
	stderr string
	err    error
}

func run(stdin string, args ...string) result {
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func login(t *testing.T) {
	t.Helper()
	res := run("", "login", "-u", "admin", "-p", "secret")
	require.NoError(t, res.err, res.stderr)
	require.Contains(t, res.stdout, "logged in as admin")
}
