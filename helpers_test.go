package goConsole

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goConsole/jwt"
)

// fakeConsole is an in-process stand-in for the console backend.
type fakeConsole struct {
	t      *testing.T
	tokens *jwt.Manager

	mu          sync.Mutex
	permissions []string
	revoked     bool
	failLogout  bool
	requests    []recordedRequest
}

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   []byte
	Header http.Header
}

func newFakeConsole(t *testing.T) (*fakeConsole, *httptest.Server) {
	t.Helper()

	tokens, err := jwt.NewManager(jwt.Config{
		AccessTTL:  time.Hour,
		PrivateKey: []byte("console-test-secret"),
	})
	if err != nil {
		t.Fatalf("jwt manager: %v", err)
	}

	f := &fakeConsole{
		t:           t,
		tokens:      tokens,
		permissions: []string{"system:user:*", "system:menu:list", "system:log:list"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", f.login)
	mux.HandleFunc("GET /api/auth/logout", f.authed(func(w http.ResponseWriter, r *http.Request) {
		if f.failLogout {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		writeOK(w, nil, nil)
	}))
	mux.HandleFunc("GET /api/auth/me", f.authed(func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, UserInfo{ID: 1, Username: "admin", RealName: "Administrator", Permissions: f.currentPermissions()}, nil)
	}))
	mux.HandleFunc("POST /api/auth/avatar", f.authed(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("avatar")
		if err != nil {
			writeEnvelope(w, 1, "missing avatar", nil, nil)
			return
		}
		defer file.Close()
		writeOK(w, "/avatars/"+header.Filename, nil)
	}))

	mux.HandleFunc("GET /api/system/users", f.authed(func(w http.ResponseWriter, r *http.Request) {
		total := int64(2)
		writeOK(w, []User{{ID: 1, Username: "admin", Status: StatusNormal}, {ID: 2, Username: "ops", Status: StatusDisabled}}, &total)
	}))
	mux.HandleFunc("POST /api/system/users", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeOK(w, User{ID: 3, Username: req.Username, Email: req.Email, Status: req.Status}, nil)
	}))
	mux.HandleFunc("PUT /api/system/users/{id}", f.authed(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var req UpdateUserRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeOK(w, User{ID: id, Email: req.Email}, nil)
	}))
	mux.HandleFunc("DELETE /api/system/users/{id}", f.authed(okHandler))
	mux.HandleFunc("PUT /api/system/users/{id}/status", f.authed(okHandler))
	mux.HandleFunc("PUT /api/system/users/{id}/reset-password", f.authed(okHandler))
	mux.HandleFunc("GET /api/system/users/status-options", f.authed(func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, []Option{{Label: "Normal", Value: 1}, {Label: "Disabled", Value: 2}}, nil)
	}))

	mux.HandleFunc("GET /api/system/roles", f.authed(func(w http.ResponseWriter, r *http.Request) {
		total := int64(1)
		writeOK(w, []Role{{ID: 1, Name: "Admin", Code: "admin", Status: StatusNormal}}, &total)
	}))
	mux.HandleFunc("GET /api/system/roles/options", f.authed(func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, []Option{{Label: "Admin", Value: 1}}, nil)
	}))

	mux.HandleFunc("GET /api/system/menus", f.authed(func(w http.ResponseWriter, r *http.Request) {
		total := int64(4)
		writeOK(w, []Menu{
			{ID: 1, ParentID: 0, Name: "System", Code: "system"},
			{ID: 2, ParentID: 1, Name: "Users", Code: "system:user"},
			{ID: 3, ParentID: 2, Name: "Create user", Code: "system:user:create"},
			{ID: 4, ParentID: 0, Name: "Dashboard", Code: "dashboard"},
		}, &total)
	}))
	mux.HandleFunc("GET /api/system/menus/options", f.authed(func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, []Option{{Label: "System", Value: 1}}, nil)
	}))

	mux.HandleFunc("GET /api/system/dicts/type/{type}", f.authed(func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, []Dict{{ID: 1, DictType: r.PathValue("type"), Label: "Male", Value: "m", IsDefault: true}}, nil)
	}))
	mux.HandleFunc("PUT /api/system/dicts/{id}", f.authed(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 1, "Dictionary entry is read-only", nil, nil)
	}))

	mux.HandleFunc("GET /api/system/logs/export", f.authed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="operation_logs.csv"`)
		_, _ = io.WriteString(w, "id,username,action\n1,admin,LOGIN\n")
	}))

	mux.HandleFunc("GET /api/dashboard/stats", f.authed(func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, DashboardStats{TotalUsers: 12, ActiveUsers: 7, TotalRoles: 3, SystemUptime: "3d 4h"}, nil)
	}))
	mux.HandleFunc("GET /api/dashboard/health", f.authed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))

	srv := httptest.NewServer(f.record(mux))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeConsole) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   body,
			Header: r.Header.Clone(),
		})
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *fakeConsole) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password != "secret" {
		writeEnvelope(w, 1, "Invalid username or password", nil, nil)
		return
	}
	token, err := f.tokens.Issue(1, req.Username)
	if err != nil {
		f.t.Errorf("issue token: %v", err)
		http.Error(w, "issue", http.StatusInternalServerError)
		return
	}
	writeOK(w, LoginResponse{
		Token:    token,
		UserInfo: UserInfo{ID: 1, Username: req.Username, RealName: "Admin", Permissions: f.currentPermissions()},
	}, nil)
}

func (f *fakeConsole) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		revoked := f.revoked
		f.mu.Unlock()
		if revoked {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if _, err := f.tokens.Verify(token); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (f *fakeConsole) revoke() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = true
}

func (f *fakeConsole) currentPermissions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.permissions...)
}

func (f *fakeConsole) lastRequest() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		f.t.Fatal("no request recorded")
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakeConsole) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, nil, nil)
}

func writeOK(w http.ResponseWriter, data any, total *int64) {
	writeEnvelope(w, 0, "ok", data, total)
}

func writeEnvelope(w http.ResponseWriter, code int, message string, data any, total *int64) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    code,
		"message": message,
		"data":    data,
		"total":   total,
	})
}

type testClient struct {
	*Client
	notices *ChannelNotifier
}

func newTestClient(t *testing.T, srv *httptest.Server, configure ...func(*Builder)) *testClient {
	t.Helper()

	cfg := DefaultConfig()
	cfg.API.BaseURL = srv.URL
	cfg.API.DownloadDir = t.TempDir()
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

	notices := NewChannelNotifier(64)
	b := New().WithConfig(cfg).WithHTTPClient(srv.Client()).WithNotifier(notices)
	for _, fn := range configure {
		fn(b)
	}
	c, err := b.Build()
	if err != nil {
		t.Fatalf("build client: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return &testClient{Client: c, notices: notices}
}

func (c *testClient) drainNotices() []Notice {
	var out []Notice
	for {
		select {
		case n := <-c.notices.Notices():
			out = append(out, n)
		default:
			return out
		}
	}
}

func loginAdmin(t *testing.T, c *testClient) *UserInfo {
	t.Helper()
	user, err := c.Auth().Login(t.Context(), LoginRequest{Username: "admin", Password: "secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return user
}
