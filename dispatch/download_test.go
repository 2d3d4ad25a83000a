package dispatch

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResolveFilename(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	tests := []struct {
		name     string
		header   http.Header
		fallback string
		want     string
	}{
		{
			name:   "quoted disposition",
			header: http.Header{"Content-Disposition": {`attachment; filename="logs.csv"`}},
			want:   "logs.csv",
		},
		{
			name:   "bare disposition",
			header: http.Header{"Content-Disposition": {`attachment; filename=report.xlsx`}},
			want:   "report.xlsx",
		},
		{
			name:   "malformed disposition falls back to split",
			header: http.Header{"Content-Disposition": {`attachment;; filename="a b.txt"; size=3`}},
			want:   "a b.txt",
		},
		{
			name:   "path components stripped",
			header: http.Header{"Content-Disposition": {`attachment; filename="../../etc/passwd"`}},
			want:   "passwd",
		},
		{
			name:     "caller fallback",
			header:   http.Header{"Content-Type": {"text/csv"}},
			fallback: "users.csv",
			want:     "users.csv",
		},
		{
			name:   "timestamp with mime extension",
			header: http.Header{"Content-Type": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"}},
			want:   "1700000000000.xlsx",
		},
		{
			name:   "content type parameters ignored",
			header: http.Header{"Content-Type": {"text/plain; charset=utf-8"}},
			want:   "1700000000000.txt",
		},
		{
			name:   "unknown type",
			header: http.Header{"Content-Type": {"application/x-unknown"}},
			want:   "1700000000000.bin",
		},
		{
			name:   "no headers",
			header: http.Header{},
			want:   "1700000000000.bin",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveFilename(tc.header, tc.fallback, now); got != tc.want {
				t.Fatalf("ResolveFilename = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDownloadSavesBody(t *testing.T) {
	var query string
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="operation-logs.csv"`)
		_, _ = w.Write([]byte("id,action\n1,login\n"))
	}))
	dir := t.TempDir()

	name, err := Download(context.Background(), h.d, Request{
		URL:    "/api/system/logs/export",
		Params: map[string]string{"username": "admin"},
	}, dir)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if name != "operation-logs.csv" {
		t.Fatalf("unexpected name %q", name)
	}
	if query != "username=admin" {
		t.Fatalf("unexpected query %q", query)
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "id,action\n1,login\n" {
		t.Fatalf("unexpected content %q", data)
	}
	if h.d.Pending() != 0 {
		t.Fatal("expected pending set drained")
	}
}

func TestDownloadUnauthorizedTearsDown(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	dir := t.TempDir()

	if _, err := Download(context.Background(), h.d, Request{URL: "/x"}, dir); err == nil {
		t.Fatal("expected error")
	}
	if h.session.Token() != "" {
		t.Fatal("expected session cleared")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no files written, got %d", len(entries))
	}
}

func TestDownloadMissingDirectoryFails(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))

	_, err := Download(context.Background(), h.d, Request{URL: "/x", Filename: "a.txt"}, filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	if len(h.notifier.all()) != 1 {
		t.Fatal("expected failure notice")
	}
}
