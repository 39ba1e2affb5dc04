package backup_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"mediaspawner/internal/backup"
	"mediaspawner/internal/services"
	"mediaspawner/internal/testsupport"
)

type endpointRecorder struct {
	mu       sync.Mutex
	token    string
	bodies   []string
	failWith int
}

func (r *endpointRecorder) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		defer r.mu.Unlock()

		if req.Header.Get("Authorization") != "Bearer "+r.token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch {
		case req.Method == http.MethodGet && req.URL.Path == "/auth/status":
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"authenticated": true, "needsRefresh": false}`)
		case req.Method == http.MethodPut && req.URL.Path == "/backup":
			if r.failWith != 0 {
				http.Error(w, "storage unavailable", r.failWith)
				return
			}
			body, _ := io.ReadAll(req.Body)
			r.bodies = append(r.bodies, string(body))
			w.WriteHeader(http.StatusNoContent)
		case req.Method == http.MethodDelete && req.URL.Path == "/auth":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, req)
		}
	})
}

func TestHTTPClientRoundTrip(t *testing.T) {
	recorder := &endpointRecorder{token: "secret"}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithBackupEndpoint(server.URL, "secret"))
	client := backup.NewClient(cfg)
	ctx := context.Background()

	status, err := client.AuthStatus(ctx)
	if err != nil {
		t.Fatalf("AuthStatus failed: %v", err)
	}
	if !status.Authenticated {
		t.Fatal("expected authenticated status")
	}

	if err := client.Upload(ctx, []byte(`{"version":"1.0.0"}`)); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if len(recorder.bodies) != 1 || recorder.bodies[0] != `{"version":"1.0.0"}` {
		t.Fatalf("unexpected uploaded bodies: %v", recorder.bodies)
	}

	if err := client.Revoke(ctx); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
}

func TestHTTPClientBadTokenReportsUnauthenticated(t *testing.T) {
	recorder := &endpointRecorder{token: "secret"}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithBackupEndpoint(server.URL, "wrong"))
	client := backup.NewClient(cfg)

	status, err := client.AuthStatus(context.Background())
	if err != nil {
		t.Fatalf("a 401 is a status, not an error: %v", err)
	}
	if status.Authenticated {
		t.Fatal("bad token must report unauthenticated")
	}
}

func TestHTTPClientUploadFailure(t *testing.T) {
	recorder := &endpointRecorder{token: "secret", failWith: http.StatusServiceUnavailable}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithBackupEndpoint(server.URL, "secret"))
	client := backup.NewClient(cfg)

	err := client.Upload(context.Background(), []byte("{}"))
	if !errors.Is(err, services.ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
}

func TestClientWithoutEndpointIsNoop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	client := backup.NewClient(cfg)

	status, err := client.AuthStatus(context.Background())
	if err != nil {
		t.Fatalf("AuthStatus failed: %v", err)
	}
	if status.Authenticated {
		t.Fatal("missing endpoint must report unauthenticated")
	}
	if err := client.Upload(context.Background(), []byte("{}")); !errors.Is(err, services.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}
