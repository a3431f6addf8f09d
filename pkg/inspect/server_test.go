package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-drift/tracegen/pkg/dispatch"
	"github.com/go-drift/tracegen/pkg/toolkit/headless"
	"github.com/go-drift/tracegen/pkg/trace"
	"github.com/go-drift/tracegen/pkg/widgets"
)

// newServer mounts a labelled box and starts a looper on the test goroutine.
func newServer(t *testing.T) (*Server, *headless.Toolkit, context.Context) {
	t.Helper()
	tk := headless.New(headless.Plain)
	s := trace.NewSession(tk)
	if _, err := widgets.Mount(s, widgets.VBox(widgets.LabelOf("hi"))); err != nil {
		t.Fatal(err)
	}
	looper := dispatch.New(tk)
	owner, err := looper.Start(context.Background(), 10*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(looper.Stop)
	return New(looper, tk, s, "ui"), tk, owner
}

// waitForServer polls the health endpoint until ready or timeout.
func waitForServer(port int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	url := fmt.Sprintf("http://localhost:%d/health", port)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	return fmt.Errorf("server not ready after %v", timeout)
}

func TestTreeOnOwnerRunsInline(t *testing.T) {
	srv, _, owner := newServer(t)
	req := httptest.NewRequest(http.MethodGet, "/tree", nil).WithContext(owner)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var root TreeNode
	if err := json.Unmarshal(rec.Body.Bytes(), &root); err != nil {
		t.Fatal(err)
	}
	if root.Path != "." || len(root.Children) != 1 {
		t.Fatalf("root = %+v, want one child of .", root)
	}
	frame := root.Children[0]
	if frame.Class != "Frame" || !frame.Packed || frame.Depth != 1 {
		t.Errorf("frame = %+v", frame)
	}
	if len(frame.Children) != 1 || frame.Children[0].Options["text"] != "hi" {
		t.Errorf("frame children = %+v, want a label showing hi", frame.Children)
	}
}

func TestCodeFromServerGoroutine(t *testing.T) {
	srv, tk, _ := newServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	type result struct {
		status int
		body   string
		err    error
	}
	done := make(chan result, 1)
	go func() {
		defer cancel()
		resp, err := http.Post(ts.URL+"/code", "text/plain", nil)
		if err != nil {
			done <- result{err: err}
			return
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		done <- result{status: resp.StatusCode, body: string(body), err: err}
	}()

	tk.Run(ctx, 5*time.Millisecond)
	res := <-done
	if res.err != nil {
		t.Fatal(res.err)
	}
	if res.status != http.StatusOK {
		t.Fatalf("status = %d: %s", res.status, res.body)
	}
	if !strings.HasPrefix(res.body, "// ui: generated by tracegen") || !strings.Contains(res.body, `text="hi"`) {
		t.Errorf("code = %q", res.body)
	}
}

func TestAbandonedCodeRequestKeepsSession(t *testing.T) {
	srv, tk, owner := newServer(t)
	gone, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/code", nil).WithContext(gone)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code == http.StatusOK {
		t.Fatalf("abandoned request answered: %s", rec.Body.String())
	}

	tk.Advance(20 * time.Millisecond)
	if n := srv.looper.Pending(); n != 0 {
		t.Fatalf("pending = %d, want 0", n)
	}

	req = httptest.NewRequest(http.MethodPost, "/code", nil).WithContext(owner)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `text="hi"`) {
		t.Errorf("code = %q, want the recorded label", rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _, owner := newServer(t)
	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/code"},
		{http.MethodPost, "/tree"},
		{http.MethodDelete, "/health"},
	} {
		req := httptest.NewRequest(tt.method, tt.path, nil).WithContext(owner)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s = %d, want 405", tt.method, tt.path, rec.Code)
		}
	}
}

func TestStoppedLooperIsUnavailable(t *testing.T) {
	srv, _, _ := newServer(t)
	srv.looper.Stop()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/externs", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestStartStop(t *testing.T) {
	srv, _, _ := newServer(t)
	port, err := srv.Start(0)
	if err != nil {
		t.Fatalf("failed to start inspect server: %v", err)
	}
	defer srv.Stop()

	if err := waitForServer(port, 2*time.Second); err != nil {
		t.Fatalf("server not ready: %v", err)
	}
	again, err := srv.Start(0)
	if err != nil || again != port {
		t.Errorf("second Start = %d, %v; want %d", again, err, port)
	}

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/runtime", port))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var sample RuntimeSample
	if err := json.NewDecoder(resp.Body).Decode(&sample); err != nil {
		t.Fatal(err)
	}
	if sample.Goroutines == 0 || sample.Timestamp == 0 {
		t.Errorf("sample = %+v", sample)
	}

	srv.Stop()
	srv.Stop()
}
