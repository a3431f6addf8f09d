// Package inspect serves a live trace session over HTTP.
//
// Handlers run on server goroutines and reach the toolkit and the session
// only through a dispatch looper, so the owner goroutine must keep running
// its event loop while the server is up.
package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/go-drift/tracegen/pkg/dispatch"
	"github.com/go-drift/tracegen/pkg/errors"
	"github.com/go-drift/tracegen/pkg/toolkit/headless"
	"github.com/go-drift/tracegen/pkg/trace"
)

// maxTreeDepth limits recursion on malformed trees.
const maxTreeDepth = 500

// TreeNode is one live widget in the serialized tree.
type TreeNode struct {
	Class    string            `json:"class"`
	Path     string            `json:"path"`
	Packed   bool              `json:"packed"`
	Options  map[string]string `json:"options,omitempty"`
	Content  []string          `json:"content,omitempty"`
	Depth    int               `json:"depth"`
	Children []TreeNode        `json:"children,omitempty"`
}

// RuntimeSample is a snapshot of runtime memory and GC stats.
type RuntimeSample struct {
	Timestamp    int64  `json:"ts"`
	HeapAlloc    uint64 `json:"heapAlloc"`
	HeapInuse    uint64 `json:"heapInuse"`
	NumGC        uint32 `json:"numGC"`
	PauseTotalNs uint64 `json:"pauseTotalNs"`
	Goroutines   int    `json:"goroutines"`
}

// Server exposes one session: its widget tree, its externs and the code
// recorded so far.
type Server struct {
	looper *dispatch.Looper
	tk     *headless.Toolkit
	s      *trace.Session
	name   string

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// New returns a server for s. name is the program name used by /code.
func New(looper *dispatch.Looper, tk *headless.Toolkit, s *trace.Session, name string) *Server {
	return &Server{looper: looper, tk: tk, s: s, name: name}
}

// Handler returns the routes of the server.
func (srv *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", srv.handleHealth)
	mux.HandleFunc("/tree", srv.handleTree)
	mux.HandleFunc("/externs", srv.handleExterns)
	mux.HandleFunc("/code", srv.handleCode)
	mux.HandleFunc("/runtime", srv.handleRuntime)
	return mux
}

// Start listens on port and serves in the background. It returns the
// actual port, which differs from port when port is 0.
func (srv *Server) Start(port int) (int, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.server != nil {
		return srv.listener.Addr().(*net.TCPAddr).Port, nil
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
	if err != nil {
		return 0, fmt.Errorf("inspect server listen: %w", err)
	}
	server := &http.Server{Handler: srv.Handler()}
	srv.server = server
	srv.listener = listener

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			srv.mu.Lock()
			srv.server = nil
			srv.listener = nil
			srv.mu.Unlock()
			errors.Report(errors.New("inspect.Serve", errors.KindUnknown, err))
		}
	}()

	return listener.Addr().(*net.TCPAddr).Port, nil
}

// Stop shuts the server down. It is a no-op when the server is not running.
func (srv *Server) Stop() {
	srv.mu.Lock()
	server := srv.server
	srv.server = nil
	srv.listener = nil
	srv.mu.Unlock()

	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}

func (srv *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (srv *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	v, err := srv.looper.Call(r.Context(), func(context.Context) (any, error) {
		return serializeTree(srv.tk.RootWidget(), 0), nil
	})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, v)
}

func (srv *Server) handleExterns(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	v, err := srv.looper.Call(r.Context(), func(context.Context) (any, error) {
		return srv.s.Externs(), nil
	})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, v)
}

// handleCode renders the code recorded so far and starts a new trace
// session, hence POST. A request abandoned before its turn on the owner
// goroutine leaves the session untouched.
func (srv *Server) handleCode(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	v, err := srv.looper.Call(r.Context(), func(context.Context) (any, error) {
		if err := r.Context().Err(); err != nil {
			return nil, err
		}
		return trace.Render(srv.s.Program(srv.name))
	})
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(v.(string)))
}

func (srv *Server) handleRuntime(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	writeJSON(w, RuntimeSample{
		Timestamp:    time.Now().UnixMilli(),
		HeapAlloc:    ms.HeapAlloc,
		HeapInuse:    ms.HeapInuse,
		NumGC:        ms.NumGC,
		PauseTotalNs: ms.PauseTotalNs,
		Goroutines:   runtime.NumGoroutine(),
	})
}

// serializeTree runs on the owner goroutine and copies everything it keeps.
func serializeTree(w *headless.Widget, depth int) TreeNode {
	node := TreeNode{
		Class:   w.Class,
		Path:    w.Path,
		Packed:  w.IsPacked(),
		Content: slices.Clone(w.Content),
		Depth:   depth,
	}
	if len(w.Options) > 0 {
		node.Options = make(map[string]string, len(w.Options))
		for _, opt := range w.Options {
			node.Options[opt.Name] = fmt.Sprint(opt.Value)
		}
	}
	if depth >= maxTreeDepth {
		return node
	}
	for _, child := range w.Children {
		if child.Destroyed {
			continue
		}
		node.Children = append(node.Children, serializeTree(child, depth+1))
	}
	return node
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// fail maps a dispatch failure to 503 and anything else to 500.
func fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.KindOf(err) == errors.KindDispatch {
		status = http.StatusServiceUnavailable
	}
	http.Error(w, err.Error(), status)
}

// writeJSON encodes to a buffer first so encoding errors become a 500.
func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
