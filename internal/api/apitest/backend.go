// Package apitest runs an in-memory stand-in for the insights backend.
package apitest

import (
	"net"
	"sync"
	"testing"
	"time"

	"rift-rewind/internal/api"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

type Call struct {
	Method string
	Path   string
	Query  map[string]string
	Body   string
}

type route struct {
	status int
	body   string
	delay  time.Duration
}

type Backend struct {
	ln *fasthttputil.InmemoryListener

	mu     sync.Mutex
	routes map[string]route
	calls  []Call
}

func New(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		ln:     fasthttputil.NewInmemoryListener(),
		routes: make(map[string]route),
	}
	srv := &fasthttp.Server{Handler: b.serve}
	go func() {
		_ = srv.Serve(b.ln)
	}()
	t.Cleanup(func() {
		_ = b.ln.Close()
	})
	return b
}

// Handle answers every request to path with status and body.
func (b *Backend) Handle(path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[path] = route{status: status, body: body}
}

// HandleDelayed is Handle with the response held back for delay.
func (b *Backend) HandleDelayed(path string, delay time.Duration, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[path] = route{status: status, body: body, delay: delay}
}

func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

func (b *Backend) Paths() []string {
	calls := b.Calls()
	paths := make([]string, len(calls))
	for i, c := range calls {
		paths[i] = c.Path
	}
	return paths
}

func (b *Backend) Client() *api.RiftClient {
	hc := &fasthttp.Client{
		Dial: func(string) (net.Conn, error) {
			return b.ln.Dial()
		},
	}
	return api.NewRiftClientWith("http://rift.test/", hc, zerolog.Nop())
}

func (b *Backend) serve(ctx *fasthttp.RequestCtx) {
	call := Call{
		Method: string(ctx.Method()),
		Path:   string(ctx.Path()),
		Query:  make(map[string]string),
		Body:   string(ctx.PostBody()),
	}
	ctx.QueryArgs().VisitAll(func(k, v []byte) {
		call.Query[string(k)] = string(v)
	})

	b.mu.Lock()
	b.calls = append(b.calls, call)
	r, ok := b.routes[call.Path]
	b.mu.Unlock()

	if !ok {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		ctx.SetBodyString("not found")
		return
	}
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(r.status)
	ctx.SetBodyString(r.body)
}
