// Package diagserver exposes engine diagnostics (tile cache occupancy, the
// last query's iteration count) over a side-channel HTTP endpoint, so a
// caller can watch engine health without the primary result stream ever
// carrying anything but the route (§6: "Diagnostic progress may be emitted
// on a side-channel... but MUST NOT pollute the primary result stream").
package diagserver

import (
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/kestrelnav/bikeroute-core"
)

// snapshot is the JSON body served at /stats.
type snapshot struct {
	CacheTiles     int `json:"cache_tiles"`
	LastIterations int `json:"last_iterations"`
}

// Server serves engine diagnostics over HTTP. It wraps a *fasthttp.Server
// rather than net/http.
type Server struct {
	engine *bikeroute.Engine
	inner  *fasthttp.Server
}

// New builds a diagnostics server reading from engine. Addr is passed to
// ListenAndServe by the caller; New only wires the handler.
func New(engine *bikeroute.Engine) *Server {
	s := &Server{engine: engine}
	s.inner = &fasthttp.Server{
		Name:    "bikeroute-diagserver",
		Handler: s.handle,
	}
	return s
}

// ListenAndServe starts the diagnostics server on addr. It blocks until the
// server stops or errors.
func (s *Server) ListenAndServe(addr string) error {
	return s.inner.ListenAndServe(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.inner.Shutdown()
}

func (s *Server) handle(ctx *fasthttp.RequestCtx) {
	if string(ctx.Path()) != "/stats" {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		return
	}

	body, err := json.Marshal(snapshot{
		CacheTiles:     s.engine.CacheLen(),
		LastIterations: s.engine.LastIterationCount(),
	})
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetContentType("application/json")

	if acceptsBrotli(ctx) {
		ctx.Response.Header.Set("Content-Encoding", "br")
		w := brotli.NewWriter(ctx)
		defer w.Close()
		_, _ = w.Write(body)
		return
	}

	_, _ = ctx.Write(body)
}

func acceptsBrotli(ctx *fasthttp.RequestCtx) bool {
	for _, enc := range ctx.Request.Header.PeekAll("Accept-Encoding") {
		for _, part := range strings.Split(string(enc), ",") {
			if strings.TrimSpace(part) == "br" {
				return true
			}
		}
	}
	return false
}
