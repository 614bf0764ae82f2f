package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/polynode-io/polynode-boilerplate-webserver/pkg/validator"
)

// Stage names reported by Pipeline.Names.
const (
	StageContext  = "context"
	StageMain     = "main"
	StageNotFound = "not-found"
)

type namedStage struct {
	name string
	run  Stage
}

// Pipeline is the immutable stage sequence bound to one route.
// It runs the context stage, the server pre-hooks, the main stage and the
// not-found fallback, in that order, stopping at the first stage that settles
// the request. Errors, rejections and panics go to the server's error stage.
type Pipeline struct {
	server  *Server
	pattern string
	options RouteOptions
	stages  []namedStage
}

func newPipeline(s *Server, pattern string, main Stage, options RouteOptions) *Pipeline {
	stages := make([]namedStage, 0, len(s.preHooks)+3)
	stages = append(stages, namedStage{name: StageContext, run: s.contextStage})
	for i, hook := range s.preHooks {
		stages = append(stages, namedStage{name: fmt.Sprintf("pre-hook[%d]", i), run: hook})
	}
	stages = append(stages,
		namedStage{name: StageMain, run: main},
		namedStage{name: StageNotFound, run: notFoundStage},
	)
	return &Pipeline{
		server:  s,
		pattern: pattern,
		options: options,
		stages:  stages,
	}
}

// Names returns the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, st := range p.stages {
		names[i] = st.name
	}
	return names
}

// Options returns the effective route options.
func (p *Pipeline) Options() RouteOptions {
	return p.options.apply()
}

func (p *Pipeline) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := newContext(w, r, p.server, p.pattern, p.options)
	defer c.finish()

	for _, st := range p.stages {
		if err := c.Err(); err != nil {
			p.fail(c, st.name, withCause(c, err))
			return
		}

		err := runStage(c, st.run)
		if err == nil {
			err = c.Rejected()
		}
		if err != nil {
			p.fail(c, st.name, withCause(c, err))
			return
		}
		c.LogTrace("stage finished", slog.String("stage", st.name))
		if c.Settled() {
			return
		}
	}
}

// fail routes err to the error stage unless the response is already out.
func (p *Pipeline) fail(c *requestContext, stage string, err error) {
	c.settle(false, err)

	if c.Written() {
		c.LogError("stage failed after the response was sent",
			slog.String("stage", stage),
			slog.String("error", err.Error()),
		)
		return
	}

	c.LogDebug("request error: "+err.Error(), slog.String("stage", stage))

	defer func() {
		if rec := recover(); rec != nil {
			c.LogError("error stage panicked", slog.Any("panic", rec))
			if !c.Written() {
				http.Error(c.response, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}
	}()
	p.server.errorStage(c, err)
}

func runStage(c Context, stage Stage) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Value: rec, Stack: debug.Stack()}
		}
	}()
	return stage(c)
}

// withCause attaches the context cause (e.g. a timeout error) to a cancellation error.
func withCause(c context.Context, err error) error {
	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	cause := context.Cause(c)
	if cause == nil || errors.Is(err, cause) {
		return err
	}
	return errors.Join(cause, err)
}

// DefaultErrorStage logs err and writes it with ResolveWithError.
func DefaultErrorStage(c Context, err error) {
	var pe *PanicError
	switch {
	case errors.As(err, &pe):
		c.LogError("panic recovered",
			slog.Any("panic", pe.Value),
			slog.String("stack", string(pe.Stack)),
		)
	case StatusCodeOf(err) >= http.StatusInternalServerError:
		c.LogError("request failed", slog.String("error", err.Error()))
	}

	if werr := c.ResolveWithError(err); werr != nil {
		c.LogError("failed to write error response", slog.String("error", werr.Error()))
	}
}

func notFoundStage(c Context) error {
	return c.ResolveWithError(NotFound("no stage settled the request"))
}

// contextStage decodes the JSON body and runs the context enhancers.
func (s *Server) contextStage(c Context) error {
	rc, ok := c.(*requestContext)
	if ok {
		body, err := readBody(rc.response, rc.request, s.config.BodyLimit)
		if err != nil {
			return err
		}
		rc.body = body
	}

	for _, enhance := range s.contextEnhancers {
		if err := enhance(c); err != nil {
			return err
		}
	}
	return nil
}

// readBody decodes JSON request bodies. Other content types are left unread.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) (any, error) {
	if r.Body == nil || r.Body == http.NoBody || !isJSONRequest(r) {
		return nil, nil
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, BadRequest("request body too large", WithCause(err))
		}
		return nil, BadRequest("failed to read request body", WithCause(err))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	body, err := validator.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, BadRequest("malformed JSON body", WithCause(err))
	}
	return body, nil
}

func isJSONRequest(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return r.ContentLength != 0
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
