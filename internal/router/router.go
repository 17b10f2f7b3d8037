// Package router matches recognized text against an ordered table of
// trigger phrases. First match wins; unmatched text falls through to the
// AI provider.
package router

import (
	"context"
	"regexp"
	"strings"

	log "log/slog"
)

// Handler runs a matched command. matches holds the regexp submatches of
// the lowercased input (index 0 is the full match). The returned string
// is spoken to the user.
type Handler func(ctx context.Context, matches []string) (string, error)

type route struct {
	name    string
	pattern *regexp.Regexp
	handle  Handler
}

// Router evaluates routes in registration order, deterministically.
type Router struct {
	routes []route
}

func New() *Router { return &Router{} }

// Add compiles pattern and appends the route. Panics on a bad pattern;
// route tables are static.
func (r *Router) Add(name, pattern string, h Handler) {
	r.routes = append(r.routes, route{
		name:    name,
		pattern: regexp.MustCompile(pattern),
		handle:  h,
	})
}

// Dispatch tests text against the table. Returns (reply, true, err) when
// a route matched, (_, false, nil) when the text should go to the AI.
func (r *Router) Dispatch(ctx context.Context, text string) (string, bool, error) {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, rt := range r.routes {
		m := rt.pattern.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		log.Debug("Command matched", "route", rt.name, "text", text)
		reply, err := rt.handle(ctx, m)
		return reply, true, err
	}
	return "", false, nil
}
