package server

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/woozymasta/gmexport/internal/shell"

	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Assets   *shell.Holder
	Upstream *httputil.ReverseProxy
}

// NewServerContext wires the asset cache and, when upstream is set, a
// pass-through proxy for every request the shell does not answer itself.
func NewServerContext(assets *shell.Holder, upstream string) (*ServerContext, error) {
	s := &ServerContext{Assets: assets}

	if upstream != "" {
		target, err := url.Parse(upstream)
		if err != nil || target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("invalid upstream %q", upstream)
		}

		proxy := httputil.NewSingleHostReverseProxy(target)
		director := proxy.Director
		proxy.Director = func(r *http.Request) {
			director(r)
			r.Host = target.Host
		}
		proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("Upstream request failed")
			w.WriteHeader(http.StatusBadGateway)
		}
		s.Upstream = proxy
	}

	c := assets.Load()
	log.Info().
		Str("cache", c.Version()).
		Int("assets", len(c.Paths())).
		Str("upstream", upstream).
		Msg("Server context initialized")

	return s, nil
}

// Routes returns the request multiplexer wrapped in the request logger.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(shell.SharePath, s.HandleShareTarget)
	mux.HandleFunc("/", s.HandleShell)
	return RequestLogger(mux)
}
