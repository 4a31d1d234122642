package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/ums/internal/client/guard"
	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/dmitrijs2005/ums/internal/client/session"
	"github.com/dmitrijs2005/ums/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

type ctxKey int

const (
	managerKey ctxKey = iota
	loggerKey
)

const requestIDHeader = "X-Request-ID"

func managerFrom(ctx context.Context) *session.Manager {
	m, _ := ctx.Value(managerKey).(*session.Manager)
	return m
}

func (s *Server) log(ctx context.Context) logging.Logger {
	if l, ok := ctx.Value(loggerKey).(logging.Logger); ok {
		return l
	}
	return s.logger
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), loggerKey, s.logger.With("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	m := &httpMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ums_http_requests_total",
			Help: "Pages served, by route pattern and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ums_http_request_duration_seconds",
			Help:    "Time to serve a page, including backend calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		s.metrics.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		s.log(r.Context()).Debug(r.Context(), "request served",
			"method", r.Method, "route", route, "status", status, "duration", time.Since(start))
	})
}

// withSession resolves the browser's session id, issuing a new one when the
// cookie is missing or malformed, and restores its Manager from storage. A
// storage failure leaves the Manager unhydrated and the guard shows the
// loading page.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(s.opts.CookieName); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				sid = c.Value
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			s.setSessionCookie(w, sid)
		}

		logger := s.log(r.Context()).With("sid", sid)
		m := s.sessions.Manager(sid)
		if err := m.Hydrate(r.Context()); err != nil {
			logger.Warn(r.Context(), "session storage unavailable", "error", err)
		}

		ctx := context.WithValue(r.Context(), managerKey, m)
		ctx = context.WithValue(ctx, loggerKey, logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// signIn runs fn against a Manager under a fresh session id. On success the
// browser moves to the new id and the previous one is dropped; on failure the
// new id is discarded and the browser keeps its old one.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, fn func(m *session.Manager) error) error {
	sid := uuid.NewString()
	m := s.sessions.Manager(sid)
	if err := fn(m); err != nil {
		s.sessions.Remove(sid)
		return err
	}

	old := managerFrom(r.Context())
	if old.Current() != nil {
		old.Logout(r.Context())
	}
	s.sessions.Remove(old.Namespace())
	s.setSessionCookie(w, sid)
	return nil
}

// require wraps a page with the route guard. No roles means any signed-in
// user.
func (s *Server) require(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := managerFrom(r.Context())
			state := guard.State{Initializing: !m.Hydrated(), User: m.Current()}
			switch d := guard.Evaluate(state, roles); d {
			case guard.Loading:
				s.render(w, r, http.StatusServiceUnavailable, "loading", nil)
			case guard.Render:
				next.ServeHTTP(w, r)
			default:
				http.Redirect(w, r, d.Target(), http.StatusSeeOther)
			}
		})
	}
}
