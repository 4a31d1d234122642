package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/ums/internal/client/apiclient"
	"github.com/dmitrijs2005/ums/internal/client/guard"
	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/dmitrijs2005/ums/internal/client/views"
	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

const flashCookie = "ums_flash"

const layoutName = "layout"

type renderer struct {
	engine *html.Engine
}

var funcs = map[string]any{
	"hasRole": func(u *models.User, role string) bool { return u.HasRole(models.Role(role)) },
	"float": func(v *float64) string {
		if v == nil {
			return "-"
		}
		return strconv.FormatFloat(*v, 'f', 2, 64)
	},
	"int": func(v *int) string {
		if v == nil {
			return ""
		}
		return strconv.Itoa(*v)
	},
	"capacity":  views.Capacity,
	"enrollBtn": views.NewEnrollControl,
	"pageURL": func(base string, page int) string {
		return base + "?page=" + strconv.Itoa(page)
	},
}

// newRenderer parses every page under templates/. A page is named after its
// file and rendered inside layout.html, which places it with {{embed}}.
func newRenderer() (*renderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFuncMap(funcs)
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return &renderer{engine: engine}, nil
}

func (r *renderer) has(name string) bool {
	return name != layoutName && r.engine.Templates.Lookup(name) != nil
}

// page is what every template receives.
type page struct {
	Title string
	User  *models.User
	Flash string
	Error string
	Data  any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	s.renderPage(w, r, status, name, page{Data: data})
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	if !s.pages.has(name) {
		s.log(r.Context()).Error(r.Context(), "unknown template", "name", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if m := managerFrom(r.Context()); m != nil && p.User == nil {
		p.User = m.Current()
	}
	if p.Flash == "" {
		p.Flash = takeFlash(w, r)
	}

	var buf bytes.Buffer
	if err := s.pages.engine.Render(&buf, name, p, layoutName); err != nil {
		s.log(r.Context()).Error(r.Context(), "failed to render page", "name", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// setFlash leaves a one-shot message for the next page.
func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func takeFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

// redirectWithFlash is the outcome of a confirmed action.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, to, msg string) {
	if msg != "" {
		setFlash(w, msg)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// expired reports whether err is a backend 401 and, if so, sends the browser
// to the login page. The adapter has already cleared the session.
func expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, apiclient.ErrUnauthorized) {
		return false
	}
	redirectWithFlash(w, r, guard.LoginPath, "Your session has expired. Please sign in again.")
	return true
}

// fail renders the error page for a failed read.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if expired(w, r, err) {
		return
	}
	s.log(r.Context()).Warn(r.Context(), "backend call failed", "path", r.URL.Path, "error", err)
	status := http.StatusBadGateway
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		status = http.StatusNotFound
	}
	s.renderPage(w, r, status, "error", page{Title: "Error", Error: apiclient.UserMessage(err, fallback)})
}

// failAction reports a failed mutation through a flash on the redirect target.
func (s *Server) failAction(w http.ResponseWriter, r *http.Request, err error, to, fallback string) {
	if expired(w, r, err) {
		return
	}
	s.log(r.Context()).Warn(r.Context(), "backend action failed", "path", r.URL.Path, "error", err)
	redirectWithFlash(w, r, to, apiclient.UserMessage(err, fallback))
}

type confirmData struct {
	Message string
	Action  string
	Cancel  string
	Button  string
}

func (s *Server) confirm(w http.ResponseWriter, r *http.Request, title string, d confirmData) {
	s.renderPage(w, r, http.StatusOK, "confirm", page{Title: title, Data: d})
}

func pageParam(r *http.Request) int {
	p, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || p < 0 {
		return 0
	}
	return p
}

type listData[T any] struct {
	Items []T
	Pager views.Pager
	Base  string
}

func newListData[T any](p *models.Page[T], base string) listData[T] {
	return listData[T]{Items: p.Items, Pager: views.NewPager(p.Pagination), Base: base}
}

func userMessage(err error, fallback string) string {
	return apiclient.UserMessage(err, fallback)
}
