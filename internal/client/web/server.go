package web

import (
	"net/http"

	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/dmitrijs2005/ums/internal/client/session"
	"github.com/dmitrijs2005/ums/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	CookieName   string
	CookieSecure bool
	PageSize     int
}

type Server struct {
	opts     Options
	sessions *session.Registry
	logger   logging.Logger
	pages    *renderer
	metrics  *httpMetrics
	gatherer prometheus.Gatherer
}

var (
	staff     = []models.Role{models.RoleAdmin, models.RoleEmployee}
	adminOnly = []models.Role{models.RoleAdmin}
	students  = []models.Role{models.RoleStudent}
	everyone  = []models.Role{models.RoleAdmin, models.RoleEmployee, models.RoleStudent}
)

// NewServer parses the embedded templates and registers HTTP metrics on reg.
// A nil reg uses a private registry.
func NewServer(opts Options, sessions *session.Registry, logger logging.Logger, reg *prometheus.Registry) (*Server, error) {
	if opts.CookieName == "" {
		opts.CookieName = "ums_sid"
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}
	return &Server{
		opts:     opts,
		sessions: sessions,
		logger:   logger,
		pages:    pages,
		metrics:  newHTTPMetrics(reg),
		gatherer: reg,
	}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", http.RedirectHandler("/dashboard", http.StatusSeeOther).ServeHTTP)
		r.Get("/login", s.handleLoginPage)
		r.Post("/login", s.handleLogin)
		r.Get("/register", s.handleRegisterPage)
		r.Post("/register", s.handleRegister)
		r.Post("/logout", s.handleLogout)
		r.Get("/unauthorized", s.handleUnauthorized)

		r.With(s.require()).Get("/dashboard", s.handleDashboard)
		r.With(s.require(everyone...)).Get("/profile", s.handleProfile)
		r.With(s.require(everyone...)).Post("/profile", s.handleUpdateProfile)

		r.Group(func(r chi.Router) {
			r.Use(s.require(staff...))
			r.Get("/students", s.handleStudents)
			r.Get("/students/create", s.handleStudentCreatePage)
			r.Post("/students/create", s.handleStudentCreate)
			r.Get("/students/{id}", s.handleStudent)
			r.Get("/students/{id}/edit", s.handleStudentEditPage)
			r.Post("/students/{id}/edit", s.handleStudentEdit)
			r.Get("/students/{id}/delete", s.handleStudentDeleteConfirm)
			r.Post("/students/{id}/delete", s.handleStudentDelete)

			r.Get("/courses/create", s.handleCourseCreatePage)
			r.Post("/courses/create", s.handleCourseCreate)
			r.Get("/courses/{id}/edit", s.handleCourseEditPage)
			r.Post("/courses/{id}/edit", s.handleCourseEdit)
			r.Get("/courses/{id}/delete", s.handleCourseDeleteConfirm)
			r.Post("/courses/{id}/delete", s.handleCourseDelete)

			r.Get("/classes/create", s.handleClassCreatePage)
			r.Post("/classes/create", s.handleClassCreate)
			r.Get("/classes/{id}/edit", s.handleClassEditPage)
			r.Post("/classes/{id}/edit", s.handleClassEdit)

			r.Get("/enrollments", s.handleEnrollments)
			r.Get("/enrollments/create", s.handleEnrollmentCreatePage)
			r.Post("/enrollments/create", s.handleEnrollmentCreate)
			r.Post("/enrollments/{id}/grade", s.handleEnrollmentGrade)
			r.Get("/enrollments/{id}/delete", s.handleEnrollmentDeleteConfirm)
			r.Post("/enrollments/{id}/delete", s.handleEnrollmentDelete)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.require(adminOnly...))
			r.Get("/employees", s.handleEmployees)
			r.Get("/employees/create", s.handleEmployeeCreatePage)
			r.Post("/employees/create", s.handleEmployeeCreate)
			r.Get("/employees/{id}", s.handleEmployee)
			r.Get("/employees/{id}/edit", s.handleEmployeeEditPage)
			r.Post("/employees/{id}/edit", s.handleEmployeeEdit)
			r.Get("/employees/{id}/delete", s.handleEmployeeDeleteConfirm)
			r.Post("/employees/{id}/delete", s.handleEmployeeDelete)

			r.Get("/classes/{id}/delete", s.handleClassDeleteConfirm)
			r.Post("/classes/{id}/delete", s.handleClassDelete)
			r.Post("/classes/{id}/tas", s.handleAddTA)
			r.Post("/classes/{id}/tas/{taId}/remove", s.handleRemoveTA)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.require(students...))
			r.Get("/classes/{id}/enroll", s.handleEnrollConfirm)
			r.Post("/classes/{id}/enroll", s.handleEnroll)
			r.Get("/my-enrollments", s.handleMyEnrollments)
			r.Get("/my-enrollments/{id}/drop", s.handleDropConfirm)
			r.Post("/my-enrollments/{id}/drop", s.handleDrop)
		})

		r.With(s.require()).Get("/courses", s.handleCourses)
		r.With(s.require()).Get("/courses/{id}", s.handleCourse)
		r.With(s.require()).Get("/classes", s.handleClasses)
		r.With(s.require()).Get("/classes/{id}", s.handleClass)
	})

	return r
}
