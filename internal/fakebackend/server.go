package fakebackend

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/go-chi/chi/v5"
)

// BasePath is where the API is mounted.
const BasePath = "/api/v1"

type Backend struct {
	secret []byte

	mu               sync.Mutex
	seq              int
	accounts         map[string]*account
	byEmail          map[string]string
	students         *table[models.Student]
	studentByPerson  map[string]string
	employees        *table[models.Employee]
	employeeByPerson map[string]string
	courses          *table[models.Course]
	classes          *table[models.CourseClass]
	enrollments      *table[models.Enrollment]
	tas              map[string][]string

	revoked    map[string]bool
	revokeAll  bool
	requests   []string
	delay      map[string]chan struct{}
	lowerCased bool
}

func New() *Backend {
	return &Backend{
		secret:           []byte("fake-backend-secret"),
		accounts:         make(map[string]*account),
		byEmail:          make(map[string]string),
		students:         newTable[models.Student](),
		studentByPerson:  make(map[string]string),
		employees:        newTable[models.Employee](),
		employeeByPerson: make(map[string]string),
		courses:          newTable[models.Course](),
		classes:          newTable[models.CourseClass](),
		enrollments:      newTable[models.Enrollment](),
		tas:              make(map[string][]string),
		revoked:          make(map[string]bool),
		delay:            make(map[string]chan struct{}),
	}
}

// RevokeAll makes every token fail with 401 from now on.
func (b *Backend) RevokeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revokeAll = true
}

// Revoke makes one token fail with 401.
func (b *Backend) Revoke(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[token] = true
}

// LowerCaseKeys switches record keys to lower case ("user", "classes").
func (b *Backend) LowerCaseKeys(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lowerCased = on
}

// Requests lists "METHOD /path" for every request received, in order.
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

// Hold blocks requests to "METHOD /path" until the returned release func is
// called.
func (b *Backend) Hold(route string) (release func()) {
	ch := make(chan struct{})
	b.mu.Lock()
	b.delay[route] = ch
	b.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.delay, route)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *Backend) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)

	r.Route(BasePath, func(r chi.Router) {
		r.Post("/auth/login", b.handleLogin)
		r.Post("/auth/register", b.handleRegister)

		r.Group(func(r chi.Router) {
			r.Use(b.authenticate)

			r.Post("/auth/refresh", b.handleRefresh)
			r.Get("/auth/me", b.handleMe)
			r.Put("/auth/me", b.handleUpdateMe)

			r.With(requireRoles(models.RoleStudent)).Get("/students/me", b.handleStudentMe)
			r.With(requireRoles(models.RoleStudent)).Get("/students/enrollments", b.handleStudentEnrollments)
			r.With(requireRoles(models.RoleStudent)).Post("/students/enroll", b.handleEnroll)
			r.With(requireRoles(models.RoleStudent)).Post("/students/drop/{id}", b.handleDrop)
			r.With(requireRoles(models.RoleStudent)).Get("/students/classes", b.handleStudentClasses)

			r.Group(func(r chi.Router) {
				r.Use(requireRoles(models.RoleAdmin, models.RoleEmployee))
				r.Get("/students", b.handleListStudents)
				r.Post("/students", b.handleCreateStudent)
				r.Get("/students/{id}", b.handleGetStudent)
				r.Put("/students/{id}", b.handleUpdateStudent)
				r.Delete("/students/{id}", b.handleDeleteStudent)
				r.Put("/students/{id}/gpa", b.handleUpdateGPA)

				r.Get("/employees", b.handleListEmployees)

				r.Post("/courses", b.handleCreateCourse)
				r.Put("/courses/{id}", b.handleUpdateCourse)
				r.Delete("/courses/{id}", b.handleDeleteCourse)

				r.Post("/classes", b.handleCreateClass)
				r.Put("/classes/{id}", b.handleUpdateClass)

				r.Get("/enrollments", b.handleListEnrollments)
				r.Post("/enrollments", b.handleCreateEnrollment)
				r.Get("/enrollments/{id}", b.handleGetEnrollment)
				r.Put("/enrollments/{id}", b.handleUpdateEnrollment)
				r.Delete("/enrollments/{id}", b.handleDeleteEnrollment)
				r.Put("/enrollments/{id}/grade", b.handleUpdateGrade)
			})

			r.With(requireRoles(models.RoleEmployee)).Get("/employees/me", b.handleEmployeeMe)

			r.Group(func(r chi.Router) {
				r.Use(requireRoles(models.RoleAdmin))
				r.Post("/employees", b.handleCreateEmployee)
				r.Get("/employees/{id}", b.handleGetEmployee)
				r.Put("/employees/{id}", b.handleUpdateEmployee)
				r.Delete("/employees/{id}", b.handleDeleteEmployee)

				r.Delete("/classes/{id}", b.handleDeleteClass)
				r.Post("/classes/{id}/tas", b.handleAddTA)
				r.Delete("/classes/{id}/tas/{taId}", b.handleRemoveTA)
			})

			r.Get("/courses", b.handleListCourses)
			r.Get("/courses/{id}", b.handleGetCourse)
			r.Get("/classes", b.handleListClasses)
			r.Get("/classes/{id}", b.handleGetClass)
		})
	})
	return r
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + strings.TrimPrefix(r.URL.Path, BasePath)
		b.mu.Lock()
		b.requests = append(b.requests, route)
		hold := b.delay[route]
		b.mu.Unlock()
		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

type accountKey struct{}

func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, r, http.StatusUnauthorized, "Full authentication is required to access this resource")
			return
		}
		userID, err := userIDFromToken(token, b.secret)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "Invalid token")
			return
		}
		b.mu.Lock()
		acc, ok := b.accounts[userID]
		revoked := b.revokeAll || b.revoked[token]
		b.mu.Unlock()
		if !ok || revoked {
			writeError(w, r, http.StatusUnauthorized, "Token expired")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), accountKey{}, acc)))
	})
}

func currentAccount(r *http.Request) *account {
	acc, _ := r.Context().Value(accountKey{}).(*account)
	return acc
}

func requireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acc := currentAccount(r)
			if acc == nil || !acc.roles.Intersects(roles) {
				writeError(w, r, http.StatusForbidden, "Access Denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) string {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

type envelope struct {
	Timestamp string         `json:"timestamp"`
	Status    int            `json:"status"`
	Message   string         `json:"message,omitempty"`
	Error     string         `json:"error,omitempty"`
	Path      string         `json:"path,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, r *http.Request, status int, message string, data map[string]any) {
	writeJSON(w, status, envelope{
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000"),
		Status:    status,
		Message:   message,
		Path:      r.URL.Path,
		Data:      data,
	})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, envelope{
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000"),
		Status:    status,
		Message:   message,
		Path:      r.URL.Path,
	})
}

// writeFailure reports a business-rule violation with the reason in the
// error field and a generic message.
func writeFailure(w http.ResponseWriter, r *http.Request, status int, reason string) {
	writeJSON(w, status, envelope{
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000"),
		Status:    status,
		Message:   "Request failed",
		Error:     reason,
		Path:      r.URL.Path,
	})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size <= 0 {
		size = 10
	}
	return page, size
}

// key applies the configured casing to a record key.
func (b *Backend) key(name string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lowerCased {
		return strings.ToLower(name[:1]) + name[1:]
	}
	return name
}

func paginationBlock(page, size, totalPages, totalItems int) map[string]any {
	return map[string]any{
		"currentPage": page + 1,
		"totalPages":  totalPages,
		"totalItems":  totalItems,
		"pageSize":    size,
	}
}
