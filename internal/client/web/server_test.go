package web_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/ums/internal/client/apiclient"
	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/dmitrijs2005/ums/internal/client/repositories/sessions"
	"github.com/dmitrijs2005/ums/internal/client/session"
	"github.com/dmitrijs2005/ums/internal/client/web"
	"github.com/dmitrijs2005/ums/internal/fakebackend"
	"github.com/dmitrijs2005/ums/internal/logging"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	backend *fakebackend.Backend
	app     *httptest.Server
	client  *http.Client
}

func newHarness(t *testing.T, store sessions.Repository) *harness {
	t.Helper()
	b := fakebackend.New()
	api := httptest.NewServer(b.Router())
	t.Cleanup(api.Close)

	if store == nil {
		store = sessions.NewMemoryRepository()
	}
	c := apiclient.New(api.URL+fakebackend.BasePath, apiclient.WithLogger(logging.Nop()))
	reg := session.NewRegistry(store, c, logging.Nop(), time.Hour)

	srv, err := web.NewServer(web.Options{PageSize: 10}, reg, logging.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)
	app := httptest.NewServer(srv.Router())
	t.Cleanup(app.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &harness{
		backend: b,
		app:     app,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (h *harness) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := h.client.Get(h.app.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (h *harness) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := h.client.PostForm(h.app.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (h *harness) login(t *testing.T, email, password string) {
	t.Helper()
	resp, _ := h.post(t, "/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestGuard_SignedOutNeverReachesBackend(t *testing.T) {
	h := newHarness(t, nil)

	for _, path := range []string{"/classes", "/students", "/my-enrollments", "/dashboard"} {
		resp, _ := h.get(t, path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
	assert.Empty(t, h.backend.Requests())
}

func TestGuard_WrongRoleIsUnauthorized(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.AddUser("Sam", "Student", "sam@uni.test", "pw", models.RoleStudent)
	h.login(t, "sam@uni.test", "pw")
	before := len(h.backend.Requests())

	for _, path := range []string{"/students", "/employees", "/enrollments", "/courses/create"} {
		resp, _ := h.get(t, path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/unauthorized", resp.Header.Get("Location"), path)
	}
	assert.Len(t, h.backend.Requests(), before)

	resp, body := h.get(t, "/unauthorized")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "Access denied")
}

func TestLogin_Flow(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.AddUser("Ada", "Admin", "admin@uni.test", "secret", models.RoleAdmin)

	resp, body := h.post(t, "/login", url.Values{"email": {"admin@uni.test"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid email or password!")
	assert.Contains(t, body, `value="admin@uni.test"`)

	h.login(t, "admin@uni.test", "secret")

	resp, body = h.get(t, "/dashboard")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome back, Ada!")
	assert.Contains(t, body, `href="/employees"`)

	resp, _ = h.get(t, "/login")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp, _ = h.post(t, "/logout", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp, _ = h.get(t, "/dashboard")
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func (h *harness) sid(t *testing.T) string {
	t.Helper()
	u, err := url.Parse(h.app.URL)
	require.NoError(t, err)
	for _, c := range h.client.Jar.Cookies(u) {
		if c.Name == "ums_sid" {
			return c.Value
		}
	}
	return ""
}

func TestLogin_RotatesSessionID(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.AddUser("Ada", "Admin", "admin@uni.test", "secret", models.RoleAdmin)

	planted := uuid.NewString()
	u, err := url.Parse(h.app.URL)
	require.NoError(t, err)
	h.client.Jar.SetCookies(u, []*http.Cookie{{Name: "ums_sid", Value: planted, Path: "/"}})

	resp, _ := h.post(t, "/login", url.Values{"email": {"admin@uni.test"}, "password": {"wrong"}})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, planted, h.sid(t), "a failed sign-in keeps the browser's id")

	h.login(t, "admin@uni.test", "secret")
	fresh := h.sid(t)
	assert.NotEqual(t, planted, fresh)
	assert.NotEmpty(t, fresh)

	// whoever still holds the planted id is not signed in
	other := &http.Client{CheckRedirect: h.client.CheckRedirect}
	req, err := http.NewRequest(http.MethodGet, h.app.URL+"/dashboard", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "ums_sid", Value: planted})
	resp, err = other.Do(req)
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, body := h.get(t, "/dashboard")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome back, Ada!")
}

func TestRegister_RotatesSessionID(t *testing.T) {
	h := newHarness(t, nil)
	_, _ = h.get(t, "/login")
	before := h.sid(t)
	require.NotEmpty(t, before)

	resp, _ := h.post(t, "/register", url.Values{
		"firstName":       {"Sam"},
		"lastName":        {"Student"},
		"email":           {"sam@uni.test"},
		"password":        {"pw12345"},
		"confirmPassword": {"pw12345"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.NotEqual(t, before, h.sid(t))
}

func TestLogin_MissingFields(t *testing.T) {
	h := newHarness(t, nil)

	resp, body := h.post(t, "/login", url.Values{"email": {"x@uni.test"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "missing required field")
	assert.Empty(t, h.backend.Requests())
}

func TestRegister_PasswordMismatch(t *testing.T) {
	h := newHarness(t, nil)

	resp, body := h.post(t, "/register", url.Values{
		"firstName":       {"New"},
		"lastName":        {"Person"},
		"email":           {"new@uni.test"},
		"password":        {"a"},
		"confirmPassword": {"b"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Passwords do not match")
	assert.Empty(t, h.backend.Requests())
}

func TestExpiredSession_SingleRedirect(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.AddUser("Ada", "Admin", "admin@uni.test", "secret", models.RoleAdmin)
	h.login(t, "admin@uni.test", "secret")

	h.backend.RevokeAll()
	resp, _ := h.get(t, "/students")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	seen := len(h.backend.Requests())

	resp, body := h.get(t, "/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Your session has expired. Please sign in again.")

	resp, _ = h.get(t, "/students")
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Len(t, h.backend.Requests(), seen)
}

func TestStudent_EnrollFlow(t *testing.T) {
	h := newHarness(t, nil)
	b := h.backend
	b.AddUser("Sam", "Student", "sam@uni.test", "pw", models.RoleStudent)
	lecturer := b.EmployeeIDOf(b.AddUser("Lee", "Lecturer", "lee@uni.test", "pw", models.RoleEmployee))
	open := b.AddClass(b.AddCourse("CS101", "Intro", 3), lecturer, "FALL", 30)
	full := b.AddClass(b.AddCourse("CS102", "Data", 3), lecturer, "FALL", 1)
	b.SetCurrentCapacity(full, 1)
	h.login(t, "sam@uni.test", "pw")

	resp, body := h.get(t, "/classes")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Available classes")
	assert.Contains(t, body, `href="/classes/`+open+`/enroll"`)
	assert.NotContains(t, body, `href="/classes/`+full+`/enroll"`)
	assert.Contains(t, body, "<button type=\"button\" disabled>Full</button>")

	resp, body = h.get(t, "/classes/"+open+"/enroll")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Are you sure you want to enroll in this class?")

	resp, _ = h.post(t, "/classes/"+open+"/enroll", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/my-enrollments", resp.Header.Get("Location"))

	resp, body = h.get(t, "/my-enrollments")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Successfully enrolled in class!")
	assert.Contains(t, body, "CS101")

	k, ok := b.Class(open)
	require.True(t, ok)
	assert.Equal(t, 1, k.CurrentCapacity)

	_, body = h.get(t, "/my-enrollments")
	assert.NotContains(t, body, "Successfully enrolled in class!")
}

func TestStudent_EnrollFailureFlashes(t *testing.T) {
	h := newHarness(t, nil)
	b := h.backend
	b.AddUser("Sam", "Student", "sam@uni.test", "pw", models.RoleStudent)
	lecturer := b.EmployeeIDOf(b.AddUser("Lee", "Lecturer", "lee@uni.test", "pw", models.RoleEmployee))
	full := b.AddClass(b.AddCourse("CS102", "Data", 3), lecturer, "FALL", 1)
	b.SetCurrentCapacity(full, 1)
	h.login(t, "sam@uni.test", "pw")

	resp, _ := h.post(t, "/classes/"+full+"/enroll", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/classes", resp.Header.Get("Location"))

	_, body := h.get(t, "/classes")
	assert.Contains(t, body, "Class is full")
}

func TestAdmin_GradeRecomputesGPA(t *testing.T) {
	h := newHarness(t, nil)
	b := h.backend
	b.AddUser("Ada", "Admin", "admin@uni.test", "secret", models.RoleAdmin)
	studentID := b.StudentIDOf(b.AddUser("Sam", "Student", "sam@uni.test", "pw", models.RoleStudent))
	lecturer := b.EmployeeIDOf(b.AddUser("Lee", "Lecturer", "lee@uni.test", "pw", models.RoleEmployee))
	classID := b.AddClass(b.AddCourse("CS101", "Intro", 3), lecturer, "FALL", 30)
	h.login(t, "admin@uni.test", "secret")

	resp, _ := h.post(t, "/enrollments/create", url.Values{
		"studentId": {studentID},
		"classId":   {classID},
		"status":    {string(models.EnrollmentEnrolled)},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Len(t, b.Enrollments(), 1)
	enrollmentID := b.Enrollments()[0].ID

	resp, body := h.get(t, "/enrollments")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Enrollment created")
	assert.Contains(t, body, `action="/enrollments/`+enrollmentID+`/grade"`)

	resp, _ = h.post(t, "/enrollments/"+enrollmentID+"/grade", url.Values{"grade": {"A"}, "studentId": {studentID}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/enrollments", resp.Header.Get("Location"))

	s, ok := b.Student(studentID)
	require.True(t, ok)
	require.NotNil(t, s.GPA)
	assert.InDelta(t, 3.7, *s.GPA, 0.001)
}

func TestStaff_CourseFormValidation(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.AddUser("Eve", "Employee", "eve@uni.test", "pw", models.RoleEmployee)
	h.login(t, "eve@uni.test", "pw")

	resp, body := h.post(t, "/courses/create", url.Values{"courseCode": {"CS200"}, "credits": {"4"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "missing required field: title")
	assert.Contains(t, body, `value="CS200"`)

	resp, _ = h.post(t, "/courses/create", url.Values{"courseCode": {"CS200"}, "title": {"Systems"}, "credits": {"4"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, body = h.get(t, "/courses")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Systems")
}

func TestAdmin_TeachingAssistants(t *testing.T) {
	h := newHarness(t, nil)
	b := h.backend
	b.AddUser("Ada", "Admin", "admin@uni.test", "secret", models.RoleAdmin)
	lecturer := b.EmployeeIDOf(b.AddUser("Lee", "Lecturer", "lee@uni.test", "pw", models.RoleEmployee))
	ta := b.EmployeeIDOf(b.AddUser("Tim", "Assistant", "tim@uni.test", "pw", models.RoleEmployee))
	b.SetPosition(ta, models.PositionTeachingAssistant)
	classID := b.AddClass(b.AddCourse("CS101", "Intro", 3), lecturer, "FALL", 30)
	h.login(t, "admin@uni.test", "secret")

	resp, body := h.get(t, "/classes/" + classID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No teaching assistants assigned")
	assert.Contains(t, body, `<option value="`+ta+`"`)

	resp, _ = h.post(t, "/classes/"+classID+"/tas", url.Values{"employeeId": {ta}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body = h.get(t, "/classes/" + classID)
	assert.Contains(t, body, "Teaching assistant added")
	assert.Contains(t, body, `action="/classes/`+classID+`/tas/`+ta+`/remove"`)

	resp, _ = h.post(t, "/classes/"+classID+"/tas/"+ta+"/remove", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, body = h.get(t, "/classes/" + classID)
	assert.Contains(t, body, "No teaching assistants assigned")
}

func TestPagination_Links(t *testing.T) {
	h := newHarness(t, nil)
	b := h.backend
	b.AddUser("Ada", "Admin", "admin@uni.test", "secret", models.RoleAdmin)
	for i := range 25 {
		b.AddCourse("C"+string(rune('A'+i)), "Course", 3)
	}
	h.login(t, "admin@uni.test", "secret")

	_, body := h.get(t, "/courses?page=1")
	assert.Contains(t, body, `href="/courses?page=0">Previous`)
	assert.Contains(t, body, `href="/courses?page=2">Next`)
	assert.Contains(t, body, "<strong>2</strong>")

	_, body = h.get(t, "/courses?page=2")
	assert.Contains(t, body, "<span>Next</span>")
}

func TestHealthzAndMetrics(t *testing.T) {
	h := newHarness(t, nil)

	resp, body := h.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)

	h.get(t, "/login")
	resp, body = h.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `ums_http_requests_total{method="GET",route="/login",status="200"} 1`)
	assert.Contains(t, body, "ums_http_request_duration_seconds")
}

func TestRequestID(t *testing.T) {
	h := newHarness(t, nil)

	resp, _ := h.get(t, "/healthz")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req, err := http.NewRequest(http.MethodGet, h.app.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "5f0c6d1e-8a6f-4a8e-9a57-0b8e2f1f4d11")
	resp, err = h.client.Do(req)
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, "5f0c6d1e-8a6f-4a8e-9a57-0b8e2f1f4d11", resp.Header.Get("X-Request-ID"))
}

type brokenStore struct {
	sessions.Repository
}

func (brokenStore) Get(context.Context, string, string) ([]byte, error) {
	return nil, errors.New("disk gone")
}

func TestGuard_StorageFailureShowsLoading(t *testing.T) {
	h := newHarness(t, brokenStore{sessions.NewMemoryRepository()})

	resp, body := h.get(t, "/dashboard")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.True(t, strings.Contains(body, "Loading..."))
	assert.Empty(t, h.backend.Requests())
}
