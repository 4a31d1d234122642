package web

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/dmitrijs2005/ums/internal/client/session"
	"github.com/dmitrijs2005/ums/internal/client/views"
	"github.com/go-chi/chi/v5"
)

// optionPageSize bounds the records fetched to fill a picker.
const optionPageSize = 100

type classListData struct {
	listData[models.CourseClass]
	StudentView bool
}

type classDetailData struct {
	Class      *models.CourseClass
	Candidates []views.Option
}

type classFormData struct {
	Action    string
	Create    bool
	Form      models.ClassForm
	Courses   []views.Option
	Lecturers []views.Option
	Statuses  []views.Option
}

// studentOnly is true for sessions that browse classes as a student.
func studentOnly(u *models.User) bool {
	return u.HasRole(models.RoleStudent) && !u.HasRole(models.RoleAdmin) && !u.HasRole(models.RoleEmployee)
}

func (s *Server) handleClasses(w http.ResponseWriter, r *http.Request) {
	m := managerFrom(r.Context())
	asStudent := studentOnly(m.Current())

	var (
		p   *models.Page[models.CourseClass]
		err error
	)
	if asStudent {
		p, err = m.API().Students.Classes(r.Context(), pageParam(r), s.opts.PageSize)
	} else {
		p, err = m.API().Classes.List(r.Context(), pageParam(r), s.opts.PageSize)
	}
	if err != nil {
		s.fail(w, r, err, "Failed to fetch classes")
		return
	}
	data := classListData{listData: newListData(p, "/classes"), StudentView: asStudent}
	s.renderPage(w, r, http.StatusOK, "classes", page{Title: "Classes", Data: data})
}

func (s *Server) handleClass(w http.ResponseWriter, r *http.Request) {
	m := managerFrom(r.Context())
	id := chi.URLParam(r, "id")

	var data classDetailData
	fetches := []func(ctx context.Context) error{
		func(ctx context.Context) error {
			k, err := m.API().Classes.Get(ctx, id)
			data.Class = k
			return err
		},
	}
	if m.HasRole(models.RoleAdmin) {
		fetches = append(fetches, func(ctx context.Context) error {
			p, err := m.API().Employees.List(ctx, 0, optionPageSize)
			if err != nil {
				return err
			}
			data.Candidates = views.EmployeeOptions(p.Items, "")
			return nil
		})
	}
	if err := views.Batch(r.Context(), fetches...); err != nil {
		s.fail(w, r, err, "Failed to fetch class details")
		return
	}
	s.renderPage(w, r, http.StatusOK, "class", page{Title: "Class details", Data: data})
}

// loadClassForm fetches the course and lecturer pickers, and the class itself
// when id is set, all or nothing.
func (s *Server) loadClassForm(ctx context.Context, m *session.Manager, id string, f models.ClassForm) (classFormData, error) {
	var (
		courses   []models.Course
		employees []models.Employee
	)
	fetches := []func(ctx context.Context) error{
		func(ctx context.Context) error {
			p, err := m.API().Courses.List(ctx, 0, optionPageSize)
			if err == nil {
				courses = p.Items
			}
			return err
		},
		func(ctx context.Context) error {
			p, err := m.API().Employees.List(ctx, 0, optionPageSize)
			if err == nil {
				employees = p.Items
			}
			return err
		},
	}
	if id != "" {
		fetches = append(fetches, func(ctx context.Context) error {
			k, err := m.API().Classes.Get(ctx, id)
			if err == nil {
				f = models.ClassFormFrom(*k)
			}
			return err
		})
	}
	if err := views.Batch(ctx, fetches...); err != nil {
		return classFormData{}, err
	}
	return classFormData{
		Form:      f,
		Courses:   views.CourseOptions(courses, f.CourseID),
		Lecturers: views.LecturerOptions(employees, f.LecturerID),
		Statuses:  views.StringOptions(models.ClassStatuses, f.Status),
	}, nil
}

func (s *Server) handleClassCreatePage(w http.ResponseWriter, r *http.Request) {
	data, err := s.loadClassForm(r.Context(), managerFrom(r.Context()), "", models.NewClassForm())
	if err != nil {
		s.fail(w, r, err, "Failed to load form data")
		return
	}
	data.Action, data.Create = "/classes/create", true
	s.renderPage(w, r, http.StatusOK, "class_form", page{Title: "New class", Data: data})
}

func (s *Server) handleClassCreate(w http.ResponseWriter, r *http.Request) {
	m := managerFrom(r.Context())
	f := classForm(r)
	if err := f.Validate(); err != nil {
		s.classFormError(w, r, m, "/classes/create", f, err.Error())
		return
	}
	k, err := m.API().Classes.Create(r.Context(), f)
	if err != nil {
		if expired(w, r, err) {
			return
		}
		s.classFormError(w, r, m, "/classes/create", f, userMessage(err, "Failed to create class"))
		return
	}
	redirectWithFlash(w, r, "/classes/"+k.ID, "Class created")
}

func (s *Server) handleClassEditPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, err := s.loadClassForm(r.Context(), managerFrom(r.Context()), id, models.ClassForm{})
	if err != nil {
		s.fail(w, r, err, "Failed to load class")
		return
	}
	data.Action = "/classes/" + id + "/edit"
	s.renderPage(w, r, http.StatusOK, "class_form", page{Title: "Edit class", Data: data})
}

func (s *Server) handleClassEdit(w http.ResponseWriter, r *http.Request) {
	m := managerFrom(r.Context())
	id := chi.URLParam(r, "id")
	action := "/classes/" + id + "/edit"
	f := classForm(r)
	if err := f.Validate(); err != nil {
		s.classFormError(w, r, m, action, f, err.Error())
		return
	}
	if _, err := m.API().Classes.Update(r.Context(), id, f); err != nil {
		if expired(w, r, err) {
			return
		}
		s.classFormError(w, r, m, action, f, userMessage(err, "Failed to update class"))
		return
	}
	redirectWithFlash(w, r, "/classes/"+id, "Class updated")
}

// classFormError re-renders the class form with the submitted values.
func (s *Server) classFormError(w http.ResponseWriter, r *http.Request, m *session.Manager, action string, f models.ClassForm, msg string) {
	data, err := s.loadClassForm(r.Context(), m, "", f)
	if err != nil {
		s.fail(w, r, err, "Failed to load form data")
		return
	}
	data.Action, data.Create = action, action == "/classes/create"
	s.renderPage(w, r, http.StatusBadRequest, "class_form", page{Title: "Class", Error: msg, Data: data})
}

func (s *Server) handleClassDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.confirm(w, r, "Delete class", confirmData{
		Message: "Are you sure you want to delete this class?",
		Action:  "/classes/" + id + "/delete",
		Cancel:  "/classes/" + id,
		Button:  "Delete",
	})
}

func (s *Server) handleClassDelete(w http.ResponseWriter, r *http.Request) {
	if err := managerFrom(r.Context()).API().Classes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.failAction(w, r, err, "/classes", "Failed to delete class")
		return
	}
	redirectWithFlash(w, r, "/classes", "Class deleted")
}

func (s *Server) handleAddTA(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	back := "/classes/" + id
	employeeID := field(r, "employeeId")
	if employeeID == "" {
		redirectWithFlash(w, r, back, "Select an employee")
		return
	}
	if err := managerFrom(r.Context()).API().Classes.AddTA(r.Context(), id, employeeID); err != nil {
		s.failAction(w, r, err, back, "Failed to add teaching assistant")
		return
	}
	redirectWithFlash(w, r, back, "Teaching assistant added")
}

func (s *Server) handleRemoveTA(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	back := "/classes/" + id
	if err := managerFrom(r.Context()).API().Classes.RemoveTA(r.Context(), id, chi.URLParam(r, "taId")); err != nil {
		s.failAction(w, r, err, back, "Failed to remove teaching assistant")
		return
	}
	redirectWithFlash(w, r, back, "Teaching assistant removed")
}

func (s *Server) handleEnrollConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.confirm(w, r, "Enroll", confirmData{
		Message: "Are you sure you want to enroll in this class?",
		Action:  "/classes/" + id + "/enroll",
		Cancel:  "/classes",
		Button:  "Enroll",
	})
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	if _, err := managerFrom(r.Context()).API().Students.Enroll(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.failAction(w, r, err, "/classes", "Failed to enroll")
		return
	}
	redirectWithFlash(w, r, "/my-enrollments", "Successfully enrolled in class!")
}
