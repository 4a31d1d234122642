package web

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/dmitrijs2005/ums/internal/client/session"
	"github.com/dmitrijs2005/ums/internal/client/views"
	"github.com/go-chi/chi/v5"
)

type enrollmentListData struct {
	listData[models.Enrollment]
	Grades []views.Option
}

type enrollmentFormData struct {
	Form     models.EnrollmentForm
	Students []views.Option
	Classes  []views.Option
	Grades   []views.Option
	Statuses []views.Option
}

func (s *Server) handleEnrollments(w http.ResponseWriter, r *http.Request) {
	p, err := managerFrom(r.Context()).API().Enrollments.List(r.Context(), pageParam(r), s.opts.PageSize)
	if err != nil {
		s.fail(w, r, err, "Failed to fetch enrollments")
		return
	}
	data := enrollmentListData{
		listData: newListData(p, "/enrollments"),
		Grades:   views.StringOptions(models.Grades, ""),
	}
	s.renderPage(w, r, http.StatusOK, "enrollments", page{Title: "Enrollments", Data: data})
}

// loadEnrollmentForm fetches the student and class pickers, all or nothing.
func (s *Server) loadEnrollmentForm(ctx context.Context, m *session.Manager, f models.EnrollmentForm) (enrollmentFormData, error) {
	var (
		studentList []models.Student
		classList   []models.CourseClass
	)
	err := views.Batch(ctx,
		func(ctx context.Context) error {
			p, err := m.API().Students.List(ctx, 0, optionPageSize)
			if err == nil {
				studentList = p.Items
			}
			return err
		},
		func(ctx context.Context) error {
			p, err := m.API().Classes.List(ctx, 0, optionPageSize)
			if err == nil {
				classList = p.Items
			}
			return err
		},
	)
	if err != nil {
		return enrollmentFormData{}, err
	}
	return enrollmentFormData{
		Form:     f,
		Students: views.StudentOptions(studentList, f.StudentID),
		Classes:  views.ClassOptions(classList, f.ClassID),
		Grades:   views.StringOptions(models.Grades, f.Grade),
		Statuses: views.StringOptions(models.EnrollmentStatuses, f.Status),
	}, nil
}

func (s *Server) handleEnrollmentCreatePage(w http.ResponseWriter, r *http.Request) {
	data, err := s.loadEnrollmentForm(r.Context(), managerFrom(r.Context()), models.EnrollmentForm{Status: models.EnrollmentEnrolled})
	if err != nil {
		s.fail(w, r, err, "Failed to load form data")
		return
	}
	s.renderPage(w, r, http.StatusOK, "enrollment_form", page{Title: "New enrollment", Data: data})
}

func (s *Server) handleEnrollmentCreate(w http.ResponseWriter, r *http.Request) {
	m := managerFrom(r.Context())
	f := enrollmentForm(r)
	msg := ""
	if err := f.Validate(); err != nil {
		msg = err.Error()
	} else if _, err := m.API().Enrollments.Create(r.Context(), f); err != nil {
		if expired(w, r, err) {
			return
		}
		msg = userMessage(err, "Failed to create enrollment")
	} else {
		redirectWithFlash(w, r, "/enrollments", "Enrollment created")
		return
	}

	data, err := s.loadEnrollmentForm(r.Context(), m, f)
	if err != nil {
		s.fail(w, r, err, "Failed to load form data")
		return
	}
	s.renderPage(w, r, http.StatusBadRequest, "enrollment_form", page{Title: "New enrollment", Error: msg, Data: data})
}

// handleEnrollmentGrade stores a grade and then has the backend recompute
// the student's GPA.
func (s *Server) handleEnrollmentGrade(w http.ResponseWriter, r *http.Request) {
	m := managerFrom(r.Context())
	id := chi.URLParam(r, "id")
	grade := field(r, "grade")
	if grade == "" {
		redirectWithFlash(w, r, "/enrollments", "Select a grade")
		return
	}
	e, err := m.API().Enrollments.UpdateGrade(r.Context(), id, grade)
	if err != nil {
		s.failAction(w, r, err, "/enrollments", "Failed to update grade")
		return
	}

	studentID := field(r, "studentId")
	if e != nil && e.Student.ID != "" {
		studentID = e.Student.ID
	}
	if studentID != "" {
		if _, err := m.API().Students.UpdateGPA(r.Context(), studentID); err != nil {
			s.failAction(w, r, err, "/enrollments", "Grade saved but GPA update failed")
			return
		}
	}
	redirectWithFlash(w, r, "/enrollments", "Grade updated")
}

func (s *Server) handleEnrollmentDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.confirm(w, r, "Delete enrollment", confirmData{
		Message: "Are you sure you want to delete this enrollment?",
		Action:  "/enrollments/" + id + "/delete",
		Cancel:  "/enrollments",
		Button:  "Delete",
	})
}

func (s *Server) handleEnrollmentDelete(w http.ResponseWriter, r *http.Request) {
	if err := managerFrom(r.Context()).API().Enrollments.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.failAction(w, r, err, "/enrollments", "Failed to delete enrollment")
		return
	}
	redirectWithFlash(w, r, "/enrollments", "Enrollment deleted")
}

func (s *Server) handleMyEnrollments(w http.ResponseWriter, r *http.Request) {
	p, err := managerFrom(r.Context()).API().Students.Enrollments(r.Context(), pageParam(r), s.opts.PageSize)
	if err != nil {
		s.fail(w, r, err, "Failed to fetch enrollments. Please try again.")
		return
	}
	s.renderPage(w, r, http.StatusOK, "my_enrollments", page{Title: "My enrollments", Data: newListData(p, "/my-enrollments")})
}

func (s *Server) handleDropConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.confirm(w, r, "Drop course", confirmData{
		Message: "Are you sure you want to drop this course? This action cannot be undone.",
		Action:  "/my-enrollments/" + id + "/drop",
		Cancel:  "/my-enrollments",
		Button:  "Drop",
	})
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	if err := managerFrom(r.Context()).API().Students.Drop(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.failAction(w, r, err, "/my-enrollments", "Failed to drop enrollment. Please try again.")
		return
	}
	redirectWithFlash(w, r, "/my-enrollments", "Enrollment dropped")
}
