package web

import (
	"net/http"

	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/dmitrijs2005/ums/internal/client/views"
	"github.com/go-chi/chi/v5"
)

type studentFormData struct {
	Action   string
	Create   bool
	Form     models.StudentForm
	Statuses []views.Option
}

func newStudentFormData(action string, create bool, f models.StudentForm) studentFormData {
	return studentFormData{
		Action:   action,
		Create:   create,
		Form:     f,
		Statuses: views.StringOptions(models.StudentStatuses, f.Status),
	}
}

func (s *Server) handleStudents(w http.ResponseWriter, r *http.Request) {
	p, err := managerFrom(r.Context()).API().Students.List(r.Context(), pageParam(r), s.opts.PageSize)
	if err != nil {
		s.fail(w, r, err, "Failed to fetch students")
		return
	}
	s.renderPage(w, r, http.StatusOK, "students", page{Title: "Students", Data: newListData(p, "/students")})
}

func (s *Server) handleStudent(w http.ResponseWriter, r *http.Request) {
	st, err := managerFrom(r.Context()).API().Students.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err, "Student not found")
		return
	}
	s.renderPage(w, r, http.StatusOK, "student", page{Title: st.Person.FullName(), Data: st})
}

func (s *Server) handleStudentCreatePage(w http.ResponseWriter, r *http.Request) {
	f := models.StudentForm{Status: models.StudentActive}
	s.renderPage(w, r, http.StatusOK, "student_form", page{Title: "New student", Data: newStudentFormData("/students/create", true, f)})
}

func (s *Server) handleStudentCreate(w http.ResponseWriter, r *http.Request) {
	f := studentForm(r)
	data := newStudentFormData("/students/create", true, f)
	if err := f.Validate(); err != nil {
		s.renderPage(w, r, http.StatusBadRequest, "student_form", page{Title: "New student", Error: err.Error(), Data: data})
		return
	}
	st, err := managerFrom(r.Context()).API().Students.Create(r.Context(), f)
	if err != nil {
		if expired(w, r, err) {
			return
		}
		s.renderPage(w, r, http.StatusBadRequest, "student_form", page{Title: "New student", Error: userMessage(err, "Failed to create student"), Data: data})
		return
	}
	redirectWithFlash(w, r, "/students/"+st.ID, "Student created")
}

func (s *Server) handleStudentEditPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := managerFrom(r.Context()).API().Students.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "Student not found")
		return
	}
	data := newStudentFormData("/students/"+id+"/edit", false, models.StudentFormFrom(*st))
	s.renderPage(w, r, http.StatusOK, "student_form", page{Title: "Edit student", Data: data})
}

func (s *Server) handleStudentEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f := studentForm(r)
	data := newStudentFormData("/students/"+id+"/edit", false, f)
	if err := f.Validate(); err != nil {
		s.renderPage(w, r, http.StatusBadRequest, "student_form", page{Title: "Edit student", Error: err.Error(), Data: data})
		return
	}
	if _, err := managerFrom(r.Context()).API().Students.Update(r.Context(), id, f); err != nil {
		if expired(w, r, err) {
			return
		}
		s.renderPage(w, r, http.StatusBadRequest, "student_form", page{Title: "Edit student", Error: userMessage(err, "Failed to update student"), Data: data})
		return
	}
	redirectWithFlash(w, r, "/students/"+id, "Student updated")
}

func (s *Server) handleStudentDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.confirm(w, r, "Delete student", confirmData{
		Message: "Are you sure you want to delete this student?",
		Action:  "/students/" + id + "/delete",
		Cancel:  "/students/" + id,
		Button:  "Delete",
	})
}

func (s *Server) handleStudentDelete(w http.ResponseWriter, r *http.Request) {
	if err := managerFrom(r.Context()).API().Students.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.failAction(w, r, err, "/students", "Failed to delete student")
		return
	}
	redirectWithFlash(w, r, "/students", "Student deleted")
}
