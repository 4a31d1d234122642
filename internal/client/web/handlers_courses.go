package web

import (
	"net/http"

	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/go-chi/chi/v5"
)

type courseFormData struct {
	Action string
	Create bool
	Form   models.CourseForm
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	p, err := managerFrom(r.Context()).API().Courses.List(r.Context(), pageParam(r), s.opts.PageSize)
	if err != nil {
		s.fail(w, r, err, "Failed to fetch courses")
		return
	}
	s.renderPage(w, r, http.StatusOK, "courses", page{Title: "Courses", Data: newListData(p, "/courses")})
}

func (s *Server) handleCourse(w http.ResponseWriter, r *http.Request) {
	c, err := managerFrom(r.Context()).API().Courses.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err, "Course not found")
		return
	}
	s.renderPage(w, r, http.StatusOK, "course", page{Title: c.Title, Data: c})
}

func (s *Server) handleCourseCreatePage(w http.ResponseWriter, r *http.Request) {
	data := courseFormData{Action: "/courses/create", Create: true, Form: models.CourseForm{Credits: 3}}
	s.renderPage(w, r, http.StatusOK, "course_form", page{Title: "New course", Data: data})
}

func (s *Server) handleCourseCreate(w http.ResponseWriter, r *http.Request) {
	f := courseForm(r)
	data := courseFormData{Action: "/courses/create", Create: true, Form: f}
	if err := f.Validate(); err != nil {
		s.renderPage(w, r, http.StatusBadRequest, "course_form", page{Title: "New course", Error: err.Error(), Data: data})
		return
	}
	c, err := managerFrom(r.Context()).API().Courses.Create(r.Context(), f)
	if err != nil {
		if expired(w, r, err) {
			return
		}
		s.renderPage(w, r, http.StatusBadRequest, "course_form", page{Title: "New course", Error: userMessage(err, "Failed to create course"), Data: data})
		return
	}
	redirectWithFlash(w, r, "/courses/"+c.ID, "Course created")
}

func (s *Server) handleCourseEditPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := managerFrom(r.Context()).API().Courses.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "Course not found")
		return
	}
	data := courseFormData{Action: "/courses/" + id + "/edit", Form: models.CourseFormFrom(*c)}
	s.renderPage(w, r, http.StatusOK, "course_form", page{Title: "Edit course", Data: data})
}

func (s *Server) handleCourseEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f := courseForm(r)
	data := courseFormData{Action: "/courses/" + id + "/edit", Form: f}
	if err := f.Validate(); err != nil {
		s.renderPage(w, r, http.StatusBadRequest, "course_form", page{Title: "Edit course", Error: err.Error(), Data: data})
		return
	}
	if _, err := managerFrom(r.Context()).API().Courses.Update(r.Context(), id, f); err != nil {
		if expired(w, r, err) {
			return
		}
		s.renderPage(w, r, http.StatusBadRequest, "course_form", page{Title: "Edit course", Error: userMessage(err, "Failed to update course"), Data: data})
		return
	}
	redirectWithFlash(w, r, "/courses/"+id, "Course updated")
}

func (s *Server) handleCourseDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.confirm(w, r, "Delete course", confirmData{
		Message: "Are you sure you want to delete this course?",
		Action:  "/courses/" + id + "/delete",
		Cancel:  "/courses/" + id,
		Button:  "Delete",
	})
}

func (s *Server) handleCourseDelete(w http.ResponseWriter, r *http.Request) {
	if err := managerFrom(r.Context()).API().Courses.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.failAction(w, r, err, "/courses", "Failed to delete course")
		return
	}
	redirectWithFlash(w, r, "/courses", "Course deleted")
}
