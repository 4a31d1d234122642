package web

import (
	"net/http"

	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/dmitrijs2005/ums/internal/client/views"
	"github.com/go-chi/chi/v5"
)

type employeeFormData struct {
	Action    string
	Create    bool
	Form      models.EmployeeForm
	Positions []views.Option
	Statuses  []views.Option
}

func newEmployeeFormData(action string, create bool, f models.EmployeeForm) employeeFormData {
	return employeeFormData{
		Action:    action,
		Create:    create,
		Form:      f,
		Positions: views.StringOptions(models.Positions, f.Position),
		Statuses:  views.StringOptions(models.EmployeeStatuses, f.Status),
	}
}

func (s *Server) handleEmployees(w http.ResponseWriter, r *http.Request) {
	p, err := managerFrom(r.Context()).API().Employees.List(r.Context(), pageParam(r), s.opts.PageSize)
	if err != nil {
		s.fail(w, r, err, "Failed to fetch employees")
		return
	}
	s.renderPage(w, r, http.StatusOK, "employees", page{Title: "Employees", Data: newListData(p, "/employees")})
}

func (s *Server) handleEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := managerFrom(r.Context()).API().Employees.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err, "Employee not found")
		return
	}
	s.renderPage(w, r, http.StatusOK, "employee", page{Title: e.Person.FullName(), Data: e})
}

func (s *Server) handleEmployeeCreatePage(w http.ResponseWriter, r *http.Request) {
	f := models.EmployeeForm{Position: models.PositionLecturer, Status: models.EmployeeActive}
	s.renderPage(w, r, http.StatusOK, "employee_form", page{Title: "New employee", Data: newEmployeeFormData("/employees/create", true, f)})
}

func (s *Server) handleEmployeeCreate(w http.ResponseWriter, r *http.Request) {
	f := employeeForm(r)
	data := newEmployeeFormData("/employees/create", true, f)
	if err := f.Validate(); err != nil {
		s.renderPage(w, r, http.StatusBadRequest, "employee_form", page{Title: "New employee", Error: err.Error(), Data: data})
		return
	}
	e, err := managerFrom(r.Context()).API().Employees.Create(r.Context(), f)
	if err != nil {
		if expired(w, r, err) {
			return
		}
		s.renderPage(w, r, http.StatusBadRequest, "employee_form", page{Title: "New employee", Error: userMessage(err, "Failed to create employee"), Data: data})
		return
	}
	redirectWithFlash(w, r, "/employees/"+e.ID, "Employee created")
}

func (s *Server) handleEmployeeEditPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := managerFrom(r.Context()).API().Employees.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "Employee not found")
		return
	}
	data := newEmployeeFormData("/employees/"+id+"/edit", false, models.EmployeeFormFrom(*e))
	s.renderPage(w, r, http.StatusOK, "employee_form", page{Title: "Edit employee", Data: data})
}

func (s *Server) handleEmployeeEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f := employeeForm(r)
	data := newEmployeeFormData("/employees/"+id+"/edit", false, f)
	if err := f.Validate(); err != nil {
		s.renderPage(w, r, http.StatusBadRequest, "employee_form", page{Title: "Edit employee", Error: err.Error(), Data: data})
		return
	}
	if _, err := managerFrom(r.Context()).API().Employees.Update(r.Context(), id, f); err != nil {
		if expired(w, r, err) {
			return
		}
		s.renderPage(w, r, http.StatusBadRequest, "employee_form", page{Title: "Edit employee", Error: userMessage(err, "Failed to update employee"), Data: data})
		return
	}
	redirectWithFlash(w, r, "/employees/"+id, "Employee updated")
}

func (s *Server) handleEmployeeDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.confirm(w, r, "Delete employee", confirmData{
		Message: "Are you sure you want to delete this employee?",
		Action:  "/employees/" + id + "/delete",
		Cancel:  "/employees/" + id,
		Button:  "Delete",
	})
}

func (s *Server) handleEmployeeDelete(w http.ResponseWriter, r *http.Request) {
	if err := managerFrom(r.Context()).API().Employees.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.failAction(w, r, err, "/employees", "Failed to delete employee")
		return
	}
	redirectWithFlash(w, r, "/employees", "Employee deleted")
}
