package fakebackend

import (
	"math"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/go-chi/chi/v5"
)

func (b *Backend) handleListStudents(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	b.mu.Lock()
	all := b.students.all(nil)
	b.mu.Unlock()
	items, totalPages := paginate(all, page, size)
	writeData(w, r, http.StatusOK, "Students retrieved successfully", map[string]any{
		b.key("Students"): items,
		"pagination":      paginationBlock(page, size, totalPages, len(all)),
	})
}

func (b *Backend) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	s, ok := b.students.get(chi.URLParam(r, "id"))
	var out models.Student
	if ok {
		out = *s
	}
	b.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "Student not found with id: "+chi.URLParam(r, "id"))
		return
	}
	writeData(w, r, http.StatusOK, "Student retrieved successfully", map[string]any{b.key("Student"): out})
}

func (b *Backend) handleStudentMe(w http.ResponseWriter, r *http.Request) {
	acc := currentAccount(r)
	b.mu.Lock()
	s, ok := b.students.get(b.studentByPerson[acc.person.ID])
	var out models.Student
	if ok {
		out = *s
	}
	b.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "Student profile not found")
		return
	}
	writeData(w, r, http.StatusOK, "Student profile retrieved", map[string]any{b.key("Student"): out})
}

func (b *Backend) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var in models.StudentForm
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}
	if err := in.Validate(); err != nil {
		writeFailure(w, r, http.StatusBadRequest, err.Error())
		return
	}
	b.mu.Lock()
	if _, exists := b.byEmail[strings.ToLower(in.Email)]; exists {
		b.mu.Unlock()
		writeFailure(w, r, http.StatusBadRequest, "Email already exists: "+in.Email)
		return
	}
	password := in.Password
	if password == "" {
		password = "changeme"
	}
	personID := b.addUserLocked(in.FirstName, in.LastName, in.Email, password, models.RoleStudent)
	s, _ := b.students.get(b.studentByPerson[personID])
	applyStudentForm(s, in)
	b.accounts[personID].person = s.Person
	out := *s
	b.mu.Unlock()
	writeData(w, r, http.StatusCreated, "Student created successfully", map[string]any{b.key("Student"): out})
}

func applyStudentForm(s *models.Student, in models.StudentForm) {
	s.Person.FirstName = in.FirstName
	s.Person.LastName = in.LastName
	s.Person.Phone = in.Phone
	s.Person.Address = in.Address
	s.Person.DateOfBirth = in.DateOfBirth
	s.Major = in.Major
	s.AcademicYear = in.AcademicYear
	if in.GPA != nil {
		s.GPA = in.GPA
	}
	s.Status = in.Status
}

func (b *Backend) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	var in models.StudentForm
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}
	if err := in.Validate(); err != nil {
		writeFailure(w, r, http.StatusBadRequest, err.Error())
		return
	}
	b.mu.Lock()
	s, ok := b.students.get(chi.URLParam(r, "id"))
	if !ok {
		b.mu.Unlock()
		writeError(w, r, http.StatusNotFound, "Student not found with id: "+chi.URLParam(r, "id"))
		return
	}
	applyStudentForm(s, in)
	if acc, ok := b.accounts[s.Person.ID]; ok {
		acc.person = s.Person
	}
	out := *s
	b.mu.Unlock()
	writeData(w, r, http.StatusOK, "Student updated successfully", map[string]any{b.key("Student"): out})
}

func (b *Backend) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	s, ok := b.students.get(id)
	if ok {
		b.students.del(id)
		delete(b.studentByPerson, s.Person.ID)
	}
	b.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "Student not found with id: "+id)
		return
	}
	writeData(w, r, http.StatusOK, "Student deleted successfully", nil)
}

func (b *Backend) handleUpdateGPA(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	s, ok := b.students.get(id)
	if !ok {
		b.mu.Unlock()
		writeError(w, r, http.StatusNotFound, "Student not found with id: "+id)
		return
	}
	var credits, points float64
	for _, e := range b.enrollments.all(func(e *models.Enrollment) bool { return e.Student.ID == id && e.Grade != "" }) {
		c := float64(e.CourseClass.Course.Credits)
		if c <= 0 {
			continue
		}
		credits += c
		points += gradePoints[strings.ToUpper(e.Grade)] * c
	}
	gpa := 0.0
	if credits > 0 {
		gpa = math.Round(points/credits*100) / 100
	}
	s.GPA = &gpa
	out := *s
	b.mu.Unlock()
	writeData(w, r, http.StatusOK, "GPA updated successfully", map[string]any{b.key("Student"): out, "GPA": gpa})
}

func (b *Backend) handleStudentEnrollments(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	acc := currentAccount(r)
	b.mu.Lock()
	sid := b.studentByPerson[acc.person.ID]
	all := b.enrollments.all(func(e *models.Enrollment) bool { return e.Student.ID == sid })
	b.mu.Unlock()
	items, totalPages := paginate(all, page, size)
	writeData(w, r, http.StatusOK, "Enrollments retrieved successfully", map[string]any{
		b.key("Enrollments"): items,
		"pagination":         paginationBlock(page, size, totalPages, len(all)),
	})
}

func (b *Backend) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	b.mu.Lock()
	all := b.employees.all(nil)
	b.mu.Unlock()
	items, totalPages := paginate(all, page, size)
	writeData(w, r, http.StatusOK, "Employees retrieved successfully", map[string]any{
		b.key("Employees"): items,
		"TotalPages":       totalPages,
		"TotalElements":    len(all),
	})
}

func (b *Backend) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	e, ok := b.employees.get(id)
	var out models.Employee
	if ok {
		out = *e
	}
	b.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "Employee not found with id: "+id)
		return
	}
	writeData(w, r, http.StatusOK, "Employee retrieved successfully", map[string]any{b.key("Employee"): out})
}

func (b *Backend) handleEmployeeMe(w http.ResponseWriter, r *http.Request) {
	acc := currentAccount(r)
	b.mu.Lock()
	e, ok := b.employees.get(b.employeeByPerson[acc.person.ID])
	var out models.Employee
	if ok {
		out = *e
	}
	b.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "Employee profile not found")
		return
	}
	writeData(w, r, http.StatusOK, "Employee profile retrieved", map[string]any{b.key("Employee"): out})
}

func applyEmployeeForm(e *models.Employee, in models.EmployeeForm) {
	e.Person.FirstName = in.FirstName
	e.Person.LastName = in.LastName
	e.Person.Phone = in.Phone
	e.Person.Address = in.Address
	e.Person.DateOfBirth = in.DateOfBirth
	e.HireDate = in.HireDate
	e.Salary = in.Salary
	e.Position = in.Position
	e.Status = in.Status
}

func (b *Backend) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var in models.EmployeeForm
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}
	if err := in.Validate(); err != nil {
		writeFailure(w, r, http.StatusBadRequest, err.Error())
		return
	}
	b.mu.Lock()
	if _, exists := b.byEmail[strings.ToLower(in.Email)]; exists {
		b.mu.Unlock()
		writeFailure(w, r, http.StatusBadRequest, "Email already exists: "+in.Email)
		return
	}
	password := in.Password
	if password == "" {
		password = "changeme"
	}
	personID := b.addUserLocked(in.FirstName, in.LastName, in.Email, password, models.RoleEmployee)
	e, _ := b.employees.get(b.employeeByPerson[personID])
	applyEmployeeForm(e, in)
	b.accounts[personID].person = e.Person
	out := *e
	b.mu.Unlock()
	writeData(w, r, http.StatusCreated, "Employee created successfully", map[string]any{b.key("Employee"): out})
}

func (b *Backend) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var in models.EmployeeForm
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}
	if err := in.Validate(); err != nil {
		writeFailure(w, r, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	e, ok := b.employees.get(id)
	if !ok {
		b.mu.Unlock()
		writeError(w, r, http.StatusNotFound, "Employee not found with id: "+id)
		return
	}
	applyEmployeeForm(e, in)
	if acc, ok := b.accounts[e.Person.ID]; ok {
		acc.person = e.Person
	}
	out := *e
	b.mu.Unlock()
	writeData(w, r, http.StatusOK, "Employee updated successfully", map[string]any{b.key("Employee"): out})
}

func (b *Backend) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	e, ok := b.employees.get(id)
	if ok {
		b.employees.del(id)
		delete(b.employeeByPerson, e.Person.ID)
	}
	b.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "Employee not found with id: "+id)
		return
	}
	writeData(w, r, http.StatusOK, "Employee deleted successfully", nil)
}
