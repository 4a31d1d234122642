package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMissingField is wrapped by Validate when a required field is empty.
// Business rules (capacity, grade format, GPA bounds) are the backend's.
var ErrMissingField = errors.New("missing required field")

func required(fields map[string]string) error {
	var missing []string
	for _, name := range sortedKeys(fields) {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f LoginForm) Validate() error {
	return required(map[string]string{"email": f.Email, "password": f.Password})
}

type RegisterForm struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (f RegisterForm) Validate() error {
	return required(map[string]string{
		"firstName": f.FirstName,
		"lastName":  f.LastName,
		"email":     f.Email,
		"password":  f.Password,
	})
}

type ProfileForm struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Address     string `json:"address,omitempty"`
}

func (f ProfileForm) Validate() error {
	return required(map[string]string{"firstName": f.FirstName, "lastName": f.LastName})
}

type StudentForm struct {
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName"`
	Email        string        `json:"email"`
	Password     string        `json:"password,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	DateOfBirth  string        `json:"dateOfBirth,omitempty"`
	Address      string        `json:"address,omitempty"`
	Major        string        `json:"major,omitempty"`
	AcademicYear *int          `json:"academicYear,omitempty"`
	GPA          *float64      `json:"gpa,omitempty"`
	Status       StudentStatus `json:"status"`
}

func (f StudentForm) Validate() error {
	return required(map[string]string{
		"firstName": f.FirstName,
		"lastName":  f.LastName,
		"email":     f.Email,
		"status":    string(f.Status),
	})
}

// StudentFormFrom pre-fills the edit form.
func StudentFormFrom(s Student) StudentForm {
	return StudentForm{
		FirstName:    s.Person.FirstName,
		LastName:     s.Person.LastName,
		Email:        s.Person.Email,
		Phone:        s.Person.Phone,
		DateOfBirth:  s.Person.DateOfBirth,
		Address:      s.Person.Address,
		Major:        s.Major,
		AcademicYear: s.AcademicYear,
		GPA:          s.GPA,
		Status:       s.Status,
	}
}

type EmployeeForm struct {
	FirstName   string         `json:"firstName"`
	LastName    string         `json:"lastName"`
	Email       string         `json:"email"`
	Password    string         `json:"password,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	Address     string         `json:"address,omitempty"`
	DateOfBirth string         `json:"dateOfBirth,omitempty"`
	HireDate    string         `json:"hireDate,omitempty"`
	Salary      *float64       `json:"salary,omitempty"`
	Position    Position       `json:"position"`
	Status      EmployeeStatus `json:"status"`
}

func (f EmployeeForm) Validate() error {
	return required(map[string]string{
		"firstName": f.FirstName,
		"lastName":  f.LastName,
		"email":     f.Email,
		"position":  string(f.Position),
		"status":    string(f.Status),
	})
}

func EmployeeFormFrom(e Employee) EmployeeForm {
	return EmployeeForm{
		FirstName:   e.Person.FirstName,
		LastName:    e.Person.LastName,
		Email:       e.Person.Email,
		Phone:       e.Person.Phone,
		Address:     e.Person.Address,
		DateOfBirth: e.Person.DateOfBirth,
		HireDate:    e.HireDate,
		Salary:      e.Salary,
		Position:    e.Position,
		Status:      e.Status,
	}
}

type CourseForm struct {
	CourseCode  string `json:"courseCode"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Credits     int    `json:"credits"`
}

func (f CourseForm) Validate() error {
	return required(map[string]string{"courseCode": f.CourseCode, "title": f.Title})
}

func CourseFormFrom(c Course) CourseForm {
	return CourseForm{CourseCode: c.CourseCode, Title: c.Title, Description: c.Description, Credits: c.Credits}
}

type ClassForm struct {
	CourseID     string      `json:"courseId"`
	LecturerID   string      `json:"lecturerId"`
	Semester     string      `json:"semester"`
	AcademicYear int         `json:"academicYear"`
	MaxCapacity  int         `json:"maxCapacity"`
	Status       ClassStatus `json:"status,omitempty"`
}

func (f ClassForm) Validate() error {
	return required(map[string]string{
		"courseId":   f.CourseID,
		"lecturerId": f.LecturerID,
		"semester":   f.Semester,
	})
}

// NewClassForm carries the create-form defaults.
func NewClassForm() ClassForm {
	return ClassForm{AcademicYear: 2025, MaxCapacity: 30, Status: ClassActive}
}

func ClassFormFrom(c CourseClass) ClassForm {
	return ClassForm{
		CourseID:     c.Course.ID,
		LecturerID:   c.Lecturer.ID,
		Semester:     c.Semester,
		AcademicYear: c.AcademicYear,
		MaxCapacity:  c.MaxCapacity,
		Status:       c.Status,
	}
}

type EnrollmentForm struct {
	StudentID string           `json:"studentId"`
	ClassID   string           `json:"classId"`
	Grade     string           `json:"grade,omitempty"`
	Status    EnrollmentStatus `json:"status"`
}

func (f EnrollmentForm) Validate() error {
	return required(map[string]string{
		"studentId": f.StudentID,
		"classId":   f.ClassID,
		"status":    string(f.Status),
	})
}
