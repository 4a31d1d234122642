package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/ums/internal/client/models"
)

func field(r *http.Request, name string) string {
	return strings.TrimSpace(r.PostFormValue(name))
}

func intField(r *http.Request, name string) int {
	v, _ := strconv.Atoi(field(r, name))
	return v
}

func intPtrField(r *http.Request, name string) *int {
	v, err := strconv.Atoi(field(r, name))
	if err != nil {
		return nil
	}
	return &v
}

func floatPtrField(r *http.Request, name string) *float64 {
	v, err := strconv.ParseFloat(field(r, name), 64)
	if err != nil {
		return nil
	}
	return &v
}

func studentForm(r *http.Request) models.StudentForm {
	return models.StudentForm{
		FirstName:    field(r, "firstName"),
		LastName:     field(r, "lastName"),
		Email:        field(r, "email"),
		Password:     r.PostFormValue("password"),
		Phone:        field(r, "phone"),
		DateOfBirth:  field(r, "dateOfBirth"),
		Address:      field(r, "address"),
		Major:        field(r, "major"),
		AcademicYear: intPtrField(r, "academicYear"),
		GPA:          floatPtrField(r, "gpa"),
		Status:       models.StudentStatus(field(r, "status")),
	}
}

func employeeForm(r *http.Request) models.EmployeeForm {
	return models.EmployeeForm{
		FirstName:   field(r, "firstName"),
		LastName:    field(r, "lastName"),
		Email:       field(r, "email"),
		Password:    r.PostFormValue("password"),
		Phone:       field(r, "phone"),
		Address:     field(r, "address"),
		DateOfBirth: field(r, "dateOfBirth"),
		HireDate:    field(r, "hireDate"),
		Salary:      floatPtrField(r, "salary"),
		Position:    models.Position(field(r, "position")),
		Status:      models.EmployeeStatus(field(r, "status")),
	}
}

func courseForm(r *http.Request) models.CourseForm {
	return models.CourseForm{
		CourseCode:  field(r, "courseCode"),
		Title:       field(r, "title"),
		Description: field(r, "description"),
		Credits:     intField(r, "credits"),
	}
}

func classForm(r *http.Request) models.ClassForm {
	return models.ClassForm{
		CourseID:     field(r, "courseId"),
		LecturerID:   field(r, "lecturerId"),
		Semester:     field(r, "semester"),
		AcademicYear: intField(r, "academicYear"),
		MaxCapacity:  intField(r, "maxCapacity"),
		Status:       models.ClassStatus(field(r, "status")),
	}
}

func enrollmentForm(r *http.Request) models.EnrollmentForm {
	return models.EnrollmentForm{
		StudentID: field(r, "studentId"),
		ClassID:   field(r, "classId"),
		Grade:     field(r, "grade"),
		Status:    models.EnrollmentStatus(field(r, "status")),
	}
}

func profileForm(r *http.Request) models.ProfileForm {
	return models.ProfileForm{
		FirstName:   field(r, "firstName"),
		LastName:    field(r, "lastName"),
		Phone:       field(r, "phone"),
		DateOfBirth: field(r, "dateOfBirth"),
		Address:     field(r, "address"),
	}
}
