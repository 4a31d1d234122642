package views

import (
	"fmt"

	"github.com/dmitrijs2005/ums/internal/client/models"
)

type EnrollControl struct {
	Label    string
	Disabled bool
}

// NewEnrollControl is disabled, and labelled "Full", once the class has no
// free seat. Other class states do not disable it; the backend refuses those.
func NewEnrollControl(k models.CourseClass) EnrollControl {
	if k.IsFull() {
		return EnrollControl{Label: "Full", Disabled: true}
	}
	return EnrollControl{Label: "Enroll"}
}

func Capacity(k models.CourseClass) string {
	return fmt.Sprintf("%d / %d", k.CurrentCapacity, k.MaxCapacity)
}

type Option struct {
	Value    string
	Label    string
	Selected bool
}

// LecturerOptions offers only employees that may lecture.
func LecturerOptions(employees []models.Employee, selected string) []Option {
	lecturers := models.Lecturers(employees)
	out := make([]Option, 0, len(lecturers))
	for _, e := range lecturers {
		out = append(out, Option{
			Value:    e.ID,
			Label:    fmt.Sprintf("%s (%s)", e.Person.FullName(), e.Position),
			Selected: e.ID == selected,
		})
	}
	return out
}

// EmployeeOptions offers every employee, for teaching assistant pickers.
func EmployeeOptions(employees []models.Employee, selected string) []Option {
	out := make([]Option, 0, len(employees))
	for _, e := range employees {
		out = append(out, Option{
			Value:    e.ID,
			Label:    fmt.Sprintf("%s (%s)", e.Person.FullName(), e.Position),
			Selected: e.ID == selected,
		})
	}
	return out
}

func CourseOptions(courses []models.Course, selected string) []Option {
	out := make([]Option, 0, len(courses))
	for _, c := range courses {
		out = append(out, Option{Value: c.ID, Label: c.CourseCode + " - " + c.Title, Selected: c.ID == selected})
	}
	return out
}

func StudentOptions(students []models.Student, selected string) []Option {
	out := make([]Option, 0, len(students))
	for _, s := range students {
		out = append(out, Option{
			Value:    s.ID,
			Label:    fmt.Sprintf("%s (%s)", s.Person.FullName(), s.StudentNumber),
			Selected: s.ID == selected,
		})
	}
	return out
}

func ClassOptions(classes []models.CourseClass, selected string) []Option {
	out := make([]Option, 0, len(classes))
	for _, k := range classes {
		out = append(out, Option{
			Value:    k.ID,
			Label:    fmt.Sprintf("%s - %s %d (%s)", k.Course.CourseCode, k.Semester, k.AcademicYear, Capacity(k)),
			Selected: k.ID == selected,
		})
	}
	return out
}

// StringOptions lists a closed set of values such as statuses or grades.
func StringOptions[T ~string](values []T, selected T) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: string(v), Label: string(v), Selected: v == selected})
	}
	return out
}
