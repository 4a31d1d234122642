package models

type StudentStatus string

const (
	StudentActive    StudentStatus = "ACTIVE"
	StudentGraduated StudentStatus = "GRADUATED"
	StudentSuspended StudentStatus = "SUSPENDED"
)

var StudentStatuses = []StudentStatus{StudentActive, StudentGraduated, StudentSuspended}

type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "ACTIVE"
	EmployeeTerminated EmployeeStatus = "TERMINATED"
)

var EmployeeStatuses = []EmployeeStatus{EmployeeActive, EmployeeTerminated}

type Position string

const (
	PositionLecturer          Position = "LECTURER"
	PositionSecretary         Position = "SECRETARY"
	PositionAdminOfficer      Position = "ADMIN_OFFICER"
	PositionStudentAffairs    Position = "STUDENT_AFFAIRS"
	PositionDean              Position = "DEAN"
	PositionTeachingAssistant Position = "TEACHING_ASSISTANT"
)

var Positions = []Position{
	PositionLecturer,
	PositionSecretary,
	PositionAdminOfficer,
	PositionStudentAffairs,
	PositionDean,
	PositionTeachingAssistant,
}

// CanLecture is true for the positions offered in lecturer pickers.
func (p Position) CanLecture() bool {
	return p == PositionLecturer || p == PositionDean
}

type Person struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Address     string `json:"address,omitempty"`
	Role        Role   `json:"role,omitempty"`
}

func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

type Student struct {
	ID            string        `json:"id"`
	Person        Person        `json:"person"`
	StudentNumber string        `json:"studentNumber"`
	Major         string        `json:"major,omitempty"`
	AcademicYear  *int          `json:"academicYear,omitempty"`
	GPA           *float64      `json:"gpa,omitempty"`
	Status        StudentStatus `json:"status"`
}

type Employee struct {
	ID         string         `json:"id"`
	Person     Person         `json:"person"`
	EmployeeID string         `json:"employeeId"`
	HireDate   string         `json:"hireDate,omitempty"`
	Salary     *float64       `json:"salary,omitempty"`
	Position   Position       `json:"position"`
	Status     EmployeeStatus `json:"status"`
}

// Lecturers keeps the employees that can be assigned to teach a class.
func Lecturers(employees []Employee) []Employee {
	out := make([]Employee, 0, len(employees))
	for _, e := range employees {
		if e.Position.CanLecture() {
			out = append(out, e)
		}
	}
	return out
}
