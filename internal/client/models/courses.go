package models

type Course struct {
	ID          string `json:"id"`
	CourseCode  string `json:"courseCode"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Credits     int    `json:"credits"`
}

type ClassStatus string

const (
	ClassActive    ClassStatus = "ACTIVE"
	ClassCompleted ClassStatus = "COMPLETED"
	ClassCancelled ClassStatus = "CANCELLED"
)

var ClassStatuses = []ClassStatus{ClassActive, ClassCompleted, ClassCancelled}

type CourseClass struct {
	ID                 string      `json:"id"`
	Course             Course      `json:"course"`
	Lecturer           Employee    `json:"lecturer"`
	TeachingAssistants []Employee  `json:"teachingAssistants,omitempty"`
	Semester           string      `json:"semester"`
	AcademicYear       int         `json:"academicYear"`
	CurrentCapacity    int         `json:"currentCapacity"`
	MaxCapacity        int         `json:"maxCapacity"`
	Status             ClassStatus `json:"status"`
}

// IsFull drives the enroll control: it is disabled once the class has no
// free seat left. It depends on the two counts only.
func (c CourseClass) IsFull() bool {
	return c.CurrentCapacity >= c.MaxCapacity
}

// CanEnroll is true when a student may try to enroll from the class list.
func (c CourseClass) CanEnroll() bool {
	return c.Status == ClassActive && !c.IsFull()
}

type EnrollmentStatus string

const (
	EnrollmentEnrolled  EnrollmentStatus = "ENROLLED"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentDropped   EnrollmentStatus = "DROPPED"
	EnrollmentWithdrawn EnrollmentStatus = "WITHDRAWN"
)

var EnrollmentStatuses = []EnrollmentStatus{
	EnrollmentEnrolled,
	EnrollmentCompleted,
	EnrollmentDropped,
	EnrollmentWithdrawn,
}

type Enrollment struct {
	ID          string           `json:"id"`
	Student     Student          `json:"student"`
	CourseClass CourseClass      `json:"courseClass"`
	Grade       string           `json:"grade,omitempty"`
	Status      EnrollmentStatus `json:"status"`
}

// CanDrop is true while the enrollment is still active.
func (e Enrollment) CanDrop() bool {
	return e.Status == EnrollmentEnrolled
}

// Grades is the list offered by the grade-entry form, best first.
var Grades = []string{"A+", "A", "B+", "B", "C+", "C", "D+", "D", "F"}
