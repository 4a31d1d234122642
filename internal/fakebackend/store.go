package fakebackend

import (
	"fmt"
	"math"
	"strings"

	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func newID() string { return uuid.NewString() }

// table keeps insertion order so pages are stable.
type table[T any] struct {
	ids  []string
	rows map[string]*T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]*T)}
}

func (t *table[T]) put(id string, v *T) {
	if _, ok := t.rows[id]; !ok {
		t.ids = append(t.ids, id)
	}
	t.rows[id] = v
}

func (t *table[T]) get(id string) (*T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) del(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, v := range t.ids {
		if v == id {
			t.ids = append(t.ids[:i], t.ids[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) all(keep func(*T) bool) []T {
	out := make([]T, 0, len(t.ids))
	for _, id := range t.ids {
		v := t.rows[id]
		if keep == nil || keep(v) {
			out = append(out, *v)
		}
	}
	return out
}

func paginate[T any](items []T, page, size int) ([]T, int) {
	if size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}
	totalPages := int(math.Ceil(float64(len(items)) / float64(size)))
	start := page * size
	if start >= len(items) {
		return []T{}, totalPages
	}
	end := min(start+size, len(items))
	return items[start:end], totalPages
}

type account struct {
	person models.Person
	hash   []byte
	roles  models.Roles
}

var gradePoints = map[string]float64{
	"A+": 4.0, "A": 3.7, "B+": 3.3, "B": 3.0,
	"C+": 2.3, "C": 2.0, "D+": 1.3, "D": 1.0, "F": 0.0,
}

func hashPassword(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return hash
}

func checkPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// AddUser creates an account. STUDENT and EMPLOYEE roles also get the
// matching student or employee record. It returns the person id.
func (b *Backend) AddUser(firstName, lastName, email, password string, roles ...models.Role) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(firstName, lastName, email, password, roles...)
}

func (b *Backend) addUserLocked(firstName, lastName, email, password string, roles ...models.Role) string {
	if len(roles) == 0 {
		roles = []models.Role{models.RoleStudent}
	}
	p := models.Person{
		ID:        newID(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     strings.ToLower(email),
		Role:      roles[0],
	}
	b.accounts[p.ID] = &account{person: p, hash: hashPassword(password), roles: roles}
	b.byEmail[p.Email] = p.ID

	for _, r := range roles {
		switch r {
		case models.RoleStudent:
			b.seq++
			s := &models.Student{ID: newID(), Person: p, StudentNumber: fmt.Sprintf("S%06d", b.seq), Status: models.StudentActive}
			b.students.put(s.ID, s)
			b.studentByPerson[p.ID] = s.ID
		case models.RoleEmployee:
			b.seq++
			e := &models.Employee{ID: newID(), Person: p, EmployeeID: fmt.Sprintf("E%06d", b.seq), Position: models.PositionLecturer, Status: models.EmployeeActive}
			b.employees.put(e.ID, e)
			b.employeeByPerson[p.ID] = e.ID
		}
	}
	return p.ID
}

// StudentIDOf returns the student record id of a person.
func (b *Backend) StudentIDOf(personID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.studentByPerson[personID]
}

// EmployeeIDOf returns the employee record id of a person.
func (b *Backend) EmployeeIDOf(personID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.employeeByPerson[personID]
}

// SetPosition changes an employee's position.
func (b *Backend) SetPosition(employeeID string, p models.Position) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok := b.employees.get(employeeID); ok {
		e.Position = p
	}
}

func (b *Backend) AddCourse(code, title string, credits int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := &models.Course{ID: newID(), CourseCode: code, Title: title, Credits: credits}
	b.courses.put(c.ID, c)
	return c.ID
}

// AddClass opens an active class. It panics on unknown ids.
func (b *Backend) AddClass(courseID, lecturerID, semester string, maxCapacity int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	course, ok := b.courses.get(courseID)
	if !ok {
		panic("unknown course " + courseID)
	}
	lecturer, ok := b.employees.get(lecturerID)
	if !ok {
		panic("unknown employee " + lecturerID)
	}
	k := &models.CourseClass{
		ID:           newID(),
		Course:       *course,
		Lecturer:     *lecturer,
		Semester:     semester,
		AcademicYear: 2025,
		MaxCapacity:  maxCapacity,
		Status:       models.ClassActive,
	}
	b.classes.put(k.ID, k)
	return k.ID
}

// SetCurrentCapacity overrides a class's seat count.
func (b *Backend) SetCurrentCapacity(classID string, current int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if k, ok := b.classes.get(classID); ok {
		k.CurrentCapacity = current
	}
}

// Class returns a copy of a class record.
func (b *Backend) Class(classID string) (models.CourseClass, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	k, ok := b.classes.get(classID)
	if !ok {
		return models.CourseClass{}, false
	}
	return *k, true
}

// Enrollments returns all enrollment records.
func (b *Backend) Enrollments() []models.Enrollment {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enrollments.all(nil)
}

// Student returns a copy of a student record.
func (b *Backend) Student(studentID string) (models.Student, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.students.get(studentID)
	if !ok {
		return models.Student{}, false
	}
	return *s, true
}
