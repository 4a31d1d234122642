package fakebackend

import (
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/go-chi/chi/v5"
)

func (b *Backend) handleListCourses(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	b.mu.Lock()
	all := b.courses.all(nil)
	b.mu.Unlock()
	items, totalPages := paginate(all, page, size)
	writeData(w, r, http.StatusOK, "Courses retrieved successfully", map[string]any{
		b.key("Courses"): items,
		"TotalPages":     totalPages,
		"TotalElements":  len(all),
	})
}

func (b *Backend) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	c, ok := b.courses.get(id)
	var out models.Course
	if ok {
		out = *c
	}
	b.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "Course not found with id: "+id)
		return
	}
	writeData(w, r, http.StatusOK, "Course retrieved successfully", map[string]any{b.key("Course"): out})
}

func (b *Backend) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var in models.CourseForm
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}
	if err := in.Validate(); err != nil {
		writeFailure(w, r, http.StatusBadRequest, err.Error())
		return
	}
	c := models.Course{ID: newID(), CourseCode: in.CourseCode, Title: in.Title, Description: in.Description, Credits: in.Credits}
	b.mu.Lock()
	b.courses.put(c.ID, &c)
	b.mu.Unlock()
	writeData(w, r, http.StatusCreated, "Course created successfully", map[string]any{b.key("Course"): c})
}

func (b *Backend) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	var in models.CourseForm
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	c, ok := b.courses.get(id)
	if !ok {
		b.mu.Unlock()
		writeError(w, r, http.StatusNotFound, "Course not found with id: "+id)
		return
	}
	c.CourseCode, c.Title, c.Description, c.Credits = in.CourseCode, in.Title, in.Description, in.Credits
	out := *c
	b.mu.Unlock()
	writeData(w, r, http.StatusOK, "Course updated successfully", map[string]any{b.key("Course"): out})
}

func (b *Backend) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	ok := b.courses.del(id)
	b.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "Course not found with id: "+id)
		return
	}
	writeData(w, r, http.StatusOK, "Course deleted successfully", nil)
}

// classViewLocked fills in the teaching assistants of a class.
func (b *Backend) classViewLocked(k *models.CourseClass) models.CourseClass {
	out := *k
	out.TeachingAssistants = nil
	for _, id := range b.tas[k.ID] {
		if e, ok := b.employees.get(id); ok {
			out.TeachingAssistants = append(out.TeachingAssistants, *e)
		}
	}
	return out
}

func (b *Backend) handleListClasses(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	b.mu.Lock()
	all := b.classes.all(nil)
	b.mu.Unlock()
	items, totalPages := paginate(all, page, size)
	writeData(w, r, http.StatusOK, "Classes retrieved successfully", map[string]any{
		b.key("Classes"): items,
		"TotalPages":     totalPages,
		"TotalElements":  len(all),
	})
}

// handleStudentClasses lists the classes the caller is not enrolled in.
func (b *Backend) handleStudentClasses(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	acc := currentAccount(r)
	b.mu.Lock()
	sid := b.studentByPerson[acc.person.ID]
	enrolled := map[string]bool{}
	for _, e := range b.enrollments.all(func(e *models.Enrollment) bool { return e.Student.ID == sid }) {
		enrolled[e.CourseClass.ID] = true
	}
	all := b.classes.all(func(k *models.CourseClass) bool { return !enrolled[k.ID] })
	b.mu.Unlock()
	items, totalPages := paginate(all, page, size)
	writeData(w, r, http.StatusOK, "Classes retrieved successfully", map[string]any{
		b.key("Classes"): items,
		"pagination":     paginationBlock(page, size, totalPages, len(all)),
	})
}

func (b *Backend) handleGetClass(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	k, ok := b.classes.get(id)
	var out models.CourseClass
	if ok {
		out = b.classViewLocked(k)
	}
	b.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "Course Class not found with id: "+id)
		return
	}
	writeData(w, r, http.StatusOK, "Class retrieved successfully", map[string]any{b.key("Class"): out})
}

// applyClassFormLocked resolves the course and lecturer of a class form.
func (b *Backend) applyClassFormLocked(k *models.CourseClass, in models.ClassForm) string {
	course, ok := b.courses.get(in.CourseID)
	if !ok {
		return "Course not found"
	}
	lecturer, ok := b.employees.get(in.LecturerID)
	if !ok {
		return "Lecturer not found"
	}
	if in.MaxCapacity <= 0 {
		return "maxCapacity must be positive"
	}
	k.Course = *course
	k.Lecturer = *lecturer
	k.Semester = in.Semester
	k.AcademicYear = in.AcademicYear
	k.MaxCapacity = in.MaxCapacity
	if in.Status != "" {
		k.Status = in.Status
	}
	return ""
}

func (b *Backend) handleCreateClass(w http.ResponseWriter, r *http.Request) {
	var in models.ClassForm
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}
	if err := in.Validate(); err != nil {
		writeFailure(w, r, http.StatusBadRequest, err.Error())
		return
	}
	k := &models.CourseClass{ID: newID(), Status: models.ClassActive}
	b.mu.Lock()
	if reason := b.applyClassFormLocked(k, in); reason != "" {
		b.mu.Unlock()
		writeFailure(w, r, http.StatusBadRequest, reason)
		return
	}
	b.classes.put(k.ID, k)
	out := *k
	b.mu.Unlock()
	writeData(w, r, http.StatusCreated, "Class created successfully", map[string]any{b.key("Class"): out})
}

func (b *Backend) handleUpdateClass(w http.ResponseWriter, r *http.Request) {
	var in models.ClassForm
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	k, ok := b.classes.get(id)
	if !ok {
		b.mu.Unlock()
		writeError(w, r, http.StatusNotFound, "Course Class not found with id: "+id)
		return
	}
	updated := *k
	if reason := b.applyClassFormLocked(&updated, in); reason != "" {
		b.mu.Unlock()
		writeFailure(w, r, http.StatusBadRequest, reason)
		return
	}
	*k = updated
	b.mu.Unlock()
	writeData(w, r, http.StatusOK, "Class updated successfully", map[string]any{b.key("Class"): updated})
}

func (b *Backend) handleDeleteClass(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	ok := b.classes.del(id)
	delete(b.tas, id)
	b.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "Course Class not found with id: "+id)
		return
	}
	writeData(w, r, http.StatusOK, "Course class deleted successfully", nil)
}

func (b *Backend) handleAddTA(w http.ResponseWriter, r *http.Request) {
	classID := chi.URLParam(r, "id")
	employeeID := r.URL.Query().Get("employeeId")
	b.mu.Lock()
	_, classOK := b.classes.get(classID)
	_, empOK := b.employees.get(employeeID)
	if classOK && empOK && !slices.Contains(b.tas[classID], employeeID) {
		b.tas[classID] = append(b.tas[classID], employeeID)
	}
	b.mu.Unlock()
	switch {
	case !classOK:
		writeFailure(w, r, http.StatusBadRequest, "Course Class not found")
	case !empOK:
		writeFailure(w, r, http.StatusBadRequest, "Employee not found")
	default:
		writeData(w, r, http.StatusCreated, "Teaching Assistant added to class successfully", nil)
	}
}

func (b *Backend) handleRemoveTA(w http.ResponseWriter, r *http.Request) {
	classID, taID := chi.URLParam(r, "id"), chi.URLParam(r, "taId")
	b.mu.Lock()
	before := len(b.tas[classID])
	b.tas[classID] = slices.DeleteFunc(b.tas[classID], func(id string) bool { return id == taID })
	removed := len(b.tas[classID]) < before
	b.mu.Unlock()
	if !removed {
		writeFailure(w, r, http.StatusBadRequest, "Teaching Assistant not assigned to this class")
		return
	}
	writeData(w, r, http.StatusOK, "Teaching Assistant removed from class successfully", nil)
}

func (b *Backend) handleListEnrollments(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	b.mu.Lock()
	all := b.enrollments.all(nil)
	b.mu.Unlock()
	items, totalPages := paginate(all, page, size)
	writeData(w, r, http.StatusOK, "Enrollments retrieved successfully", map[string]any{
		b.key("Enrollments"): items,
		"pagination":         paginationBlock(page, size, totalPages, len(all)),
	})
}

func (b *Backend) handleGetEnrollment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	e, ok := b.enrollments.get(id)
	var out models.Enrollment
	if ok {
		out = *e
	}
	b.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "Enrollment not found with id: "+id)
		return
	}
	writeData(w, r, http.StatusOK, "Enrollment retrieved successfully", map[string]any{b.key("Enrollment"): out})
}

// enrollLocked creates an enrollment and takes a seat. It returns a reason on
// failure.
func (b *Backend) enrollLocked(studentID, classID, grade string, status models.EnrollmentStatus) (models.Enrollment, string) {
	s, ok := b.students.get(studentID)
	if !ok {
		return models.Enrollment{}, "Student not found"
	}
	k, ok := b.classes.get(classID)
	if !ok {
		return models.Enrollment{}, "Course Class not found"
	}
	for _, e := range b.enrollments.all(nil) {
		if e.Student.ID == studentID && e.CourseClass.ID == classID {
			return models.Enrollment{}, "Student is already enrolled in this class"
		}
	}
	if k.Status != models.ClassActive {
		return models.Enrollment{}, "Class is not open for enrollment"
	}
	if k.IsFull() {
		return models.Enrollment{}, "Class is full"
	}
	if grade != "" {
		if _, ok := gradePoints[strings.ToUpper(grade)]; !ok {
			return models.Enrollment{}, "Invalid grade: " + grade
		}
	}
	k.CurrentCapacity++
	e := models.Enrollment{ID: newID(), Student: *s, CourseClass: *k, Grade: grade, Status: status}
	b.enrollments.put(e.ID, &e)
	return e, ""
}

// releaseLocked deletes an enrollment and frees its seat.
func (b *Backend) releaseLocked(id string) bool {
	e, ok := b.enrollments.get(id)
	if !ok {
		return false
	}
	if k, ok := b.classes.get(e.CourseClass.ID); ok && k.CurrentCapacity > 0 {
		k.CurrentCapacity--
	}
	return b.enrollments.del(id)
}

func (b *Backend) handleEnroll(w http.ResponseWriter, r *http.Request) {
	acc := currentAccount(r)
	classID := r.URL.Query().Get("classId")
	b.mu.Lock()
	e, reason := b.enrollLocked(b.studentByPerson[acc.person.ID], classID, "", models.EnrollmentEnrolled)
	b.mu.Unlock()
	if reason != "" {
		writeFailure(w, r, http.StatusBadRequest, reason)
		return
	}
	writeData(w, r, http.StatusCreated, "Enrollment created successfully", map[string]any{b.key("Enrollment"): e})
}

func (b *Backend) handleDrop(w http.ResponseWriter, r *http.Request) {
	acc := currentAccount(r)
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	e, ok := b.enrollments.get(id)
	owned := ok && e.Student.ID == b.studentByPerson[acc.person.ID]
	if owned {
		b.releaseLocked(id)
	}
	b.mu.Unlock()
	switch {
	case !ok:
		writeError(w, r, http.StatusNotFound, "Enrollment not found")
	case !owned:
		writeFailure(w, r, http.StatusBadRequest, "Enrollment does not belong to the specified student")
	default:
		writeData(w, r, http.StatusOK, "Enrollment deleted successfully", nil)
	}
}

func (b *Backend) handleCreateEnrollment(w http.ResponseWriter, r *http.Request) {
	var in models.EnrollmentForm
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}
	if err := in.Validate(); err != nil {
		writeFailure(w, r, http.StatusBadRequest, err.Error())
		return
	}
	b.mu.Lock()
	e, reason := b.enrollLocked(in.StudentID, in.ClassID, in.Grade, in.Status)
	b.mu.Unlock()
	if reason != "" {
		writeFailure(w, r, http.StatusBadRequest, reason)
		return
	}
	writeData(w, r, http.StatusCreated, "Enrollment created successfully", map[string]any{b.key("Enrollment"): e})
}

func (b *Backend) handleUpdateEnrollment(w http.ResponseWriter, r *http.Request) {
	var in models.EnrollmentForm
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	e, ok := b.enrollments.get(id)
	if ok {
		e.Grade = in.Grade
		if in.Status != "" {
			e.Status = in.Status
		}
	}
	var out models.Enrollment
	if ok {
		out = *e
	}
	b.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "Enrollment not found with id: "+id)
		return
	}
	writeData(w, r, http.StatusOK, "Enrollment updated successfully", map[string]any{b.key("Enrollment"): out})
}

func (b *Backend) handleDeleteEnrollment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	ok := b.releaseLocked(id)
	b.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "Enrollment not found with id: "+id)
		return
	}
	writeData(w, r, http.StatusOK, "Enrollment deleted successfully", nil)
}

func (b *Backend) handleUpdateGrade(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "text/plain") {
		writeError(w, r, http.StatusUnsupportedMediaType, "Content type not supported")
		return
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}
	grade := strings.ToUpper(strings.TrimSpace(string(raw)))
	if _, ok := gradePoints[grade]; !ok {
		writeFailure(w, r, http.StatusBadRequest, "Invalid grade: "+grade)
		return
	}
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	e, ok := b.enrollments.get(id)
	var out models.Enrollment
	if ok {
		e.Grade = grade
		e.Status = models.EnrollmentCompleted
		out = *e
	}
	b.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "Enrollment not found with id: "+id)
		return
	}
	writeData(w, r, http.StatusOK, "Grade updated successfully", map[string]any{b.key("Enrollment"): out})
}
