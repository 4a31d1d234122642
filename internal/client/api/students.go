package api

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/ums/internal/client/models"
)

type StudentsAPI struct{ d Doer }

func (a *StudentsAPI) List(ctx context.Context, page, size int) (*models.Page[models.Student], error) {
	env, err := a.d.Get(ctx, "/students", pageQuery(page, size))
	if err != nil {
		return nil, err
	}
	return decodePage[models.Student](env, keyStudents, page, size)
}

func (a *StudentsAPI) Get(ctx context.Context, id string) (*models.Student, error) {
	env, err := a.d.Get(ctx, idPath("/students", id), nil)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.Student](env, keyStudent)
}

// Me returns the calling student's own record.
func (a *StudentsAPI) Me(ctx context.Context) (*models.Student, error) {
	env, err := a.d.Get(ctx, "/students/me", nil)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.Student](env, keyStudent)
}

func (a *StudentsAPI) Create(ctx context.Context, f models.StudentForm) (*models.Student, error) {
	env, err := a.d.Post(ctx, "/students", nil, f)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.Student](env, keyStudent)
}

func (a *StudentsAPI) Update(ctx context.Context, id string, f models.StudentForm) (*models.Student, error) {
	env, err := a.d.Put(ctx, idPath("/students", id), nil, f)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.Student](env, keyStudent)
}

func (a *StudentsAPI) Delete(ctx context.Context, id string) error {
	_, err := a.d.Delete(ctx, idPath("/students", id), nil)
	return err
}

// Enrollments lists the calling student's enrollments.
func (a *StudentsAPI) Enrollments(ctx context.Context, page, size int) (*models.Page[models.Enrollment], error) {
	env, err := a.d.Get(ctx, "/students/enrollments", pageQuery(page, size))
	if err != nil {
		return nil, err
	}
	return decodePage[models.Enrollment](env, keyEnrollments, page, size)
}

// Enroll signs the calling student up for a class. The backend may answer
// without the enrollment record, in which case nil is returned.
func (a *StudentsAPI) Enroll(ctx context.Context, classID string) (*models.Enrollment, error) {
	env, err := a.d.Post(ctx, "/students/enroll", url.Values{"classId": {classID}}, nil)
	if err != nil {
		return nil, err
	}
	if _, ok := find(env.Data, keyEnrollment); !ok {
		return nil, nil
	}
	return decodeItem[models.Enrollment](env, keyEnrollment)
}

func (a *StudentsAPI) Drop(ctx context.Context, enrollmentID string) error {
	_, err := a.d.Post(ctx, idPath("/students/drop", enrollmentID), nil, nil)
	return err
}

// UpdateGPA asks the backend to recompute a student's GPA from graded
// enrollments.
func (a *StudentsAPI) UpdateGPA(ctx context.Context, studentID string) (*models.Student, error) {
	env, err := a.d.Put(ctx, idPath("/students", studentID)+"/gpa", nil, nil)
	if err != nil {
		return nil, err
	}
	if _, ok := find(env.Data, keyStudent); !ok {
		return nil, nil
	}
	return decodeItem[models.Student](env, keyStudent)
}

// Classes lists the classes open to the calling student.
func (a *StudentsAPI) Classes(ctx context.Context, page, size int) (*models.Page[models.CourseClass], error) {
	env, err := a.d.Get(ctx, "/students/classes", pageQuery(page, size))
	if err != nil {
		return nil, err
	}
	return decodePage[models.CourseClass](env, keyClasses, page, size)
}
