package api

import (
	"context"

	"github.com/dmitrijs2005/ums/internal/client/apiclient"
	"github.com/dmitrijs2005/ums/internal/client/models"
)

type EnrollmentsAPI struct{ d Doer }

func (a *EnrollmentsAPI) List(ctx context.Context, page, size int) (*models.Page[models.Enrollment], error) {
	env, err := a.d.Get(ctx, "/enrollments", pageQuery(page, size))
	if err != nil {
		return nil, err
	}
	return decodePage[models.Enrollment](env, keyEnrollments, page, size)
}

func (a *EnrollmentsAPI) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	env, err := a.d.Get(ctx, idPath("/enrollments", id), nil)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.Enrollment](env, keyEnrollment)
}

func (a *EnrollmentsAPI) Create(ctx context.Context, f models.EnrollmentForm) (*models.Enrollment, error) {
	env, err := a.d.Post(ctx, "/enrollments", nil, f)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.Enrollment](env, keyEnrollment)
}

func (a *EnrollmentsAPI) Update(ctx context.Context, id string, f models.EnrollmentForm) (*models.Enrollment, error) {
	env, err := a.d.Put(ctx, idPath("/enrollments", id), nil, f)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.Enrollment](env, keyEnrollment)
}

func (a *EnrollmentsAPI) Delete(ctx context.Context, id string) error {
	_, err := a.d.Delete(ctx, idPath("/enrollments", id), nil)
	return err
}

// UpdateGrade sends the grade as a plain-text body.
func (a *EnrollmentsAPI) UpdateGrade(ctx context.Context, id, grade string) (*models.Enrollment, error) {
	env, err := a.d.Put(ctx, idPath("/enrollments", id)+"/grade", nil, apiclient.PlainText(grade))
	if err != nil {
		return nil, err
	}
	return decodeItem[models.Enrollment](env, keyEnrollment)
}
