package api

import (
	"context"

	"github.com/dmitrijs2005/ums/internal/client/models"
)

type CoursesAPI struct{ d Doer }

func (a *CoursesAPI) List(ctx context.Context, page, size int) (*models.Page[models.Course], error) {
	env, err := a.d.Get(ctx, "/courses", pageQuery(page, size))
	if err != nil {
		return nil, err
	}
	return decodePage[models.Course](env, keyCourses, page, size)
}

func (a *CoursesAPI) Get(ctx context.Context, id string) (*models.Course, error) {
	env, err := a.d.Get(ctx, idPath("/courses", id), nil)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.Course](env, keyCourse)
}

func (a *CoursesAPI) Create(ctx context.Context, f models.CourseForm) (*models.Course, error) {
	env, err := a.d.Post(ctx, "/courses", nil, f)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.Course](env, keyCourse)
}

func (a *CoursesAPI) Update(ctx context.Context, id string, f models.CourseForm) (*models.Course, error) {
	env, err := a.d.Put(ctx, idPath("/courses", id), nil, f)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.Course](env, keyCourse)
}

func (a *CoursesAPI) Delete(ctx context.Context, id string) error {
	_, err := a.d.Delete(ctx, idPath("/courses", id), nil)
	return err
}
