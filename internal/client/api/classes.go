package api

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/ums/internal/client/models"
)

type ClassesAPI struct{ d Doer }

func (a *ClassesAPI) List(ctx context.Context, page, size int) (*models.Page[models.CourseClass], error) {
	env, err := a.d.Get(ctx, "/classes", pageQuery(page, size))
	if err != nil {
		return nil, err
	}
	return decodePage[models.CourseClass](env, keyClasses, page, size)
}

func (a *ClassesAPI) Get(ctx context.Context, id string) (*models.CourseClass, error) {
	env, err := a.d.Get(ctx, idPath("/classes", id), nil)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.CourseClass](env, keyClass)
}

func (a *ClassesAPI) Create(ctx context.Context, f models.ClassForm) (*models.CourseClass, error) {
	env, err := a.d.Post(ctx, "/classes", nil, f)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.CourseClass](env, keyClass)
}

func (a *ClassesAPI) Update(ctx context.Context, id string, f models.ClassForm) (*models.CourseClass, error) {
	env, err := a.d.Put(ctx, idPath("/classes", id), nil, f)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.CourseClass](env, keyClass)
}

func (a *ClassesAPI) Delete(ctx context.Context, id string) error {
	_, err := a.d.Delete(ctx, idPath("/classes", id), nil)
	return err
}

// AddTA assigns an employee as teaching assistant of a class.
func (a *ClassesAPI) AddTA(ctx context.Context, classID, employeeID string) error {
	_, err := a.d.Post(ctx, idPath("/classes", classID)+"/tas", url.Values{"employeeId": {employeeID}}, nil)
	return err
}

// RemoveTA takes the employee id of the assistant.
func (a *ClassesAPI) RemoveTA(ctx context.Context, classID, taID string) error {
	_, err := a.d.Delete(ctx, idPath(idPath("/classes", classID)+"/tas", taID), nil)
	return err
}
