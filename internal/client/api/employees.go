package api

import (
	"context"

	"github.com/dmitrijs2005/ums/internal/client/models"
)

type EmployeesAPI struct{ d Doer }

func (a *EmployeesAPI) List(ctx context.Context, page, size int) (*models.Page[models.Employee], error) {
	env, err := a.d.Get(ctx, "/employees", pageQuery(page, size))
	if err != nil {
		return nil, err
	}
	return decodePage[models.Employee](env, keyEmployees, page, size)
}

func (a *EmployeesAPI) Get(ctx context.Context, id string) (*models.Employee, error) {
	env, err := a.d.Get(ctx, idPath("/employees", id), nil)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.Employee](env, keyEmployee)
}

func (a *EmployeesAPI) Me(ctx context.Context) (*models.Employee, error) {
	env, err := a.d.Get(ctx, "/employees/me", nil)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.Employee](env, keyEmployee)
}

func (a *EmployeesAPI) Create(ctx context.Context, f models.EmployeeForm) (*models.Employee, error) {
	env, err := a.d.Post(ctx, "/employees", nil, f)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.Employee](env, keyEmployee)
}

func (a *EmployeesAPI) Update(ctx context.Context, id string, f models.EmployeeForm) (*models.Employee, error) {
	env, err := a.d.Put(ctx, idPath("/employees", id), nil, f)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.Employee](env, keyEmployee)
}

func (a *EmployeesAPI) Delete(ctx context.Context, id string) error {
	_, err := a.d.Delete(ctx, idPath("/employees", id), nil)
	return err
}
