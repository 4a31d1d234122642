// Package api maps each backend endpoint onto one typed call. Raw envelopes
// never leave this package: payload.go turns them into models.
package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/ums/internal/client/apiclient"
)

// Doer is the transport the façade calls through. *apiclient.Client
// satisfies it.
type Doer interface {
	Get(ctx context.Context, path string, query url.Values) (*apiclient.Envelope, error)
	Post(ctx context.Context, path string, query url.Values, body any) (*apiclient.Envelope, error)
	Put(ctx context.Context, path string, query url.Values, body any) (*apiclient.Envelope, error)
	Delete(ctx context.Context, path string, query url.Values) (*apiclient.Envelope, error)
}

// API groups the per-resource façades.
type API struct {
	Auth        *AuthAPI
	Students    *StudentsAPI
	Employees   *EmployeesAPI
	Courses     *CoursesAPI
	Classes     *ClassesAPI
	Enrollments *EnrollmentsAPI
}

func New(d Doer) *API {
	return &API{
		Auth:        &AuthAPI{d: d},
		Students:    &StudentsAPI{d: d},
		Employees:   &EmployeesAPI{d: d},
		Courses:     &CoursesAPI{d: d},
		Classes:     &ClassesAPI{d: d},
		Enrollments: &EnrollmentsAPI{d: d},
	}
}

func pageQuery(page, size int) url.Values {
	return url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
}

func idPath(base, id string) string {
	return base + "/" + url.PathEscape(id)
}
