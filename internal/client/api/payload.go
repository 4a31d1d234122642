package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/ums/internal/client/apiclient"
	"github.com/dmitrijs2005/ums/internal/client/models"
)

// The backend is not consistent about the casing of data keys ("Students" on
// one endpoint, "students" on another, "Class" or "courseClass" for the same
// record). Every lookup goes through find, which matches the known aliases
// case-insensitively.
var (
	keyUser        = []string{"user"}
	keyStudent     = []string{"student"}
	keyStudents    = []string{"students"}
	keyEmployee    = []string{"employee"}
	keyEmployees   = []string{"employees"}
	keyCourse      = []string{"course"}
	keyCourses     = []string{"courses"}
	keyClass       = []string{"class", "courseClass"}
	keyClasses     = []string{"classes", "courseClasses"}
	keyEnrollment  = []string{"enrollment"}
	keyEnrollments = []string{"enrollments"}
	keyToken       = []string{"token", "accessToken"}
	keyPagination  = []string{"pagination"}
	keyTotalPages  = []string{"totalPages"}
	keyTotalItems  = []string{"totalElements", "totalItems"}
)

func find(data map[string]json.RawMessage, aliases []string) (json.RawMessage, bool) {
	for _, alias := range aliases {
		if v, ok := data[alias]; ok && !isNull(v) {
			return v, true
		}
	}
	for _, alias := range aliases {
		for k, v := range data {
			if strings.EqualFold(k, alias) && !isNull(v) {
				return v, true
			}
		}
	}
	return nil, false
}

func isNull(v json.RawMessage) bool {
	s := strings.TrimSpace(string(v))
	return s == "" || s == "null"
}

func decodeItem[T any](env *apiclient.Envelope, aliases []string) (*T, error) {
	raw, ok := find(env.Data, aliases)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", apiclient.ErrInvalidResponse, aliases[0])
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode %q: %v", apiclient.ErrInvalidResponse, aliases[0], err)
	}
	return &out, nil
}

// decodePage reads a list plus its pagination. A missing list is an empty
// page. The current page is the one that was asked for: the backend reports
// it one-based on some endpoints and not at all on others.
func decodePage[T any](env *apiclient.Envelope, aliases []string, page, size int) (*models.Page[T], error) {
	out := &models.Page[T]{Items: []T{}}
	if raw, ok := find(env.Data, aliases); ok {
		if err := json.Unmarshal(raw, &out.Items); err != nil {
			return nil, fmt.Errorf("%w: decode %q: %v", apiclient.ErrInvalidResponse, aliases[0], err)
		}
	}
	p, err := readPagination(env.Data)
	if err != nil {
		return nil, err
	}
	p.CurrentPage = page
	if p.PageSize == 0 {
		p.PageSize = size
	}
	if p.TotalItems == 0 {
		p.TotalItems = int64(len(out.Items))
	}
	out.Pagination = p
	return out, nil
}

// readPagination accepts either a "pagination" block or the flat
// TotalPages/TotalElements pair.
func readPagination(data map[string]json.RawMessage) (models.Pagination, error) {
	var p models.Pagination
	block := data
	if raw, ok := find(data, keyPagination); ok {
		block = map[string]json.RawMessage{}
		if err := json.Unmarshal(raw, &block); err != nil {
			return p, fmt.Errorf("%w: decode pagination: %v", apiclient.ErrInvalidResponse, err)
		}
		if raw, ok := find(block, []string{"pageSize", "size"}); ok {
			_ = json.Unmarshal(raw, &p.PageSize)
		}
	}
	if raw, ok := find(block, keyTotalPages); ok {
		if err := json.Unmarshal(raw, &p.TotalPages); err != nil {
			return p, fmt.Errorf("%w: decode totalPages: %v", apiclient.ErrInvalidResponse, err)
		}
	}
	if raw, ok := find(block, keyTotalItems); ok {
		if err := json.Unmarshal(raw, &p.TotalItems); err != nil {
			return p, fmt.Errorf("%w: decode total items: %v", apiclient.ErrInvalidResponse, err)
		}
	}
	return p, nil
}

// decodeAuth reads a login or register answer. The token may sit inside the
// user record or next to it.
func decodeAuth(env *apiclient.Envelope) (*models.User, error) {
	u, err := decodeItem[models.User](env, keyUser)
	if err != nil {
		return nil, err
	}
	if u.Token == "" {
		if raw, ok := find(env.Data, keyToken); ok {
			_ = json.Unmarshal(raw, &u.Token)
		}
	}
	return u, nil
}

func decodeToken(env *apiclient.Envelope) (string, error) {
	if u, err := decodeAuth(env); err == nil && u.Token != "" {
		return u.Token, nil
	}
	raw, ok := find(env.Data, keyToken)
	if !ok {
		return "", fmt.Errorf("%w: missing token", apiclient.ErrInvalidResponse)
	}
	var token string
	if err := json.Unmarshal(raw, &token); err != nil || token == "" {
		return "", fmt.Errorf("%w: missing token", apiclient.ErrInvalidResponse)
	}
	return token, nil
}

func profileFromPerson(p models.Person) *models.User {
	u := &models.User{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Phone:       p.Phone,
		DateOfBirth: p.DateOfBirth,
		Address:     p.Address,
	}
	if r, ok := models.ParseRole(string(p.Role)); ok {
		u.Roles = models.Roles{r}
	}
	return u
}

// ProfileFromStudent folds a student record into the session shape.
func ProfileFromStudent(s models.Student) *models.User {
	u := profileFromPerson(s.Person)
	u.ID = s.ID
	u.StudentNumber = s.StudentNumber
	u.Major = s.Major
	u.AcademicYear = s.AcademicYear
	u.GPA = s.GPA
	u.Status = string(s.Status)
	return u
}

// ProfileFromEmployee folds an employee record into the session shape.
func ProfileFromEmployee(e models.Employee) *models.User {
	u := profileFromPerson(e.Person)
	u.ID = e.ID
	u.EmployeeID = e.EmployeeID
	u.HireDate = e.HireDate
	u.Salary = e.Salary
	u.Position = e.Position
	u.Status = string(e.Status)
	return u
}
