package models

// User is the signed-in session record. The token is opaque: it is stored and
// sent back, never inspected.
//
// The optional profile fields are filled in by a profile refresh and depend on
// which role-specific endpoint answered.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Roles     Roles  `json:"roles"`
	Token     string `json:"token,omitempty"`

	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`

	StudentNumber string   `json:"studentNumber,omitempty"`
	Major         string   `json:"major,omitempty"`
	AcademicYear  *int     `json:"academicYear,omitempty"`
	GPA           *float64 `json:"gpa,omitempty"`

	EmployeeID string   `json:"employeeId,omitempty"`
	HireDate   string   `json:"hireDate,omitempty"`
	Salary     *float64 `json:"salary,omitempty"`
	Position   Position `json:"position,omitempty"`

	Status string `json:"status,omitempty"`
}

func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return u.FirstName + " " + u.LastName
}

// HasRole is false for a nil user.
func (u *User) HasRole(role Role) bool {
	if u == nil {
		return false
	}
	return u.Roles.Has(role)
}

// Clone returns a deep copy so callers can't mutate session state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = append(Roles(nil), u.Roles...)
	if u.AcademicYear != nil {
		v := *u.AcademicYear
		c.AcademicYear = &v
	}
	if u.GPA != nil {
		v := *u.GPA
		c.GPA = &v
	}
	if u.Salary != nil {
		v := *u.Salary
		c.Salary = &v
	}
	return &c
}

// Merge overlays the non-empty fields of profile onto u, keeping u's token.
func (u *User) Merge(profile *User) *User {
	out := u.Clone()
	if out == nil {
		out = &User{}
	}
	if profile == nil {
		return out
	}
	token := out.Token

	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setString(&out.ID, profile.ID)
	setString(&out.FirstName, profile.FirstName)
	setString(&out.LastName, profile.LastName)
	setString(&out.Email, profile.Email)
	setString(&out.Phone, profile.Phone)
	setString(&out.Address, profile.Address)
	setString(&out.DateOfBirth, profile.DateOfBirth)
	setString(&out.StudentNumber, profile.StudentNumber)
	setString(&out.Major, profile.Major)
	setString(&out.EmployeeID, profile.EmployeeID)
	setString(&out.HireDate, profile.HireDate)
	setString(&out.Status, profile.Status)
	if profile.Position != "" {
		out.Position = profile.Position
	}
	if len(profile.Roles) > 0 {
		out.Roles = append(Roles(nil), profile.Roles...)
	}
	if profile.AcademicYear != nil {
		v := *profile.AcademicYear
		out.AcademicYear = &v
	}
	if profile.GPA != nil {
		v := *profile.GPA
		out.GPA = &v
	}
	if profile.Salary != nil {
		v := *profile.Salary
		out.Salary = &v
	}

	out.Token = token
	return out
}
