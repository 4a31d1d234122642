package fakebackend

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/ums/internal/client/models"
)

const tokenValidity = time.Hour

type authResponse struct {
	ID        string       `json:"id"`
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
	Email     string       `json:"email"`
	Roles     models.Roles `json:"roles"`
	Token     string       `json:"token,omitempty"`
}

type profileResponse struct {
	ID          string       `json:"id"`
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone,omitempty"`
	Address     string       `json:"address,omitempty"`
	DateOfBirth string       `json:"dateOfBirth,omitempty"`
	Roles       models.Roles `json:"roles"`
}

func (b *Backend) issue(w http.ResponseWriter, r *http.Request, acc *account, status int, message string) {
	token, err := generateToken(acc.person.ID, b.secret, tokenValidity)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, r, status, message, map[string]any{
		b.key("User"): authResponse{
			ID:        acc.person.ID,
			FirstName: acc.person.FirstName,
			LastName:  acc.person.LastName,
			Email:     acc.person.Email,
			Roles:     acc.roles,
			Token:     token,
		},
	})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in models.LoginForm
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}
	b.mu.Lock()
	acc := b.accounts[b.byEmail[strings.ToLower(in.Email)]]
	b.mu.Unlock()
	if acc == nil || !checkPassword(acc.hash, in.Password) {
		writeError(w, r, http.StatusBadRequest, "Invalid email or password!")
		return
	}
	b.issue(w, r, acc, http.StatusOK, "User logged in successfully!")
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterForm
	if err := decodeJSON(r, &in); err != nil || in.Validate() != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}
	b.mu.Lock()
	if _, exists := b.byEmail[strings.ToLower(in.Email)]; exists {
		b.mu.Unlock()
		writeFailure(w, r, http.StatusBadRequest, "Email already exists: "+in.Email)
		return
	}
	id := b.addUserLocked(in.FirstName, in.LastName, in.Email, in.Password, models.RoleStudent)
	acc := b.accounts[id]
	b.mu.Unlock()
	b.issue(w, r, acc, http.StatusCreated, "User registered successfully!")
}

func (b *Backend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	acc := currentAccount(r)
	token, err := generateToken(acc.person.ID, b.secret, tokenValidity)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, r, http.StatusOK, "Token refreshed", map[string]any{"token": token})
}

func (b *Backend) profile(acc *account) profileResponse {
	return profileResponse{
		ID:          acc.person.ID,
		FirstName:   acc.person.FirstName,
		LastName:    acc.person.LastName,
		Email:       acc.person.Email,
		Phone:       acc.person.Phone,
		Address:     acc.person.Address,
		DateOfBirth: acc.person.DateOfBirth,
		Roles:       acc.roles,
	}
}

func (b *Backend) handleMe(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	p := b.profile(currentAccount(r))
	b.mu.Unlock()
	writeData(w, r, http.StatusOK, "Profile retrieved", map[string]any{b.key("User"): p})
}

func (b *Backend) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileForm
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}
	if err := in.Validate(); err != nil {
		writeFailure(w, r, http.StatusBadRequest, err.Error())
		return
	}
	acc := currentAccount(r)
	b.mu.Lock()
	acc.person.FirstName = in.FirstName
	acc.person.LastName = in.LastName
	acc.person.Phone = in.Phone
	acc.person.Address = in.Address
	acc.person.DateOfBirth = in.DateOfBirth
	b.syncPersonLocked(acc.person)
	p := b.profile(acc)
	b.mu.Unlock()
	writeData(w, r, http.StatusOK, "Profile updated", map[string]any{b.key("User"): p})
}

// syncPersonLocked copies person changes into the student and employee
// records that embed it.
func (b *Backend) syncPersonLocked(p models.Person) {
	if id, ok := b.studentByPerson[p.ID]; ok {
		if s, ok := b.students.get(id); ok {
			s.Person = p
		}
	}
	if id, ok := b.employeeByPerson[p.ID]; ok {
		if e, ok := b.employees.get(id); ok {
			e.Person = p
		}
	}
}
