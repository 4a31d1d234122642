package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/ums/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	f := models.LoginForm{Email: email, Password: password}
	if err := f.Validate(); err != nil {
		return err
	}

	u, err := a.session.Login(ctx, f.Email, f.Password)
	if err != nil {
		a.logger.Info(ctx, "login failed", "error", err)
		return message(err, "Login failed")
	}
	a.printf("Welcome back, %s! Roles: %s\n", u.FirstName, u.Roles)
	return nil
}

func (a *App) Register(ctx context.Context, _ []string) error {
	var f models.RegisterForm
	for _, p := range []struct {
		prompt string
		dst    *string
	}{
		{"Enter first name", &f.FirstName},
		{"Enter last name", &f.LastName},
		{"Enter email", &f.Email},
	} {
		v, err := getSimpleText(a.reader, p.prompt, a.out)
		if err != nil {
			return err
		}
		*p.dst = v
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	confirm, err := getPassword(a.out)
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}
	f.Password = password
	if err := f.Validate(); err != nil {
		return err
	}

	u, err := a.session.Register(ctx, f.FirstName, f.LastName, f.Email, f.Password)
	if err != nil {
		return message(err, "Registration failed")
	}
	a.printf("Welcome, %s! Roles: %s\n", u.FirstName, u.Roles)
	return nil
}

// Logout never fails; the session is cleared even if storage is down.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.session.Logout(ctx)
	a.println("Logged out")
	return nil
}

func (a *App) WhoAmI(_ context.Context, _ []string) error {
	u := a.session.Current()
	a.printf("%s <%s>\n", u.FullName(), u.Email)
	a.printf("Roles: %s\n", u.Roles)
	if u.StudentNumber != "" {
		a.printf("Student number: %s\n", u.StudentNumber)
	}
	if u.Major != "" {
		a.printf("Major: %s\n", u.Major)
	}
	if u.GPA != nil {
		a.printf("GPA: %.2f\n", *u.GPA)
	}
	if u.EmployeeID != "" {
		a.printf("Employee ID: %s\n", u.EmployeeID)
	}
	if u.Position != "" {
		a.printf("Position: %s\n", u.Position)
	}
	return nil
}

// Refresh reloads the profile. A failed fetch keeps the current profile.
func (a *App) Refresh(ctx context.Context, args []string) error {
	a.session.RefreshUser(ctx)
	if !a.isLoggedIn() {
		return ErrSessionExpired
	}
	return a.WhoAmI(ctx, args)
}
