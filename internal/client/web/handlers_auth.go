package web

import (
	"net/http"

	"github.com/dmitrijs2005/ums/internal/client/apiclient"
	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/dmitrijs2005/ums/internal/client/session"
	"github.com/dmitrijs2005/ums/internal/client/views"
)

type authData struct {
	Email     string
	FirstName string
	LastName  string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if managerFrom(r.Context()).Current() != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.renderPage(w, r, http.StatusOK, "login", page{Title: "Sign in", Data: authData{}})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	f := models.LoginForm{Email: field(r, "email"), Password: r.PostFormValue("password")}
	data := authData{Email: f.Email}
	if err := f.Validate(); err != nil {
		s.renderPage(w, r, http.StatusBadRequest, "login", page{Title: "Sign in", Error: err.Error(), Data: data})
		return
	}

	err := s.signIn(w, r, func(m *session.Manager) error {
		_, err := m.Login(r.Context(), f.Email, f.Password)
		return err
	})
	if err != nil {
		s.log(r.Context()).Info(r.Context(), "login failed", "error", err)
		s.renderPage(w, r, http.StatusUnauthorized, "login", page{
			Title: "Sign in",
			Error: apiclient.UserMessage(err, "Login failed"),
			Data:  data,
		})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "register", page{Title: "Register", Data: authData{}})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	f := models.RegisterForm{
		FirstName: field(r, "firstName"),
		LastName:  field(r, "lastName"),
		Email:     field(r, "email"),
		Password:  r.PostFormValue("password"),
	}
	data := authData{Email: f.Email, FirstName: f.FirstName, LastName: f.LastName}
	if f.Password != r.PostFormValue("confirmPassword") {
		s.renderPage(w, r, http.StatusBadRequest, "register", page{Title: "Register", Error: "Passwords do not match", Data: data})
		return
	}
	if err := f.Validate(); err != nil {
		s.renderPage(w, r, http.StatusBadRequest, "register", page{Title: "Register", Error: err.Error(), Data: data})
		return
	}

	err := s.signIn(w, r, func(m *session.Manager) error {
		_, err := m.Register(r.Context(), f.FirstName, f.LastName, f.Email, f.Password)
		return err
	})
	if err != nil {
		s.renderPage(w, r, http.StatusBadRequest, "register", page{
			Title: "Register",
			Error: apiclient.UserMessage(err, "Registration failed"),
			Data:  data,
		})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	managerFrom(r.Context()).Logout(r.Context())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleUnauthorized(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusForbidden, "unauthorized", page{Title: "Access denied"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	u := managerFrom(r.Context()).Current()
	s.renderPage(w, r, http.StatusOK, "dashboard", page{Title: "Dashboard", User: u, Data: views.DashboardLinks(u)})
}

// handleProfile refreshes the session from the role-specific profile
// endpoint before showing it.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	m := managerFrom(r.Context())
	m.RefreshUser(r.Context())
	u := m.Current()
	if u == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	s.renderPage(w, r, http.StatusOK, "profile", page{Title: "My profile", User: u, Data: u})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	m := managerFrom(r.Context())
	f := profileForm(r)
	if err := f.Validate(); err != nil {
		redirectWithFlash(w, r, "/profile", err.Error())
		return
	}
	if _, err := m.API().Auth.UpdateProfile(r.Context(), f); err != nil {
		s.failAction(w, r, err, "/profile", "Failed to update profile")
		return
	}
	m.RefreshUser(r.Context())
	redirectWithFlash(w, r, "/profile", "Profile updated")
}
