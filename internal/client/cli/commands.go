package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/ums/internal/client/apiclient"
	"github.com/dmitrijs2005/ums/internal/client/guard"
	"github.com/dmitrijs2005/ums/internal/client/models"
)

var (
	ErrLoginRequired  = errors.New("please login first")
	ErrAccessDenied   = errors.New("access denied")
	ErrSessionLoading = errors.New("session storage unavailable, try again")
	ErrSessionExpired = errors.New("your session has expired, please login again")
	ErrUsage          = errors.New("usage")
)

var (
	staff    = []models.Role{models.RoleAdmin, models.RoleEmployee}
	students = []models.Role{models.RoleStudent}
	everyone = []models.Role{models.RoleAdmin, models.RoleEmployee, models.RoleStudent}
)

type command struct {
	name  string
	usage string
	// public commands skip the guard. Otherwise roles restricts access and an
	// empty roles list admits any signed-in user.
	public bool
	roles  []models.Role
	run    func(a *App, ctx context.Context, args []string) error
}

var commands = []command{
	{name: "login", usage: "login", public: true, run: (*App).Login},
	{name: "register", usage: "register", public: true, run: (*App).Register},
	{name: "logout", usage: "logout", public: true, run: (*App).Logout},
	{name: "whoami", usage: "whoami", roles: everyone, run: (*App).WhoAmI},
	{name: "refresh", usage: "refresh", roles: everyone, run: (*App).Refresh},
	{name: "students", usage: "students [page]", roles: staff, run: (*App).Students},
	{name: "courses", usage: "courses [page]", run: (*App).Courses},
	{name: "classes", usage: "classes [page]", run: (*App).Classes},
	{name: "enroll", usage: "enroll <classId>", roles: students, run: (*App).Enroll},
	{name: "drop", usage: "drop <enrollmentId>", roles: students, run: (*App).Drop},
	{name: "my-enrollments", usage: "my-enrollments [page]", roles: students, run: (*App).MyEnrollments},
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// allowed runs the route guard for c against the current session, retrying
// a failed restore from storage first.
func (a *App) allowed(ctx context.Context, c command) error {
	if c.public {
		return nil
	}
	if !a.session.Hydrated() {
		if err := a.session.Hydrate(ctx); err != nil {
			a.logger.Warn(ctx, "session storage unavailable", "error", err)
		}
	}
	state := guard.State{Initializing: !a.session.Hydrated(), User: a.session.Current()}
	switch guard.Evaluate(state, c.roles) {
	case guard.Loading:
		return ErrSessionLoading
	case guard.RedirectLogin:
		return ErrLoginRequired
	case guard.RedirectUnauthorized:
		return ErrAccessDenied
	default:
		return nil
	}
}

func (a *App) exec(ctx context.Context, name string, args []string) error {
	c, ok := lookup(name)
	if !ok {
		return fmt.Errorf("unknown command: %s", name)
	}
	if err := a.allowed(ctx, c); err != nil {
		return err
	}
	err := c.run(a, ctx, args)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apiclient.ErrUnauthorized):
		return ErrSessionExpired
	case errors.Is(err, ErrUsage):
		return fmt.Errorf("%w: %s", ErrUsage, c.usage)
	default:
		return err
	}
}

// help lists the commands the current session may run.
func (a *App) help() string {
	names := []string{"help"}
	for _, c := range commands {
		if c.public {
			if c.name == "logout" && !a.isLoggedIn() {
				continue
			}
			if c.name != "logout" && a.isLoggedIn() {
				continue
			}
			names = append(names, c.usage)
			continue
		}
		state := guard.State{User: a.session.Current()}
		if guard.Evaluate(state, c.roles) == guard.Render {
			names = append(names, c.usage)
		}
	}
	names = append(names, "exit")
	return "Available commands: " + strings.Join(names, ", ")
}

// pageArg reads an optional one-based page number and returns it zero-based.
func pageArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, ErrUsage
	}
	return n - 1, nil
}

// message turns a backend failure into the text shown to the user.
func message(err error, fallback string) error {
	if errors.Is(err, apiclient.ErrUnauthorized) {
		return err
	}
	return errors.New(apiclient.UserMessage(err, fallback))
}
