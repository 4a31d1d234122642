package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/ums/internal/client/session"
	"github.com/dmitrijs2005/ums/internal/logging"
)

// Namespace is the storage namespace of the CLI session.
const Namespace = "cli"

type App struct {
	session  *session.Manager
	logger   logging.Logger
	pageSize int
	reader   *bufio.Reader
	out      io.Writer
}

type Option func(*App)

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.reader = bufio.NewReader(in)
		a.out = out
	}
}

func WithPageSize(n int) Option {
	return func(a *App) {
		if n > 0 {
			a.pageSize = n
		}
	}
}

func NewApp(m *session.Manager, logger logging.Logger, opts ...Option) *App {
	a := &App{
		session:  m,
		logger:   logger,
		pageSize: 10,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Run restores the stored session and runs the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) {
	if err := a.session.Hydrate(ctx); err != nil {
		a.logger.Warn(ctx, "session storage unavailable", "error", err)
	}
	a.println("University records CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.session.Current() != nil
}

// status is the prompt decoration: the signed-in email and roles.
func (a *App) status() string {
	u := a.session.Current()
	if u == nil {
		return ""
	}
	return fmt.Sprintf("(%s %s)", u.Email, u.Roles)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
