package cli

import (
	"context"
	"strings"
)

// confirm asks a yes/no question. Anything but y or yes is a no.
func (a *App) confirm(prompt string) (bool, error) {
	answer, err := getSimpleText(a.reader, prompt+" [y/N]", a.out)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (a *App) Enroll(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	ok, err := a.confirm("Are you sure you want to enroll in this class?")
	if err != nil || !ok {
		return err
	}
	if _, err := a.session.API().Students.Enroll(ctx, args[0]); err != nil {
		return message(err, "Failed to enroll")
	}
	a.println("Successfully enrolled in class!")
	return nil
}

func (a *App) Drop(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	ok, err := a.confirm("Are you sure you want to drop this course? This action cannot be undone.")
	if err != nil || !ok {
		return err
	}
	if err := a.session.API().Students.Drop(ctx, args[0]); err != nil {
		return message(err, "Failed to drop enrollment. Please try again.")
	}
	a.println("Enrollment dropped")
	return nil
}
