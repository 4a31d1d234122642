package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/dmitrijs2005/ums/internal/client/views"
)

func (a *App) table(header string, rows func(w io.Writer)) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	_ = w.Flush()
}

func (a *App) footer(p models.Pagination, n int) {
	if n == 0 {
		a.println("No records found")
		return
	}
	if pg := views.NewPager(p); pg.Visible {
		a.printf("Page %d of %d  %s\n", p.CurrentPage+1, p.TotalPages, strings.Join(pg.Labels(), " "))
	}
}

func (a *App) Students(ctx context.Context, args []string) error {
	page, err := pageArg(args)
	if err != nil {
		return err
	}
	p, err := a.session.API().Students.List(ctx, page, a.pageSize)
	if err != nil {
		return message(err, "Failed to fetch students")
	}
	a.table("ID\tNUMBER\tNAME\tEMAIL\tGPA\tSTATUS", func(w io.Writer) {
		for _, s := range p.Items {
			gpa := "-"
			if s.GPA != nil {
				gpa = fmt.Sprintf("%.2f", *s.GPA)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", s.ID, s.StudentNumber, s.Person.FullName(), s.Person.Email, gpa, s.Status)
		}
	})
	a.footer(p.Pagination, len(p.Items))
	return nil
}

func (a *App) Courses(ctx context.Context, args []string) error {
	page, err := pageArg(args)
	if err != nil {
		return err
	}
	p, err := a.session.API().Courses.List(ctx, page, a.pageSize)
	if err != nil {
		return message(err, "Failed to fetch courses")
	}
	a.table("ID\tCODE\tTITLE\tCREDITS", func(w io.Writer) {
		for _, c := range p.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", c.ID, c.CourseCode, c.Title, c.Credits)
		}
	})
	a.footer(p.Pagination, len(p.Items))
	return nil
}

// Classes lists the classes a student can still enroll in, or every class
// for staff.
func (a *App) Classes(ctx context.Context, args []string) error {
	page, err := pageArg(args)
	if err != nil {
		return err
	}
	u := a.session.Current()
	asStudent := u.HasRole(models.RoleStudent) && !u.HasRole(models.RoleAdmin) && !u.HasRole(models.RoleEmployee)

	var p *models.Page[models.CourseClass]
	if asStudent {
		p, err = a.session.API().Students.Classes(ctx, page, a.pageSize)
	} else {
		p, err = a.session.API().Classes.List(ctx, page, a.pageSize)
	}
	if err != nil {
		return message(err, "Failed to fetch classes")
	}
	a.table("ID\tCOURSE\tSEMESTER\tLECTURER\tCAPACITY\tSTATUS", func(w io.Writer) {
		for _, k := range p.Items {
			status := string(k.Status)
			if asStudent && views.NewEnrollControl(k).Disabled {
				status = "FULL"
			}
			fmt.Fprintf(w, "%s\t%s\t%s %d\t%s\t%s\t%s\n", k.ID, k.Course.CourseCode, k.Semester, k.AcademicYear,
				k.Lecturer.Person.FullName(), views.Capacity(k), status)
		}
	})
	a.footer(p.Pagination, len(p.Items))
	return nil
}

func (a *App) MyEnrollments(ctx context.Context, args []string) error {
	page, err := pageArg(args)
	if err != nil {
		return err
	}
	p, err := a.session.API().Students.Enrollments(ctx, page, a.pageSize)
	if err != nil {
		return message(err, "Failed to fetch enrollments")
	}
	a.table("ID\tCOURSE\tSEMESTER\tGRADE\tSTATUS", func(w io.Writer) {
		for _, e := range p.Items {
			grade := e.Grade
			if grade == "" {
				grade = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s %d\t%s\t%s\n", e.ID, e.CourseClass.Course.CourseCode,
				e.CourseClass.Semester, e.CourseClass.AcademicYear, grade, e.Status)
		}
	})
	a.footer(p.Pagination, len(p.Items))
	return nil
}
