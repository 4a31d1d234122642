package views

import "github.com/dmitrijs2005/ums/internal/client/models"

type Link struct {
	Title       string
	Description string
	Href        string
}

// DashboardLinks picks the cards for the dashboard. Admins see everything;
// employees lose the employee directory; students get their own pages.
func DashboardLinks(u *models.User) []Link {
	switch {
	case u == nil:
		return nil
	case u.HasRole(models.RoleAdmin):
		return []Link{
			{"Students", "Manage student records and enrollments", "/students"},
			{"Employees", "Manage staff and faculty members", "/employees"},
			{"Courses", "Manage course catalog", "/courses"},
			{"Classes", "Manage class schedules and capacity", "/classes"},
			{"Enrollments", "View and manage student enrollments", "/enrollments"},
		}
	case u.HasRole(models.RoleEmployee):
		return []Link{
			{"Students", "View student records", "/students"},
			{"Courses", "Browse available courses", "/courses"},
			{"Classes", "View class schedules", "/classes"},
			{"Enrollments", "Manage student enrollments", "/enrollments"},
		}
	case u.HasRole(models.RoleStudent):
		return []Link{
			{"My Enrollments", "View your enrolled classes", "/my-enrollments"},
			{"Available Courses", "Browse available courses", "/courses"},
			{"Available Classes", "Find and enroll in classes", "/classes"},
		}
	default:
		return nil
	}
}
