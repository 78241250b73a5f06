package report

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/entnt/dentdesk/internal/app"
	"github.com/entnt/dentdesk/internal/model"
	"github.com/entnt/dentdesk/internal/repo"
	sessionsvc "github.com/entnt/dentdesk/internal/service/session"
	"github.com/entnt/dentdesk/internal/service/views"
	"github.com/entnt/dentdesk/pkg/authorize"
)

// NewReportCommand groups the read-only dashboard projections.
func NewReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Role-scoped dashboard and calendar reports",
	}
	cmd.AddCommand(newDashboardCommand())
	cmd.AddCommand(newCalendarCommand())
	return cmd
}

func newDashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print the dashboard for the current identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(cmd)
			if err != nil {
				return err
			}
			return app.RunOnce(cfg, runDashboard)
		},
	}
}

func runDashboard(
	mgr *sessionsvc.Manager,
	patients *repo.Patients,
	incidents *repo.Incidents,
	authz *authorize.Authorizer,
) error {
	ctx := context.Background()

	if err := authz.Require(mgr.Identity(), authorize.ViewDashboard); err != nil {
		return err
	}
	user, _ := mgr.Current()

	allIncidents, err := incidents.List(ctx)
	if err != nil {
		return err
	}
	allPatients, err := patients.List(ctx)
	if err != nil {
		return err
	}

	if user.Role == model.RoleAdmin {
		printAdminDashboard(allIncidents, allPatients)
		return nil
	}
	printPatientDashboard(user, allIncidents, allPatients)
	return nil
}

func printAdminDashboard(incidents []model.Incident, patients []model.Patient) {
	upcoming := views.UpcomingAppointments(incidents, time.Now(), 10)
	revenue := views.TotalRevenue(incidents)
	top := views.TopPatients(incidents, patients, 3)

	fmt.Printf("Upcoming appointments: %d\n", len(upcoming))
	fmt.Printf("Total revenue:         $%.2f\n", revenue)
	fmt.Printf("Top patients:          %v\n\n", top)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTITLE\tSTATUS")
	for _, i := range upcoming {
		fmt.Fprintf(w, "%s\t%s\t%s\n", i.AppointmentDate.Format(time.RFC3339), i.Title, i.Status)
	}
	w.Flush()

	fmt.Println("\nPatient roster:")
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCOMPLETED\tPENDING\tTOTAL COST")
	for _, p := range patients {
		stats := views.TreatmentCounts(p.ID, incidents)
		fmt.Fprintf(w, "%s\t%d\t%d\t$%.2f\n", p.Name, stats.Completed, stats.Pending, stats.TotalCost)
	}
	w.Flush()
}

func printPatientDashboard(user model.User, incidents []model.Incident, patients []model.Patient) {
	name := views.UnknownPatient
	for _, p := range patients {
		if p.ID == user.PatientID {
			name = p.Name
			break
		}
	}
	fmt.Printf("Welcome, %s\n\n", name)

	mine := views.PatientAppointments(incidents, user.PatientID)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTITLE\tSTATUS\tCOST")
	for _, i := range mine {
		fmt.Fprintf(w, "%s\t%s\t%s\t$%.2f\n", i.AppointmentDate.Format(time.RFC3339), i.Title, i.Status, i.Cost)
	}
	w.Flush()
}

func newCalendarCommand() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the month grid with appointment counts per day",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(cmd)
			if err != nil {
				return err
			}

			anchor := time.Now()
			if month != "" {
				anchor, err = time.ParseInLocation("2006-01", month, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --month %q, want YYYY-MM", month)
				}
			}

			return app.RunOnce(cfg, func(
				mgr *sessionsvc.Manager,
				incidents *repo.Incidents,
				authz *authorize.Authorizer,
			) error {
				if err := authz.Require(mgr.Identity(), authorize.ViewCalendar); err != nil {
					return err
				}

				allIncidents, err := incidents.List(context.Background())
				if err != nil {
					return err
				}
				printMonth(anchor.Year(), anchor.Month(), allIncidents)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to render as YYYY-MM (default: current)")
	return cmd
}

func printMonth(year int, month time.Month, incidents []model.Incident) {
	fmt.Printf("%s %d\n", month, year)
	fmt.Println("Sun     Mon     Tue     Wed     Thu     Fri     Sat")

	cells := views.MonthGrid(year, month)
	for idx, cell := range cells {
		if cell.Blank {
			fmt.Print("        ")
		} else {
			n := len(views.AppointmentsForDate(incidents, cell.Date))
			if n > 0 {
				fmt.Printf("%2d (%d)  ", cell.Date.Day(), n)
			} else {
				fmt.Printf("%2d      ", cell.Date.Day())
			}
		}
		if (idx+1)%7 == 0 {
			fmt.Println()
		}
	}
}
