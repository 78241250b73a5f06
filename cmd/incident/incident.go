package incident

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/entnt/dentdesk/internal/app"
	"github.com/entnt/dentdesk/internal/model"
	"github.com/entnt/dentdesk/internal/repo"
	"github.com/entnt/dentdesk/internal/service/attachment"
	sessionsvc "github.com/entnt/dentdesk/internal/service/session"
	"github.com/entnt/dentdesk/pkg/authorize"
)

// NewIncidentCommand groups appointment management. Every subcommand
// is gated by the incidents view, so only an Admin session may run them.
func NewIncidentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "incident",
		Short: "Manage appointments and treatments",
	}
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newAddCommand())
	cmd.AddCommand(newUpdateCommand())
	cmd.AddCommand(newRemoveCommand())
	cmd.AddCommand(newAttachCommand())
	cmd.AddCommand(newDetachCommand())
	return cmd
}

// parseWhen accepts the date formats appointments are usually typed in.
func parseWhen(value string) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}
	for _, layout := range layouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, want YYYY-MM-DD [HH:MM]", value)
}

func newListCommand() *cobra.Command {
	var patientID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print appointments, optionally for one patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(cmd)
			if err != nil {
				return err
			}
			return app.RunOnce(cfg, func(
				mgr *sessionsvc.Manager,
				incidents *repo.Incidents,
				authz *authorize.Authorizer,
			) error {
				if err := authz.Require(mgr.Identity(), authorize.ViewIncidents); err != nil {
					return err
				}
				all, err := incidents.List(context.Background())
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tDATE\tTITLE\tSTATUS\tCOST\tPATIENT\tFILES")
				for _, i := range all {
					if patientID != "" && i.PatientID != patientID {
						continue
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t$%.2f\t%s\t%d\n",
						i.ID, i.AppointmentDate.Format(time.RFC3339), i.Title, i.Status,
						i.Cost, i.PatientID, len(i.Attachments))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&patientID, "patient", "", "only this patient's appointments")
	return cmd
}

func newAddCommand() *cobra.Command {
	var (
		patientID, title, description, comments string
		treatment, status, date, nextDate       string
		cost                                    float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Schedule an appointment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(cmd)
			if err != nil {
				return err
			}

			when, err := parseWhen(date)
			if err != nil {
				return err
			}
			var next *time.Time
			if nextDate != "" {
				ts, err := parseWhen(nextDate)
				if err != nil {
					return err
				}
				next = &ts
			}

			return app.RunOnce(cfg, func(
				mgr *sessionsvc.Manager,
				incidents *repo.Incidents,
				authz *authorize.Authorizer,
			) error {
				if err := authz.Require(mgr.Identity(), authorize.ViewIncidents); err != nil {
					return err
				}
				added, err := incidents.Add(context.Background(), model.Incident{
					PatientID:       patientID,
					Title:           title,
					Description:     description,
					Comments:        comments,
					AppointmentDate: when,
					Cost:            cost,
					Status:          model.IncidentStatus(status),
					Treatment:       treatment,
					NextDate:        next,
				})
				if err != nil {
					return err
				}
				fmt.Printf("Scheduled %q (%s) for patient %s\n", added.Title, added.ID, added.PatientID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&patientID, "patient", "", "patient id")
	cmd.MarkFlagRequired("patient")
	cmd.Flags().StringVar(&title, "title", "", "short title")
	cmd.MarkFlagRequired("title")
	cmd.Flags().StringVar(&date, "date", "", "appointment time as YYYY-MM-DD [HH:MM]")
	cmd.MarkFlagRequired("date")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&comments, "comments", "", "comments")
	cmd.Flags().Float64Var(&cost, "cost", 0, "treatment cost")
	cmd.Flags().StringVar(&status, "status", "", "Scheduled, In Progress, Completed, or Cancelled")
	cmd.Flags().StringVar(&treatment, "treatment", "", "treatment notes")
	cmd.Flags().StringVar(&nextDate, "next-date", "", "follow-up time as YYYY-MM-DD [HH:MM]")
	return cmd
}

func newUpdateCommand() *cobra.Command {
	var (
		title, description, comments      string
		treatment, status, date, nextDate string
		cost                              float64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(cmd)
			if err != nil {
				return err
			}

			var when, next *time.Time
			if cmd.Flags().Changed("date") {
				ts, err := parseWhen(date)
				if err != nil {
					return err
				}
				when = &ts
			}
			if cmd.Flags().Changed("next-date") {
				ts, err := parseWhen(nextDate)
				if err != nil {
					return err
				}
				next = &ts
			}

			return app.RunOnce(cfg, func(
				mgr *sessionsvc.Manager,
				incidents *repo.Incidents,
				authz *authorize.Authorizer,
			) error {
				if err := authz.Require(mgr.Identity(), authorize.ViewIncidents); err != nil {
					return err
				}
				updated, err := incidents.Update(context.Background(), args[0], func(i *model.Incident) {
					if cmd.Flags().Changed("title") {
						i.Title = title
					}
					if cmd.Flags().Changed("description") {
						i.Description = description
					}
					if cmd.Flags().Changed("comments") {
						i.Comments = comments
					}
					if when != nil {
						i.AppointmentDate = *when
					}
					if cmd.Flags().Changed("cost") {
						i.Cost = cost
					}
					if cmd.Flags().Changed("status") {
						i.Status = model.IncidentStatus(status)
					}
					if cmd.Flags().Changed("treatment") {
						i.Treatment = treatment
					}
					if next != nil {
						i.NextDate = next
					}
				})
				if err != nil {
					return err
				}
				fmt.Printf("Updated %q (%s)\n", updated.Title, updated.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "short title")
	cmd.Flags().StringVar(&date, "date", "", "appointment time as YYYY-MM-DD [HH:MM]")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&comments, "comments", "", "comments")
	cmd.Flags().Float64Var(&cost, "cost", 0, "treatment cost")
	cmd.Flags().StringVar(&status, "status", "", "Scheduled, In Progress, Completed, or Cancelled")
	cmd.Flags().StringVar(&treatment, "treatment", "", "treatment notes")
	cmd.Flags().StringVar(&nextDate, "next-date", "", "follow-up time as YYYY-MM-DD [HH:MM]")
	return cmd
}

func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(cmd)
			if err != nil {
				return err
			}
			return app.RunOnce(cfg, func(
				mgr *sessionsvc.Manager,
				incidents *repo.Incidents,
				authz *authorize.Authorizer,
			) error {
				if err := authz.Require(mgr.Identity(), authorize.ViewIncidents); err != nil {
					return err
				}
				if err := incidents.Remove(context.Background(), args[0]); err != nil {
					return err
				}
				fmt.Printf("Removed incident %s\n", args[0])
				return nil
			})
		},
	}
}

func newAttachCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "attach <id> <file>...",
		Short: "Upload files onto an appointment",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(cmd)
			if err != nil {
				return err
			}
			return app.RunOnce(cfg, func(
				mgr *sessionsvc.Manager,
				svc attachment.Service,
				authz *authorize.Authorizer,
			) error {
				if err := authz.Require(mgr.Identity(), authorize.ViewIncidents); err != nil {
					return err
				}

				var files []attachment.FileInput
				for _, path := range args[1:] {
					f, err := os.Open(path)
					if err != nil {
						return err
					}
					defer f.Close()
					files = append(files, attachment.FileInput{
						Name:    filepath.Base(path),
						Content: f,
					})
				}

				updated, err := svc.Attach(context.Background(), args[0], files)
				if err != nil {
					return err
				}
				fmt.Printf("%q now carries %d files\n", updated.Title, len(updated.Attachments))
				return nil
			})
		},
	}
}

func newDetachCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detach <id> <index>",
		Short: "Remove the attachment at the given position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(cmd)
			if err != nil {
				return err
			}
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[1])
			}
			return app.RunOnce(cfg, func(
				mgr *sessionsvc.Manager,
				svc attachment.Service,
				authz *authorize.Authorizer,
			) error {
				if err := authz.Require(mgr.Identity(), authorize.ViewIncidents); err != nil {
					return err
				}
				updated, err := svc.Detach(context.Background(), args[0], index)
				if err != nil {
					return err
				}
				fmt.Printf("%q now carries %d files\n", updated.Title, len(updated.Attachments))
				return nil
			})
		},
	}
}
