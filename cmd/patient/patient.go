package patient

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/entnt/dentdesk/internal/app"
	"github.com/entnt/dentdesk/internal/model"
	"github.com/entnt/dentdesk/internal/repo"
	sessionsvc "github.com/entnt/dentdesk/internal/service/session"
	"github.com/entnt/dentdesk/pkg/authorize"
)

// NewPatientCommand groups roster management. Every subcommand is
// gated by the patients view, so only an Admin session may run them.
func NewPatientCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Manage the patient roster",
	}
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newAddCommand())
	cmd.AddCommand(newUpdateCommand())
	cmd.AddCommand(newRemoveCommand())
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(cmd)
			if err != nil {
				return err
			}
			return app.RunOnce(cfg, func(
				mgr *sessionsvc.Manager,
				patients *repo.Patients,
				authz *authorize.Authorizer,
			) error {
				if err := authz.Require(mgr.Identity(), authorize.ViewPatients); err != nil {
					return err
				}
				all, err := patients.List(context.Background())
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tDOB\tCONTACT\tHEALTH INFO")
				for _, p := range all {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.DOB, p.Contact, p.HealthInfo)
				}
				return w.Flush()
			})
		},
	}
}

func newAddCommand() *cobra.Command {
	var name, dob, contact, healthInfo string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a patient to the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(cmd)
			if err != nil {
				return err
			}
			return app.RunOnce(cfg, func(
				mgr *sessionsvc.Manager,
				patients *repo.Patients,
				authz *authorize.Authorizer,
			) error {
				if err := authz.Require(mgr.Identity(), authorize.ViewPatients); err != nil {
					return err
				}
				added, err := patients.Add(context.Background(), model.Patient{
					Name:       name,
					DOB:        dob,
					Contact:    contact,
					HealthInfo: healthInfo,
				})
				if err != nil {
					return err
				}
				fmt.Printf("Added patient %s (%s)\n", added.Name, added.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&dob, "dob", "", "date of birth as YYYY-MM-DD")
	cmd.Flags().StringVar(&contact, "contact", "", "contact number")
	cmd.Flags().StringVar(&healthInfo, "health-info", "", "health notes")
	return cmd
}

func newUpdateCommand() *cobra.Command {
	var name, dob, contact, healthInfo string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a patient record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(cmd)
			if err != nil {
				return err
			}
			return app.RunOnce(cfg, func(
				mgr *sessionsvc.Manager,
				patients *repo.Patients,
				authz *authorize.Authorizer,
			) error {
				if err := authz.Require(mgr.Identity(), authorize.ViewPatients); err != nil {
					return err
				}
				updated, err := patients.Update(context.Background(), args[0], func(p *model.Patient) {
					if cmd.Flags().Changed("name") {
						p.Name = name
					}
					if cmd.Flags().Changed("dob") {
						p.DOB = dob
					}
					if cmd.Flags().Changed("contact") {
						p.Contact = contact
					}
					if cmd.Flags().Changed("health-info") {
						p.HealthInfo = healthInfo
					}
				})
				if err != nil {
					return err
				}
				fmt.Printf("Updated patient %s (%s)\n", updated.Name, updated.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&dob, "dob", "", "date of birth as YYYY-MM-DD")
	cmd.Flags().StringVar(&contact, "contact", "", "contact number")
	cmd.Flags().StringVar(&healthInfo, "health-info", "", "health notes")
	return cmd
}

func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a patient from the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(cmd)
			if err != nil {
				return err
			}
			return app.RunOnce(cfg, func(
				mgr *sessionsvc.Manager,
				patients *repo.Patients,
				authz *authorize.Authorizer,
			) error {
				if err := authz.Require(mgr.Identity(), authorize.ViewPatients); err != nil {
					return err
				}
				if err := patients.Remove(context.Background(), args[0]); err != nil {
					return err
				}
				fmt.Printf("Removed patient %s\n", args[0])
				return nil
			})
		},
	}
}
