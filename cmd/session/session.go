package session

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/entnt/dentdesk/internal/app"
	sessionsvc "github.com/entnt/dentdesk/internal/service/session"
)

// NewSessionCommand groups identity commands.
func NewSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Log in, log out, and inspect the current identity",
	}
	cmd.AddCommand(newLoginCommand())
	cmd.AddCommand(newLogoutCommand())
	cmd.AddCommand(newWhoamiCommand())
	cmd.AddCommand(newUpdateProfileCommand())
	return cmd
}

func newLoginCommand() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Authenticate and persist the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(cmd)
			if err != nil {
				return err
			}

			if password == "" {
				fmt.Print("Password: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return err
				}
				password = strings.TrimRight(line, "\r\n")
			}

			return app.RunOnce(cfg, func(mgr *sessionsvc.Manager) error {
				user, err := mgr.Login(context.Background(), args[0], password)
				if err != nil {
					return err
				}
				fmt.Printf("Logged in as %s (%s)\n", user.Email, user.Role)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the session in every context sharing the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(cmd)
			if err != nil {
				return err
			}
			return app.RunOnce(cfg, func(mgr *sessionsvc.Manager) error {
				if err := mgr.Logout(context.Background()); err != nil {
					return err
				}
				fmt.Println("Logged out.")
				return nil
			})
		},
	}
}

func newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(cmd)
			if err != nil {
				return err
			}
			return app.RunOnce(cfg, func(mgr *sessionsvc.Manager) error {
				user, ok := mgr.Current()
				if !ok {
					fmt.Println("Not logged in.")
					return nil
				}
				fmt.Printf("%s (%s)\n", user.Email, user.Role)
				return nil
			})
		},
	}
}

func newUpdateProfileCommand() *cobra.Command {
	var name, dob, contact, healthInfo string

	cmd := &cobra.Command{
		Use:   "update-profile",
		Short: "Edit the patient record linked to the current identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(cmd)
			if err != nil {
				return err
			}
			return app.RunOnce(cfg, func(mgr *sessionsvc.Manager) error {
				// Only flags the caller set become part of the update.
				var upd sessionsvc.ProfileUpdate
				if cmd.Flags().Changed("name") {
					upd.Name = &name
				}
				if cmd.Flags().Changed("dob") {
					upd.DOB = &dob
				}
				if cmd.Flags().Changed("contact") {
					upd.Contact = &contact
				}
				if cmd.Flags().Changed("health-info") {
					upd.HealthInfo = &healthInfo
				}

				patient, err := mgr.UpdateOwnProfile(context.Background(), upd)
				if err != nil {
					return err
				}
				fmt.Printf("Profile updated for %s\n", patient.Name)
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
