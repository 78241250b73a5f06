package patient

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/entnt/dentdesk/internal/model"
	"github.com/entnt/dentdesk/internal/repo"
	"github.com/entnt/dentdesk/internal/seed"
	sessionsvc "github.com/entnt/dentdesk/internal/service/session"
	"github.com/entnt/dentdesk/internal/store"
)

// writeConfig lays out a config file with store and blob roots under a
// fresh temp dir and returns the config path and the store dir.
func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	storeDir := filepath.Join(dir, "data")
	content := strings.Join([]string{
		"store:",
		"  file:",
		"    dir: " + storeDir,
		"blob:",
		"  local:",
		"    dir: " + filepath.Join(dir, "blobs"),
		"logging:",
		"  level: error",
		"",
	}, "\n")

	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath, storeDir
}

// seedAndLogin installs the reference dataset and persists a session
// for the user with the given email, as a prior login would have.
func seedAndLogin(t *testing.T, storeDir, email string) {
	t.Helper()
	st, err := store.NewFileStore(storeDir)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := seed.EnsureDefaults(ctx, st); err != nil {
		t.Fatalf("EnsureDefaults() error: %v", err)
	}
	for _, u := range seed.Users() {
		if u.Email == email {
			if err := st.Put(ctx, sessionsvc.Key, u); err != nil {
				t.Fatalf("persist session: %v", err)
			}
			return
		}
	}
	t.Fatalf("no seed user %q", email)
}

func run(t *testing.T, cfgPath string, args ...string) error {
	t.Helper()
	root := &cobra.Command{Use: "dentdesk", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().String("config", cfgPath, "config file path")
	root.AddCommand(NewPatientCommand())
	root.SetArgs(args)
	return root.Execute()
}

func listPatients(t *testing.T, storeDir string) []model.Patient {
	t.Helper()
	st, err := store.NewFileStore(storeDir)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	defer st.Close()
	all, err := repo.NewPatients(st).List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	return all
}

func TestAddPatientCommand(t *testing.T) {
	cfgPath, storeDir := writeConfig(t)
	seedAndLogin(t, storeDir, "admin@entnt.in")

	err := run(t, cfgPath, "patient", "add",
		"--name", "Ravi Kumar",
		"--dob", "1979-03-02",
		"--contact", "9876501234",
		"--health-info", "Hypertension")
	if err != nil {
		t.Fatalf("patient add: %v", err)
	}

	var added *model.Patient
	for _, p := range listPatients(t, storeDir) {
		if p.Name == "Ravi Kumar" {
			added = &p
			break
		}
	}
	if added == nil {
		t.Fatal("added patient not in the roster")
	}
	if added.ID == "" {
		t.Error("added patient has no id")
	}
	if added.Contact != "+919876501234" {
		t.Errorf("contact = %q, want it normalized to E.164", added.Contact)
	}
}

func TestUpdateAndRemovePatientCommands(t *testing.T) {
	cfgPath, storeDir := writeConfig(t)
	seedAndLogin(t, storeDir, "admin@entnt.in")

	if err := run(t, cfgPath, "patient", "update", "p1", "--health-info", "Penicillin allergy"); err != nil {
		t.Fatalf("patient update: %v", err)
	}
	for _, p := range listPatients(t, storeDir) {
		if p.ID == "p1" {
			if p.HealthInfo != "Penicillin allergy" {
				t.Errorf("health info = %q, want the updated value", p.HealthInfo)
			}
			if p.Name != "John Doe" {
				t.Errorf("name = %q, unset flags must leave fields alone", p.Name)
			}
		}
	}

	if err := run(t, cfgPath, "patient", "remove", "p2"); err != nil {
		t.Fatalf("patient remove: %v", err)
	}
	for _, p := range listPatients(t, storeDir) {
		if p.ID == "p2" {
			t.Error("removed patient still in the roster")
		}
	}
}

func TestRosterCommandsAreAdminOnly(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{name: "patient session denied", email: "john@entnt.in"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfgPath, storeDir := writeConfig(t)
			seedAndLogin(t, storeDir, tc.email)

			if err := run(t, cfgPath, "patient", "add", "--name", "X"); err == nil {
				t.Error("patient add succeeded without an admin session")
			}
			if len(listPatients(t, storeDir)) != 2 {
				t.Error("roster changed despite the denial")
			}
		})
	}
}

func TestRosterCommandsRequireSession(t *testing.T) {
	cfgPath, storeDir := writeConfig(t)
	// Seed without logging anyone in.
	st, err := store.NewFileStore(storeDir)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	if err := seed.EnsureDefaults(context.Background(), st); err != nil {
		t.Fatalf("EnsureDefaults() error: %v", err)
	}
	st.Close()

	if err := run(t, cfgPath, "patient", "list"); err == nil {
		t.Error("patient list succeeded without a session")
	}
}
