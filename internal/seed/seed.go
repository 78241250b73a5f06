// Package seed installs the fixed reference dataset on first run.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/entnt/dentdesk/internal/model"
	"github.com/entnt/dentdesk/internal/repo"
	"github.com/entnt/dentdesk/internal/store"
)

func Users() []model.User {
	return []model.User{
		{ID: "u1", Email: "admin@entnt.in", Password: "admin123", Role: model.RoleAdmin},
		{ID: "u2", Email: "john@entnt.in", Password: "patient123", Role: model.RolePatient, PatientID: "p1"},
		{ID: "u3", Email: "jane@entnt.in", Password: "patient123", Role: model.RolePatient, PatientID: "p2"},
	}
}

func Patients() []model.Patient {
	return []model.Patient{
		{ID: "p1", Name: "John Doe", DOB: "1990-05-10", Contact: "9876543210", HealthInfo: "No allergies"},
		{ID: "p2", Name: "Jane Smith", DOB: "1985-11-23", Contact: "9123456780", HealthInfo: "Diabetic"},
	}
}

func Incidents(now time.Time) []model.Incident {
	nextWeek := now.AddDate(0, 0, 7)
	return []model.Incident{
		{
			ID:              "i1",
			PatientID:       "p1",
			Title:           "Toothache",
			Description:     "Upper molar pain",
			Comments:        "Sensitive to cold",
			AppointmentDate: now.AddDate(0, 0, -14),
			Cost:            80,
			Status:          model.StatusCompleted,
			Treatment:       "Filling",
			NextDate:        &nextWeek,
		},
		{
			ID:              "i2",
			PatientID:       "p1",
			Title:           "Root Canal",
			Description:     "Follow-up treatment",
			AppointmentDate: now.AddDate(0, 0, 3),
			Cost:            300,
			Status:          model.StatusScheduled,
		},
		{
			ID:              "i3",
			PatientID:       "p2",
			Title:           "Routine Checkup",
			AppointmentDate: now.AddDate(0, 0, 1),
			Status:          model.StatusScheduled,
		},
	}
}

// EnsureDefaults populates any collection that is absent from the
// store. It never overwrites a present collection, so running it on
// every startup is safe.
func EnsureDefaults(ctx context.Context, st store.Store) error {
	now := time.Now()

	if err := ensure(ctx, st, repo.KeyUsers, Users()); err != nil {
		return err
	}
	if err := ensure(ctx, st, repo.KeyPatients, Patients()); err != nil {
		return err
	}
	if err := ensure(ctx, st, repo.KeyIncidents, Incidents(now)); err != nil {
		return err
	}
	return nil
}

func ensure[T any](ctx context.Context, st store.Store, key string, defaults []T) error {
	var present []T
	err := st.Get(ctx, key, &present)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("check %s: %w", key, err)
	}

	if err := st.Put(ctx, key, defaults); err != nil {
		return fmt.Errorf("seed %s: %w", key, err)
	}
	slog.Info("seeded reference data", "collection", key, "records", len(defaults))
	return nil
}
