package views

import (
	"reflect"
	"testing"
	"time"

	"github.com/entnt/dentdesk/internal/model"
)

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation(time.RFC3339, value, time.Local)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return ts
}

func TestUpcomingAppointments(t *testing.T) {
	now := at(t, "2026-09-01T12:00:00Z")
	incidents := []model.Incident{
		{ID: "past", AppointmentDate: now.Add(-time.Hour)},
		{ID: "later", AppointmentDate: now.Add(48 * time.Hour)},
		{ID: "soon", AppointmentDate: now.Add(time.Hour)},
		{ID: "now", AppointmentDate: now},
	}

	got := UpcomingAppointments(incidents, now, 10)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for _, i := range got {
		if i.AppointmentDate.Before(now) {
			t.Errorf("returned past appointment %q", i.ID)
		}
	}
	wantOrder := []string{"now", "soon", "later"}
	for idx, id := range wantOrder {
		if got[idx].ID != id {
			t.Errorf("order[%d] = %q, want %q", idx, got[idx].ID, id)
		}
	}
}

func TestUpcomingAppointmentsLimit(t *testing.T) {
	now := at(t, "2026-09-01T12:00:00Z")
	var incidents []model.Incident
	for i := 0; i < 15; i++ {
		incidents = append(incidents, model.Incident{AppointmentDate: now.Add(time.Duration(i) * time.Hour)})
	}

	if got := UpcomingAppointments(incidents, now, 10); len(got) != 10 {
		t.Errorf("len = %d, want 10", len(got))
	}
	if got := UpcomingAppointments(incidents[:4], now, 10); len(got) != 4 {
		t.Errorf("len = %d, want all 4 when fewer than the limit", len(got))
	}
}

func TestUpcomingAppointmentsStableOnTies(t *testing.T) {
	now := at(t, "2026-09-01T12:00:00Z")
	same := now.Add(time.Hour)
	incidents := []model.Incident{
		{ID: "first", AppointmentDate: same},
		{ID: "second", AppointmentDate: same},
		{ID: "third", AppointmentDate: same},
	}

	got := UpcomingAppointments(incidents, now, 10)
	for idx, id := range []string{"first", "second", "third"} {
		if got[idx].ID != id {
			t.Errorf("tie order[%d] = %q, want snapshot order preserved", idx, got[idx].ID)
		}
	}
}

func TestTotalRevenue(t *testing.T) {
	// Costs 100, 0, 50 and one record persisted without a cost field.
	incidents := []model.Incident{
		{Cost: 100},
		{Cost: 0},
		{Cost: 50},
		{},
	}
	if got := TotalRevenue(incidents); got != 150 {
		t.Errorf("TotalRevenue() = %v, want 150", got)
	}
	if got := TotalRevenue(nil); got != 0 {
		t.Errorf("TotalRevenue(nil) = %v, want 0", got)
	}
}

func TestTopPatients(t *testing.T) {
	patients := []model.Patient{
		{ID: "p1", Name: "John Doe"},
		{ID: "p2", Name: "Jane Smith"},
	}
	incidents := []model.Incident{
		{PatientID: "p1"},
		{PatientID: "p2"},
		{PatientID: "p1"},
		{PatientID: "p1"},
	}

	got := TopPatients(incidents, patients, 2)
	want := []string{"John Doe", "Jane Smith"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopPatients() = %v, want %v", got, want)
	}

	// Idempotent on the same snapshot.
	again := TopPatients(incidents, patients, 2)
	if !reflect.DeepEqual(got, again) {
		t.Errorf("second call = %v, want %v", again, got)
	}
}

func TestTopPatientsTieBreaksOnFirstSeen(t *testing.T) {
	patients := []model.Patient{
		{ID: "p1", Name: "John Doe"},
		{ID: "p2", Name: "Jane Smith"},
	}
	// Equal counts; p2 appears first in the snapshot.
	incidents := []model.Incident{
		{PatientID: "p2"},
		{PatientID: "p1"},
		{PatientID: "p2"},
		{PatientID: "p1"},
	}

	got := TopPatients(incidents, patients, 2)
	want := []string{"Jane Smith", "John Doe"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopPatients() = %v, want %v", got, want)
	}
}

func TestTopPatientsMissingPatientFallsBack(t *testing.T) {
	incidents := []model.Incident{
		{PatientID: "gone"},
		{PatientID: "gone"},
	}

	got := TopPatients(incidents, nil, 3)
	if !reflect.DeepEqual(got, []string{UnknownPatient}) {
		t.Errorf("TopPatients() = %v, want [%q]", got, UnknownPatient)
	}
}

func TestAppointmentsForDate(t *testing.T) {
	day := time.Date(2026, time.September, 14, 0, 0, 0, 0, time.Local)
	incidents := []model.Incident{
		{ID: "morning", AppointmentDate: time.Date(2026, time.September, 14, 9, 0, 0, 0, time.Local)},
		{ID: "evening", AppointmentDate: time.Date(2026, time.September, 14, 23, 30, 0, 0, time.Local)},
		{ID: "next-day", AppointmentDate: time.Date(2026, time.September, 15, 0, 0, 0, 0, time.Local)},
		{ID: "prev-day", AppointmentDate: time.Date(2026, time.September, 13, 23, 59, 0, 0, time.Local)},
	}

	got := AppointmentsForDate(incidents, day)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "morning" || got[1].ID != "evening" {
		t.Errorf("got %v, want morning and evening only", got)
	}
}

func TestTreatmentCounts(t *testing.T) {
	incidents := []model.Incident{
		{PatientID: "p1", Status: model.StatusCompleted, Cost: 80},
		{PatientID: "p1", Status: model.StatusScheduled, Cost: 300},
		{PatientID: "p1", Status: model.StatusInProgress},
		{PatientID: "p1", Status: model.StatusCancelled},
		{PatientID: "p2", Status: model.StatusCompleted, Cost: 40},
	}

	got := TreatmentCounts("p1", incidents)
	if got.Completed != 1 {
		t.Errorf("Completed = %d, want 1", got.Completed)
	}
	if got.Pending != 3 {
		t.Errorf("Pending = %d, want 3 (everything not Completed)", got.Pending)
	}
	if got.TotalCost != 380 {
		t.Errorf("TotalCost = %v, want 380", got.TotalCost)
	}
}

// Deleting a patient leaves its incidents in place; lookups fall back
// to the placeholder instead of failing.
func TestDanglingPatientReferenceRenders(t *testing.T) {
	patients := []model.Patient{{ID: "p2", Name: "Jane Smith"}}
	incidents := []model.Incident{
		{PatientID: "p1"},
		{PatientID: "p1"},
		{PatientID: "p2"},
	}

	got := TopPatients(incidents, patients, 2)
	want := []string{UnknownPatient, "Jane Smith"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopPatients() = %v, want %v", got, want)
	}
}
