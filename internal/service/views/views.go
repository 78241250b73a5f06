// Package views computes dashboard projections from collection
// snapshots. Every function is pure and deterministic; nothing here is
// cached or incrementally maintained, the datasets are small enough to
// recompute on every render.
package views

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/entnt/dentdesk/internal/model"
)

// UnknownPatient is rendered when an incident references a patient id
// that no longer exists. Deleting a patient does not cascade.
const UnknownPatient = "Unknown Patient"

// UpcomingAppointments returns the next appointments at or after now,
// soonest first, at most limit. Equal timestamps keep snapshot order.
func UpcomingAppointments(incidents []model.Incident, now time.Time, limit int) []model.Incident {
	upcoming := lo.Filter(incidents, func(i model.Incident, _ int) bool {
		return !i.AppointmentDate.Before(now)
	})
	sort.SliceStable(upcoming, func(a, b int) bool {
		return upcoming[a].AppointmentDate.Before(upcoming[b].AppointmentDate)
	})
	if limit >= 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

// PatientAppointments returns one patient's incidents, soonest first.
func PatientAppointments(incidents []model.Incident, patientID string) []model.Incident {
	mine := lo.Filter(incidents, func(i model.Incident, _ int) bool {
		return i.PatientID == patientID
	})
	sort.SliceStable(mine, func(a, b int) bool {
		return mine[a].AppointmentDate.Before(mine[b].AppointmentDate)
	})
	return mine
}

// TotalRevenue sums cost over all incidents. Records persisted without
// a cost decode as 0 and contribute nothing.
func TotalRevenue(incidents []model.Incident) float64 {
	return lo.SumBy(incidents, func(i model.Incident) float64 { return i.Cost })
}

// TopPatients returns up to limit patient display names ranked by
// visit count, most visits first. Ties keep the order in which the
// patients were first seen in the snapshot. A missing patient record
// renders as UnknownPatient.
func TopPatients(incidents []model.Incident, patients []model.Patient, limit int) []string {
	counts := make(map[string]int)
	var order []string
	for _, i := range incidents {
		if counts[i.PatientID] == 0 {
			order = append(order, i.PatientID)
		}
		counts[i.PatientID]++
	}

	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})
	if limit >= 0 && len(order) > limit {
		order = order[:limit]
	}

	names := make(map[string]string, len(patients))
	for _, p := range patients {
		names[p.ID] = p.Name
	}
	return lo.Map(order, func(id string, _ int) string {
		if name, ok := names[id]; ok {
			return name
		}
		return UnknownPatient
	})
}

// AppointmentsForDate returns the incidents whose appointment falls on
// the given calendar day in local time; the time portion is ignored.
func AppointmentsForDate(incidents []model.Incident, day time.Time) []model.Incident {
	y, m, d := day.Date()
	return lo.Filter(incidents, func(i model.Incident, _ int) bool {
		iy, im, id := i.AppointmentDate.In(day.Location()).Date()
		return iy == y && im == m && id == d
	})
}

// TreatmentStats summarizes one patient's incidents: everything that
// is not Completed counts as pending.
type TreatmentStats struct {
	Completed int
	Pending   int
	TotalCost float64
}

func TreatmentCounts(patientID string, incidents []model.Incident) TreatmentStats {
	var stats TreatmentStats
	for _, i := range incidents {
		if i.PatientID != patientID {
			continue
		}
		if i.Status == model.StatusCompleted {
			stats.Completed++
		} else {
			stats.Pending++
		}
		stats.TotalCost += i.Cost
	}
	return stats
}
