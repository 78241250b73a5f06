package repo

import (
	"github.com/entnt/dentdesk/internal/model"
	"github.com/entnt/dentdesk/internal/store"
)

// Store keys, one per logical collection.
const (
	KeyUsers     = "users"
	KeyPatients  = "patients"
	KeyIncidents = "incidents"
)

type (
	Users     = Collection[model.User]
	Patients  = Collection[model.Patient]
	Incidents = Collection[model.Incident]
)

func NewUsers(st store.Store) *Users {
	return &Users{
		store: st,
		key:   KeyUsers,
		id:    func(u *model.User) string { return u.ID },
		setID: func(u *model.User, id string) { u.ID = id },
	}
}

func NewPatients(st store.Store) *Patients {
	return &Patients{
		store:     st,
		key:       KeyPatients,
		id:        func(p *model.Patient) string { return p.ID },
		setID:     func(p *model.Patient, id string) { p.ID = id },
		normalize: func(p *model.Patient) { p.Normalize() },
	}
}

func NewIncidents(st store.Store) *Incidents {
	return &Incidents{
		store:     st,
		key:       KeyIncidents,
		id:        func(i *model.Incident) string { return i.ID },
		setID:     func(i *model.Incident, id string) { i.ID = id },
		normalize: func(i *model.Incident) { i.Normalize() },
	}
}
