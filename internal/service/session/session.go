// Package session holds the authenticated identity for this context,
// persists it under the "user" store key so a restart resumes the
// session, and follows that key so concurrent contexts converge on the
// same identity.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/entnt/dentdesk/internal/model"
	"github.com/entnt/dentdesk/internal/repo"
	"github.com/entnt/dentdesk/internal/store"
	"github.com/entnt/dentdesk/pkg/authorize"
)

// Key is the singleton store key holding the current identity.
const Key = "user"

type Manager struct {
	store    store.Store
	users    *repo.Users
	patients *repo.Patients

	mu      sync.RWMutex
	current *model.User

	unsubscribe func()
}

func NewManager(st store.Store, users *repo.Users, patients *repo.Patients) *Manager {
	return &Manager{store: st, users: users, patients: patients}
}

// Init restores a previously persisted session and subscribes to
// external changes of the session key. Call once at startup.
func (m *Manager) Init(ctx context.Context) error {
	var u model.User
	err := m.store.Get(ctx, Key, &u)
	switch {
	case err == nil:
		m.setCurrent(&u)
	case errors.Is(err, store.ErrNotFound):
		// cold start
	default:
		return fmt.Errorf("restore session: %w", err)
	}

	m.unsubscribe = m.store.Subscribe(Key, m.onSessionChange)
	return nil
}

// Close drops the store subscription. There is no other cleanup.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Current returns the authenticated identity, if any.
func (m *Manager) Current() (model.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return model.User{}, false
	}
	return *m.current, true
}

// Identity adapts the current session for access checks. Nil when no
// one is logged in.
func (m *Manager) Identity() *authorize.Identity {
	u, ok := m.Current()
	if !ok {
		return nil
	}
	return &authorize.Identity{Role: authorize.Role(u.Role)}
}

// Login matches email and password exactly (case-sensitive) against
// the users collection. Any failure yields ErrInvalidCredentials.
func (m *Manager) Login(ctx context.Context, email, password string) (model.User, error) {
	users, err := m.users.List(ctx)
	if err != nil {
		return model.User{}, err
	}

	for _, u := range users {
		if u.Email == email && u.Password == password {
			if err := m.store.Put(ctx, Key, u); err != nil {
				return model.User{}, fmt.Errorf("persist session: %w", err)
			}
			m.setCurrent(&u)
			slog.Info("logged in", "user", u.ID, "role", u.Role)
			return u, nil
		}
	}
	return model.User{}, ErrInvalidCredentials
}

// Logout clears the identity in this and, via the store notification,
// every other context.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Delete(ctx, Key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	m.setCurrent(nil)
	slog.Info("logged out")
	return nil
}

// ProfileUpdate carries the fields a Patient-role identity may edit on
// its own patient record. Nil fields are left unchanged; id and role
// linkage are immutable.
type ProfileUpdate struct {
	Name       *string
	DOB        *string
	Contact    *string
	HealthInfo *string
}

// UpdateOwnProfile edits the patient record linked to the current
// identity. Admin edits of arbitrary patients go through the patients
// repository instead.
func (m *Manager) UpdateOwnProfile(ctx context.Context, upd ProfileUpdate) (model.Patient, error) {
	current, ok := m.Current()
	if !ok {
		return model.Patient{}, ErrNotAuthenticated
	}
	if current.Role != model.RolePatient || current.PatientID == "" {
		return model.Patient{}, ErrNotPatient
	}

	return m.patients.Update(ctx, current.PatientID, func(p *model.Patient) {
		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.DOB != nil {
			p.DOB = *upd.DOB
		}
		if upd.Contact != nil {
			p.Contact = *upd.Contact
		}
		if upd.HealthInfo != nil {
			p.HealthInfo = *upd.HealthInfo
		}
	})
}

// onSessionChange resynchronizes the in-memory identity when another
// context logs in or out.
func (m *Manager) onSessionChange(e store.Event) {
	if e.NewValue == nil {
		m.setCurrent(nil)
		return
	}
	var u model.User
	if err := json.Unmarshal(e.NewValue, &u); err != nil {
		m.setCurrent(nil)
		return
	}
	m.setCurrent(&u)
}

func (m *Manager) setCurrent(u *model.User) {
	m.mu.Lock()
	m.current = u
	m.mu.Unlock()
}
