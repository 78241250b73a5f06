package authorize

// Role is an identity's role as stored on the user record.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RolePatient Role = "Patient"
)

// View is a named navigation target. The rendering/routing collaborator
// owns what a view looks like; this package only decides who may open it.
type View string

const (
	ViewLogin       View = "login"
	ViewDashboard   View = "dashboard"
	ViewPatients    View = "patients"
	ViewIncidents   View = "incidents"
	ViewCalendar    View = "calendar"
	ViewProfile     View = "profile"
	ViewPatientView View = "patient-view"
)

// Views lists every known view name.
func Views() []View {
	return []View{
		ViewLogin,
		ViewDashboard,
		ViewPatients,
		ViewIncidents,
		ViewCalendar,
		ViewProfile,
		ViewPatientView,
	}
}

// viewPolicy is one (role, view) allow rule.
type viewPolicy struct {
	Role Role
	View View
}

// defaultPolicies is the fixed route table: dashboard and profile for
// any authenticated role, roster/incident/calendar management for
// Admin, the patient portal for Patient.
func defaultPolicies() []viewPolicy {
	return []viewPolicy{
		{RoleAdmin, ViewDashboard},
		{RoleAdmin, ViewProfile},
		{RoleAdmin, ViewPatients},
		{RoleAdmin, ViewIncidents},
		{RoleAdmin, ViewCalendar},

		{RolePatient, ViewDashboard},
		{RolePatient, ViewProfile},
		{RolePatient, ViewPatientView},
	}
}
