package model

import (
	"math"
	"testing"
)

func TestNormalizeContact(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty kept", raw: "", want: ""},
		{name: "national number gets region prefix", raw: "9876543210", want: "+919876543210"},
		{name: "already e164", raw: "+919876543210", want: "+919876543210"},
		{name: "spaced national number", raw: "98765 43210", want: "+919876543210"},
		{name: "foreign e164 kept", raw: "+14155552671", want: "+14155552671"},
		{name: "unparseable kept verbatim", raw: "front desk", want: "front desk"},
		{name: "too short kept verbatim", raw: "12345", want: "12345"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeContact(tc.raw); got != tc.want {
				t.Errorf("NormalizeContact(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestIncidentNormalize(t *testing.T) {
	tests := []struct {
		name       string
		in         Incident
		wantCost   float64
		wantStatus IncidentStatus
	}{
		{name: "valid record untouched", in: Incident{Cost: 80, Status: StatusCompleted}, wantCost: 80, wantStatus: StatusCompleted},
		{name: "negative cost zeroed", in: Incident{Cost: -50, Status: StatusScheduled}, wantCost: 0, wantStatus: StatusScheduled},
		{name: "nan cost zeroed", in: Incident{Cost: math.NaN(), Status: StatusScheduled}, wantCost: 0, wantStatus: StatusScheduled},
		{name: "inf cost zeroed", in: Incident{Cost: math.Inf(1), Status: StatusScheduled}, wantCost: 0, wantStatus: StatusScheduled},
		{name: "empty status defaults", in: Incident{Cost: 10}, wantCost: 10, wantStatus: StatusScheduled},
		{name: "unknown status defaults", in: Incident{Status: "Done"}, wantCost: 0, wantStatus: StatusScheduled},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.Normalize()
			if tc.in.Cost != tc.wantCost {
				t.Errorf("Cost = %v, want %v", tc.in.Cost, tc.wantCost)
			}
			if tc.in.Status != tc.wantStatus {
				t.Errorf("Status = %q, want %q", tc.in.Status, tc.wantStatus)
			}
		})
	}
}
