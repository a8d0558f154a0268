package models

import (
	"testing"
	"time"
)

func TestContestWinnerGuard(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	live := Contest{Status: ContestStatusApproved, Deadline: now.Add(time.Hour)}
	if live.CanDeclareWinner(now) {
		t.Error("declaring before the deadline must be rejected")
	}

	ended := Contest{Status: ContestStatusApproved, Deadline: now.Add(-time.Hour)}
	if !ended.CanDeclareWinner(now) {
		t.Error("ended contest without winner must allow declaration")
	}

	declared := ended
	declared.WinnerName = "Jane"
	declared.WinnerEmail = "jane@example.com"
	if declared.CanDeclareWinner(now) {
		t.Error("second declaration must be rejected even after the deadline")
	}

	boundary := Contest{Status: ContestStatusApproved, Deadline: now}
	if !boundary.CanDeclareWinner(now) {
		t.Error("deadline equal to now counts as ended")
	}
}

func TestContestRegistrationGate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Second)

	cases := []struct {
		name     string
		status   ContestStatus
		deadline time.Time
		want     bool
	}{
		{"approved and live", ContestStatusApproved, future, true},
		{"approved but ended", ContestStatusApproved, past, false},
		{"pending", ContestStatusPending, future, false},
		{"rejected", ContestStatusRejected, future, false},
	}
	for _, tc := range cases {
		c := Contest{Status: tc.status, Deadline: tc.deadline}
		if got := c.AcceptsRegistration(now); got != tc.want {
			t.Errorf("%s: AcceptsRegistration = %v, want %v", tc.name, got, tc.want)
		}
		// Submit-task uses the same deadline gate: paid or not, ended
		// means closed.
		if got := c.AcceptsSubmission(now); got != tc.want {
			t.Errorf("%s: AcceptsSubmission = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestValidContestStatus(t *testing.T) {
	for _, s := range []ContestStatus{ContestStatusPending, ContestStatusApproved, ContestStatusRejected} {
		if !ValidContestStatus(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []ContestStatus{"", "draft", "PENDING ", "deleted"} {
		if ValidContestStatus(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":   RoleAdmin,
		"Creator": RoleCreator,
		" USER ":  RoleUser,
	}
	for in, want := range cases {
		got, err := ParseRole(in)
		if err != nil || got != want {
			t.Errorf("ParseRole(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	for _, in := range []string{"", "moderator", "super-admin"} {
		if _, err := ParseRole(in); err == nil {
			t.Errorf("ParseRole(%q) should fail", in)
		}
	}
}
