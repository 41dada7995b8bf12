package db

import (
	"context"
	"testing"
)

func TestCalcChange(t *testing.T) {
	cases := []struct {
		current, previous int
		want              float64
	}{
		{0, 0, 0.0},
		{5, 0, 100.0},
		{75, 50, 50.0},
		{50, 75, -33.3},
		{100, 100, 0.0},
		{1, 3, -66.7},
	}
	for _, c := range cases {
		if got := calcChange(c.current, c.previous); got != c.want {
			t.Errorf("calcChange(%d, %d) = %v, want %v",
				c.current, c.previous, got, c.want)
		}
	}
}

func TestGetMetricsOverview(t *testing.T) {
	d := testDB(t)
	seedFixture(t, d)

	m, err := d.GetMetricsOverview(
		context.Background(), "2024-06-01", "2024-06-03")
	if err != nil {
		t.Fatalf("GetMetricsOverview: %v", err)
	}

	if m.TotalActiveUsers != 4 {
		t.Errorf("TotalActiveUsers = %d, want 4", m.TotalActiveUsers)
	}
	if m.TotalConversations != 5 {
		t.Errorf("TotalConversations = %d, want 5", m.TotalConversations)
	}
	if m.DocumentsDrafted != 1 {
		t.Errorf("DocumentsDrafted = %d, want 1", m.DocumentsDrafted)
	}
	// Installations are cumulative through the period end; t1
	// predates the range, t2 was created inside it.
	if m.TwinInstallations != 2 {
		t.Errorf("TwinInstallations = %d, want 2", m.TwinInstallations)
	}

	// The preceding period (2024-05-30 .. 2024-05-31) had no
	// activity, so every flow change is the 100% zero-baseline value.
	if m.ActiveUsersChange != 100.0 {
		t.Errorf("ActiveUsersChange = %v, want 100.0", m.ActiveUsersChange)
	}
	if m.ConversationsChange != 100.0 {
		t.Errorf("ConversationsChange = %v, want 100.0", m.ConversationsChange)
	}
	if m.DocumentsChange != 100.0 {
		t.Errorf("DocumentsChange = %v, want 100.0", m.DocumentsChange)
	}
	// One twin existed before the range, two by its end.
	if m.InstallationsChange != 100.0 {
		t.Errorf("InstallationsChange = %v, want 100.0", m.InstallationsChange)
	}
}

func TestGetMetricsOverviewEmpty(t *testing.T) {
	d := testDB(t)

	m, err := d.GetMetricsOverview(
		context.Background(), "2024-06-01", "2024-06-03")
	if err != nil {
		t.Fatalf("GetMetricsOverview: %v", err)
	}
	if m != (MetricsOverview{}) {
		t.Errorf("got %+v, want all zeros", m)
	}
}

func TestGetMetricsOverviewPreviousPeriod(t *testing.T) {
	d := testDB(t)
	addUser(t, d, "u1", "alice@acme.com", "Acme Corp")
	addTwin(t, d, "t1", "u1", "2024-05-01T00:00:00Z", false)

	// Two sessions in the previous period, one in the current.
	addSession(t, d, "p1", "u1", "t1", false, "2024-05-30T10:00:00Z", "")
	addSession(t, d, "p2", "u1", "t1", false, "2024-05-31T10:00:00Z", "")
	addSession(t, d, "c1", "u1", "t1", false, "2024-06-02T10:00:00Z", "")

	m, err := d.GetMetricsOverview(
		context.Background(), "2024-06-01", "2024-06-03")
	if err != nil {
		t.Fatalf("GetMetricsOverview: %v", err)
	}
	if m.TotalConversations != 1 {
		t.Errorf("TotalConversations = %d, want 1", m.TotalConversations)
	}
	if m.ConversationsChange != -50.0 {
		t.Errorf("ConversationsChange = %v, want -50.0", m.ConversationsChange)
	}
	// Same single user active in both periods.
	if m.ActiveUsersChange != 0.0 {
		t.Errorf("ActiveUsersChange = %v, want 0.0", m.ActiveUsersChange)
	}
	// Twin count unchanged across periods.
	if m.InstallationsChange != 0.0 {
		t.Errorf("InstallationsChange = %v, want 0.0", m.InstallationsChange)
	}
}

func TestGetMetricsOverviewInvalidRange(t *testing.T) {
	d := testDB(t)
	if _, err := d.GetMetricsOverview(
		context.Background(), "2024-06-03", "2024-06-01"); err == nil {
		t.Error("expected error for inverted range")
	}
}
