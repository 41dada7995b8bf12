package db

import (
	"context"
	"testing"
)

func TestGetEngagement(t *testing.T) {
	d := testDB(t)
	seedFixture(t, d)

	points, err := d.GetEngagement(
		context.Background(), "2024-06-01", "2024-06-03")
	if err != nil {
		t.Fatalf("GetEngagement: %v", err)
	}
	want := []EngagementPoint{
		{Date: "2024-06-01", QuestionsAsked: 2, DocumentsDrafted: 1},
		{Date: "2024-06-02", QuestionsAsked: 1, InfoRetrieved: 1, SharedInteractions: 1},
		{Date: "2024-06-03", QuestionsAsked: 2, SharedInteractions: 1},
	}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i, p := range points {
		if p != want[i] {
			t.Errorf("point %d: got %+v, want %+v", i, p, want[i])
		}
	}
}

func TestGetFeatureDistribution(t *testing.T) {
	d := testDB(t)
	seedFixture(t, d)

	items, err := d.GetFeatureDistribution(
		context.Background(), "2024-06-01", "2024-06-03")
	if err != nil {
		t.Fatalf("GetFeatureDistribution: %v", err)
	}
	want := []FeatureUsageItem{
		{Name: "Questions Asked", Value: 5},
		{Name: "Information Retrieved", Value: 1},
		{Name: "Documents Drafted", Value: 1},
		{Name: "Shared Twin Usage", Value: 2},
	}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i, it := range items {
		if it != want[i] {
			t.Errorf("item %d: got %+v, want %+v", i, it, want[i])
		}
	}
}

func TestGetFeatureDistributionOmitsZero(t *testing.T) {
	d := testDB(t)
	seedFixture(t, d)

	// 06-01 has sessions and a document but no queries or shared
	// sessions.
	items, err := d.GetFeatureDistribution(
		context.Background(), "2024-06-01", "2024-06-01")
	if err != nil {
		t.Fatalf("GetFeatureDistribution: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(items), items)
	}
	if items[0].Name != "Questions Asked" || items[1].Name != "Documents Drafted" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestGetLeaderboard(t *testing.T) {
	d := testDB(t)
	seedFixture(t, d)

	entries, err := d.GetLeaderboard(
		context.Background(), "2024-06-01", "2024-06-03", 0)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	// dave@solo.dev has no company and must not form a group.
	want := []LeaderboardEntry{
		{Rank: 1, Company: "Acme Corp", ActiveUsers: 2,
			TotalActivities: 3, AvgActivitiesPerUser: 2},
		{Rank: 2, Company: "Globex", ActiveUsers: 1,
			TotalActivities: 1, AvgActivitiesPerUser: 1},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(entries), len(want), entries)
	}
	for i, e := range entries {
		if e != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, e, want[i])
		}
	}
}

func TestGetLeaderboardLimit(t *testing.T) {
	d := testDB(t)
	seedFixture(t, d)

	entries, err := d.GetLeaderboard(
		context.Background(), "2024-06-01", "2024-06-03", 1)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if len(entries) != 1 || entries[0].Company != "Acme Corp" {
		t.Errorf("got %+v, want only Acme Corp", entries)
	}
}

func TestGetLeaderboardTieBreak(t *testing.T) {
	d := testDB(t)
	addUser(t, d, "u1", "zed@zenith.io", "Zenith")
	addUser(t, d, "u2", "ann@apex.io", "Apex")
	addTwin(t, d, "t1", "u1", "2024-06-01T00:00:00Z", false)

	addSession(t, d, "s1", "u1", "t1", false, "2024-06-01T10:00:00Z", "")
	addSession(t, d, "s2", "u2", "t1", true, "2024-06-01T11:00:00Z", "")

	entries, err := d.GetLeaderboard(
		context.Background(), "2024-06-01", "2024-06-01", 5)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// Equal totals rank alphabetically.
	if entries[0].Company != "Apex" || entries[1].Company != "Zenith" {
		t.Errorf("tie break order wrong: %+v", entries)
	}
}
