package domain

import "testing"

func TestDistanceMatrixSentinelFilled(t *testing.T) {
	m := NewDistanceMatrix([]string{"team:1", "job:1", "job:2"})

	for i := range m.IDs {
		for j := range m.IDs {
			want := UnreachableMinutes
			if i == j {
				want = 0
			}
			if m.Minutes[i][j] != want {
				t.Fatalf("cell [%d][%d] = %d, want %d", i, j, m.Minutes[i][j], want)
			}
		}
	}

	if err := m.Set("job:1", "job:2", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Between("job:1", "job:2"); got != 7 {
		t.Fatalf("Between = %d, want 7", got)
	}
	// asymmetric: reverse leg untouched
	if got := m.Between("job:2", "job:1"); got != UnreachableMinutes {
		t.Fatalf("reverse Between = %d, want sentinel", got)
	}
	if got := m.Between("job:1", "job:missing"); got != UnreachableMinutes {
		t.Fatalf("unknown id Between = %d, want sentinel", got)
	}
	if err := m.Set("job:missing", "job:1", 1); err == nil {
		t.Fatal("expected error for unknown origin")
	}
}

func TestLocationNamespaces(t *testing.T) {
	if TeamHomeID("1") == JobSiteID("1") {
		t.Fatal("team and job ids must not collide")
	}
	id, ok := JobIDFromSite(JobSiteID("42"))
	if !ok || id != "42" {
		t.Fatalf("JobIDFromSite = %q,%v", id, ok)
	}
	if _, ok := JobIDFromSite(TeamHomeID("42")); ok {
		t.Fatal("team home must not parse as job site")
	}
}
