package history

import (
	"testing"
	"time"

	"github.com/pontosapp/pontos/internal/model"
)

func TestDateLabel(t *testing.T) {
	today := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{"today", time.Date(2025, time.March, 15, 8, 30, 0, 0, time.UTC), "Hoje"},
		{"yesterday", time.Date(2025, time.March, 14, 23, 59, 0, 0, time.UTC), "Ontem"},
		{"older", time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC), "02 de março"},
		{"other month", time.Date(2025, time.January, 28, 12, 0, 0, 0, time.UTC), "28 de janeiro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateLabel(tt.date, today); got != tt.want {
				t.Errorf("DateLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClock(t *testing.T) {
	ts := time.Date(2025, time.March, 15, 9, 5, 30, 0, time.UTC)
	if got := Clock(ts); got != "09:05" {
		t.Errorf("Clock() = %q, want %q", got, "09:05")
	}
}

func TestGroupCompletions(t *testing.T) {
	now := time.Date(2025, time.March, 15, 18, 0, 0, 0, time.UTC)
	today := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	completions := []model.CompletionWithTask{
		{
			TaskCompletion: model.TaskCompletion{ID: "c1", Quantity: 3, PointsEarned: 15, CompletedAt: today.Add(14 * time.Hour)},
			TaskTitle:      "Academia", TaskIcon: "barbell-outline", UnitLabel: "treino",
		},
		{
			TaskCompletion: model.TaskCompletion{ID: "c2", Quantity: 1, PointsEarned: 5, CompletedAt: today.Add(8 * time.Hour)},
			TaskTitle:      "Leitura", TaskIcon: "book-outline", UnitLabel: "capítulo",
		},
		{
			TaskCompletion: model.TaskCompletion{ID: "c3", Quantity: 2, PointsEarned: 4, CompletedAt: yesterday.Add(20 * time.Hour)},
			TaskTitle:      "Zumba", TaskIcon: "musical-notes-outline", UnitLabel: "sessão",
		},
	}

	sections := GroupCompletions(completions, now)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}

	// Newest day first
	if sections[0].Label != "Hoje" {
		t.Errorf("sections[0].Label = %q, want %q", sections[0].Label, "Hoje")
	}
	if sections[1].Label != "Ontem" {
		t.Errorf("sections[1].Label = %q, want %q", sections[1].Label, "Ontem")
	}
	if len(sections[0].Activities) != 2 {
		t.Fatalf("expected 2 activities today, got %d", len(sections[0].Activities))
	}
	if len(sections[1].Activities) != 1 {
		t.Fatalf("expected 1 activity yesterday, got %d", len(sections[1].Activities))
	}

	// Input order is preserved inside a day
	if sections[0].Activities[0].ID != "c1" || sections[0].Activities[1].ID != "c2" {
		t.Errorf("activity order = %q, %q; want c1, c2",
			sections[0].Activities[0].ID, sections[0].Activities[1].ID)
	}

	first := sections[0].Activities[0]
	if first.Title != "Academia" {
		t.Errorf("title = %q, want %q", first.Title, "Academia")
	}
	if first.Quantity != 3 {
		t.Errorf("quantity = %d, want 3", first.Quantity)
	}
	if first.Points != 15 {
		t.Errorf("points = %d, want 15", first.Points)
	}
	if first.Time != "14:00" {
		t.Errorf("time = %q, want %q", first.Time, "14:00")
	}
}

func TestGroupCompletionsViewerZone(t *testing.T) {
	// Stored timestamps are UTC; bucketing must follow the viewer's calendar.
	sp := time.FixedZone("-03", -3*60*60)
	now := time.Date(2025, time.March, 15, 23, 45, 0, 0, sp)

	// 23:30 local on the 15th is 02:30 UTC on the 16th
	completed := time.Date(2025, time.March, 16, 2, 30, 0, 0, time.UTC)

	sections := GroupCompletions([]model.CompletionWithTask{
		{TaskCompletion: model.TaskCompletion{ID: "c1", CompletedAt: completed}, TaskTitle: "Academia"},
	}, now)

	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Date != "2025-03-15" {
		t.Errorf("date key = %q, want %q", sections[0].Date, "2025-03-15")
	}
	if sections[0].Label != "Hoje" {
		t.Errorf("label = %q, want %q", sections[0].Label, "Hoje")
	}
	if got := sections[0].Activities[0].Time; got != "23:30" {
		t.Errorf("time = %q, want %q", got, "23:30")
	}
}

func TestGroupRedemptionsViewerZone(t *testing.T) {
	sp := time.FixedZone("-03", -3*60*60)
	now := time.Date(2025, time.March, 15, 23, 45, 0, 0, sp)
	redeemed := time.Date(2025, time.March, 16, 1, 0, 0, 0, time.UTC) // 22:00 local on the 15th

	sections := GroupRedemptions([]model.RedemptionWithReward{
		{RewardRedemption: model.RewardRedemption{ID: "r1", RedeemedAt: redeemed, Status: model.RedemptionPending}, RewardTitle: "Sorvete"},
	}, now)

	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Label != "Hoje" {
		t.Errorf("label = %q, want %q", sections[0].Label, "Hoje")
	}
	if got := sections[0].Rewards[0].Time; got != "22:00" {
		t.Errorf("time = %q, want %q", got, "22:00")
	}
}

func TestGroupCompletionsDeterministic(t *testing.T) {
	now := time.Date(2025, time.March, 15, 18, 0, 0, 0, time.UTC)
	completions := []model.CompletionWithTask{
		{TaskCompletion: model.TaskCompletion{ID: "a", CompletedAt: now.Add(-1 * time.Hour)}, TaskTitle: "T1"},
		{TaskCompletion: model.TaskCompletion{ID: "b", CompletedAt: now.Add(-26 * time.Hour)}, TaskTitle: "T2"},
	}

	first := GroupCompletions(completions, now)
	second := GroupCompletions(completions, now)
	if len(first) != len(second) {
		t.Fatalf("section counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Date != second[i].Date || len(first[i].Activities) != len(second[i].Activities) {
			t.Errorf("section %d differs between runs", i)
		}
	}
}

func TestGroupCompletionsEmpty(t *testing.T) {
	sections := GroupCompletions(nil, time.Now())
	if len(sections) != 0 {
		t.Errorf("expected 0 sections, got %d", len(sections))
	}
}

func TestGroupRedemptions(t *testing.T) {
	now := time.Date(2025, time.March, 15, 18, 0, 0, 0, time.UTC)
	granted := now.Add(-1 * time.Hour)

	redemptions := []model.RedemptionWithReward{
		{
			RewardRedemption: model.RewardRedemption{
				ID: "r1", PointsSpent: 40, Status: model.RedemptionGranted,
				RedeemedAt: now.Add(-2 * time.Hour), GrantedAt: &granted,
			},
			RewardTitle: "Sorvete", RewardIcon: "ice-cream-outline",
		},
		{
			RewardRedemption: model.RewardRedemption{
				ID: "r2", PointsSpent: 100, Status: model.RedemptionPending,
				RedeemedAt: now.Add(-30 * time.Hour),
			},
			RewardTitle: "Cinema", RewardIcon: "film-outline",
		},
	}

	sections := GroupRedemptions(redemptions, now)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}

	first := sections[0].Rewards[0]
	if first.Title != "Sorvete" {
		t.Errorf("title = %q, want %q", first.Title, "Sorvete")
	}
	if first.Points != 40 {
		t.Errorf("points = %d, want 40", first.Points)
	}
	if !first.Granted {
		t.Error("expected granted flag for CONCEDIDA redemption")
	}

	second := sections[1].Rewards[0]
	if second.Granted {
		t.Error("PENDENTE redemption must not be flagged granted")
	}
	if second.Status != model.RedemptionPending {
		t.Errorf("status = %q, want %q", second.Status, model.RedemptionPending)
	}
}
