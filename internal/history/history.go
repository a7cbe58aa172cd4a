// Package history groups completion and redemption records into per-day
// sections for display, newest day first.
package history

import (
	"fmt"
	"sort"
	"time"

	"github.com/pontosapp/pontos/internal/model"
)

const dateKeyLayout = "2006-01-02"

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// Activity is one completed-task entry inside a section.
type Activity struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Points   int    `json:"points"`
	Time     string `json:"time"`
	Icon     string `json:"icon"`
}

// ActivitySection is one calendar day of task completions.
type ActivitySection struct {
	Date       string     `json:"date"`
	Label      string     `json:"date_label"`
	Activities []Activity `json:"activities"`
}

// RedeemedReward is one redemption entry inside a section.
type RedeemedReward struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Points  int    `json:"points"`
	Time    string `json:"time"`
	Status  string `json:"status"`
	Icon    string `json:"icon"`
	Granted bool   `json:"is_granted"`
}

// RewardSection is one calendar day of reward redemptions.
type RewardSection struct {
	Date    string           `json:"date"`
	Label   string           `json:"date_label"`
	Rewards []RedeemedReward `json:"rewards"`
}

// DateLabel returns "Hoje" for today's date, "Ontem" for yesterday's, and a
// formatted day-of-month otherwise ("02 de janeiro").
func DateLabel(date, today time.Time) string {
	if sameDay(date, today) {
		return "Hoje"
	}
	if sameDay(date, today.AddDate(0, 0, -1)) {
		return "Ontem"
	}
	return fmt.Sprintf("%02d de %s", date.Day(), monthNames[date.Month()-1])
}

// Clock formats a timestamp as HH:MM.
func Clock(t time.Time) string {
	return t.Format("15:04")
}

// GroupCompletions buckets completions by calendar date. Timestamps are
// stored in UTC, so each one is shifted into now's location first; the day a
// record belongs to is the viewer's calendar day, not the UTC one. Input is
// expected sorted by timestamp descending; order within a day is preserved.
// Sections come out newest day first. Given the same input and "now", the
// result is deterministic, so regrouping a flattened result reproduces it.
func GroupCompletions(completions []model.CompletionWithTask, now time.Time) []ActivitySection {
	byDate := make(map[string]*ActivitySection)
	var sections []*ActivitySection

	for _, c := range completions {
		ts := c.CompletedAt.In(now.Location())
		key := ts.Format(dateKeyLayout)
		section, ok := byDate[key]
		if !ok {
			section = &ActivitySection{
				Date:  key,
				Label: DateLabel(ts, now),
			}
			byDate[key] = section
			sections = append(sections, section)
		}
		section.Activities = append(section.Activities, Activity{
			ID:       c.ID,
			Title:    c.TaskTitle,
			Quantity: c.Quantity,
			Points:   c.PointsEarned,
			Time:     Clock(ts),
			Icon:     c.TaskIcon,
		})
	}

	sort.Slice(sections, func(i, j int) bool { return sections[i].Date > sections[j].Date })

	out := make([]ActivitySection, len(sections))
	for i, s := range sections {
		out[i] = *s
	}
	return out
}

// GroupRedemptions buckets redemptions by calendar date, mirroring
// GroupCompletions.
func GroupRedemptions(redemptions []model.RedemptionWithReward, now time.Time) []RewardSection {
	byDate := make(map[string]*RewardSection)
	var sections []*RewardSection

	for _, r := range redemptions {
		ts := r.RedeemedAt.In(now.Location())
		key := ts.Format(dateKeyLayout)
		section, ok := byDate[key]
		if !ok {
			section = &RewardSection{
				Date:  key,
				Label: DateLabel(ts, now),
			}
			byDate[key] = section
			sections = append(sections, section)
		}
		section.Rewards = append(section.Rewards, RedeemedReward{
			ID:      r.ID,
			Title:   r.RewardTitle,
			Points:  r.PointsSpent,
			Time:    Clock(ts),
			Status:  r.Status,
			Icon:    r.RewardIcon,
			Granted: r.Status == model.RedemptionGranted,
		})
	}

	sort.Slice(sections, func(i, j int) bool { return sections[i].Date > sections[j].Date })

	out := make([]RewardSection, len(sections))
	for i, s := range sections {
		out[i] = *s
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
