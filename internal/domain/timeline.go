package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// TimelineEvent is one entry in the order's fulfillment history,
// derived from the message stream rather than stored separately.
type TimelineEvent struct {
	Icon        string    `json:"icon"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
}

// Timeline derives the fulfillment history for an order: a synthetic
// payment entry at creation plus every status-change entry from the
// message stream, newest first. names resolves authors for attribution.
func Timeline(o Order, messages []Message, names map[uuid.UUID]string) []TimelineEvent {
	paid := StatusPaid.Info()
	events := []TimelineEvent{{
		Icon:        paid.Icon,
		Title:       paid.Title,
		Description: paid.Description,
		At:          o.CreatedAt,
	}}

	for _, m := range messages {
		if !m.IsStatusChange() {
			continue
		}
		author := names[m.UserID]
		if author == "" {
			author = "Anonymous"
		}
		events = append(events, TimelineEvent{
			Icon:        "pencil",
			Title:       m.Content,
			Description: "Updated by " + author,
			At:          m.CreatedAt,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At.After(events[j].At)
	})
	return events
}
