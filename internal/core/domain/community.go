package domain

import "time"

// HazardStatus tracks the lifecycle of a reported obstacle.
type HazardStatus string

const (
	HazardActive     HazardStatus = "active"
	HazardInProgress HazardStatus = "in-progress"
	HazardResolved   HazardStatus = "resolved"
)

// Valid reports whether s is a known status.
func (s HazardStatus) Valid() bool {
	switch s {
	case HazardActive, HazardInProgress, HazardResolved:
		return true
	}
	return false
}

// HazardReport is a community-submitted accessibility obstacle.
type HazardReport struct {
	ID          string       `json:"id"`
	Location    string       `json:"location"`
	Issue       string       `json:"issue"`
	Description *string      `json:"description"`
	Status      HazardStatus `json:"status"`
	ReportedAt  time.Time    `json:"reported_at"`
	ReportedBy  string       `json:"reported_by"`
	Upvotes     int          `json:"upvotes"`
	Latitude    *float64     `json:"latitude"`
	Longitude   *float64     `json:"longitude"`
}

// ForumCategory groups forum posts.
type ForumCategory string

const (
	ForumGeneral       ForumCategory = "general"
	ForumTravelTips    ForumCategory = "travel-tips"
	ForumAccessibility ForumCategory = "accessibility"
	ForumEquipment     ForumCategory = "equipment"
)

// Valid reports whether c is a known category.
func (c ForumCategory) Valid() bool {
	switch c {
	case ForumGeneral, ForumTravelTips, ForumAccessibility, ForumEquipment:
		return true
	}
	return false
}

// ForumPost is a community discussion thread.
type ForumPost struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Content  string        `json:"content"`
	Author   string        `json:"author"`
	PostedAt time.Time     `json:"posted_at"`
	Likes    int           `json:"likes"`
	Replies  int           `json:"replies"`
	Category ForumCategory `json:"category"`
}

// ChangeAction is the kind of mutation carried by a ChangeEvent.
type ChangeAction string

const (
	ChangeCreated ChangeAction = "created"
	ChangeUpdated ChangeAction = "updated"
)

// ChangeEvent notifies listeners that a community table changed.
type ChangeEvent struct {
	Table  string       `json:"table"` // "hazard_reports" | "forum_posts"
	Action ChangeAction `json:"action"`
	ID     string       `json:"id"`
	At     time.Time    `json:"at"`
}

const (
	TableHazardReports = "hazard_reports"
	TableForumPosts    = "forum_posts"
)
