package models

import (
	"encoding/json"
	"time"
)

// Event types recorded in the guild log
const (
	EventJoined     = "joined"
	EventInvited    = "invited"
	EventKick       = "kick"
	EventRankChange = "rank_change"
	EventTreasury   = "treasury"
	EventStash      = "stash"
	EventUpgrade    = "upgrade"
)

// ValidLogTypes lists the event types an API caller may filter on.
var ValidLogTypes = []string{EventStash, EventRankChange, EventKick, EventJoined, EventInvited, EventTreasury}

// LogFilter narrows and paginates log listings.
type LogFilter struct {
	GuildID string
	Type    string
	Page    int
	Limit   int
}

// LogEntry is a normalized guild log row. Rows are append-only; the raw
// payload is kept for later reprocessing.
type LogEntry struct {
	ID      int64           `db:"id" json:"id"`
	APIID   int64           `db:"api_id" json:"api_id"`
	GuildID string          `db:"guild_id" json:"guild_id"`
	Date    time.Time       `db:"date" json:"date"`
	Account string          `db:"account" json:"user"`
	Type    string          `db:"type" json:"type"`
	Message string          `db:"message" json:"message"`
	Raw     json.RawMessage `db:"raw" json:"raw,omitempty"`
}
