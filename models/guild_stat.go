package models

import "time"

// GuildStat is a daily snapshot of aggregate bank gold and unique member
// count across all configured guilds. Rows are append-only.
type GuildStat struct {
	ID      int64     `db:"id" json:"id"`
	Date    time.Time `db:"date" json:"date"`
	Gold    int64     `db:"gold" json:"gold"`
	Members int       `db:"members" json:"members"`
}
