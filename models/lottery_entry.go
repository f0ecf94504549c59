package models

import "time"

// LotteryEntry is a qualifying stash deposit recorded for the weekly
// lottery. Entries are immutable once written.
type LotteryEntry struct {
	ID      int64     `db:"id" json:"lottery_id"`
	APIID   int64     `db:"api_id" json:"log_id"`
	GuildID string    `db:"guild_id" json:"guild"`
	Time    time.Time `db:"time" json:"time"`
	Account string    `db:"account" json:"user"`
	Coins   int64     `db:"coins" json:"coins"`
}

// LotteryPot is the aggregate for the current lottery window.
type LotteryPot struct {
	Pot     int64 `json:"pot"`
	Entries int64 `json:"-"`
	First   int64 `json:"first"`
	Second  int64 `json:"second"`
	Third   int64 `json:"third"`
	Guild   int64 `json:"guild"`
}

// AccountCoins is a per-account coin sum within a lottery window.
type AccountCoins struct {
	Account string `db:"account"`
	Coins   int64  `db:"coins"`
}
