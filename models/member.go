package models

import "time"

// Member is a guild member account record. Members are never hard-deleted;
// banning is a flag.
type Member struct {
	Account  string    `db:"account" json:"account"`
	Discord  *string   `db:"discord" json:"discord"`
	APIKey   *string   `db:"api_key" json:"-"`
	Access   int       `db:"access" json:"access"`
	IsBanned bool      `db:"is_banned" json:"is_banned"`
	Created  time.Time `db:"created" json:"created"`
}

// GuildMembership is a row of the v_members view: one guild a member
// belongs to.
type GuildMembership struct {
	Account    string     `db:"account" json:"account"`
	GuildID    string     `db:"guild_id" json:"guild_id"`
	GuildName  string     `db:"guild_name" json:"guild_name"`
	Rank       *string    `db:"rank" json:"rank"`
	DateJoined *time.Time `db:"date_joined" json:"date_joined"`
}

// Character is an in-game character belonging to a member account.
type Character struct {
	Account string     `db:"account" json:"account"`
	Name    string     `db:"name" json:"name"`
	Race    string     `db:"race" json:"race"`
	Created *time.Time `db:"created" json:"created"`
}

// DiscordLink holds Discord identity metadata for a member.
type DiscordLink struct {
	Account       string    `db:"account" json:"account"`
	ID            string    `db:"id" json:"id"`
	Username      string    `db:"username" json:"username"`
	Discriminator string    `db:"discriminator" json:"discriminator"`
	Avatar        string    `db:"avatar" json:"avatar"`
	LastUpdate    time.Time `db:"last_update" json:"last_update"`
}

// Note is a moderator note attached to a member account.
type Note struct {
	ID          int64     `db:"id" json:"id"`
	Account     string    `db:"account" json:"account"`
	Creator     string    `db:"creator" json:"creator"`
	Message     string    `db:"message" json:"message"`
	DateCreated time.Time `db:"date_created" json:"date_created"`
}

// Ban is a ban-list row with the reason a member was banned.
type Ban struct {
	Account   string    `db:"account" json:"account"`
	DateAdded time.Time `db:"date_added" json:"date_added"`
	Reason    *string   `db:"reason" json:"reason"`
}

// MemberProfile is the aggregate returned by the member detail endpoint.
type MemberProfile struct {
	Account    string            `json:"account"`
	Discord    *string           `json:"discord"`
	Created    time.Time         `json:"created"`
	IsBanned   bool              `json:"is_banned"`
	Guilds     []GuildMembership `json:"guilds"`
	BanReason  *Ban              `json:"ban_reason,omitempty"`
	Characters []Character       `json:"characters"`
}
