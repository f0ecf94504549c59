package gw2

import (
	"context"
	"fmt"
	"time"
)

// LogEvent is a raw guild log event as returned by the game API.
// Which fields are populated depends on Type.
type LogEvent struct {
	ID   int64     `json:"id"`
	Time time.Time `json:"time"`
	Type string    `json:"type"`
	User string    `json:"user,omitempty"`

	// invited
	InvitedBy string `json:"invited_by,omitempty"`

	// kick
	KickedBy string `json:"kicked_by,omitempty"`

	// rank_change
	ChangedBy string `json:"changed_by,omitempty"`
	OldRank   string `json:"old_rank,omitempty"`
	NewRank   string `json:"new_rank,omitempty"`

	// treasury / stash
	ItemID    int64  `json:"item_id,omitempty"`
	Count     int64  `json:"count,omitempty"`
	Operation string `json:"operation,omitempty"`
	Coins     int64  `json:"coins,omitempty"`

	// filled in locally after an item lookup, not part of the API payload
	ItemName string `json:"item_name,omitempty"`
}

// GuildMember is a roster entry.
type GuildMember struct {
	Name   string     `json:"name"`
	Rank   string     `json:"rank"`
	Joined *time.Time `json:"joined"`
}

// GuildDetails is the guild info payload.
type GuildDetails struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

// StashTab is one guild vault tab. Coins are only tracked on the first tab
// by the game but every tab reports the field.
type StashTab struct {
	UpgradeID int64 `json:"upgrade_id"`
	Size      int64 `json:"size"`
	Coins     int64 `json:"coins"`
}

// GuildLogSince returns guild log entries newer than sinceID, newest first.
func (c *Client) GuildLogSince(ctx context.Context, apiKey, guildID string, sinceID int64) ([]LogEvent, error) {
	var log []LogEvent
	path := fmt.Sprintf("/v2/guild/%s/log?since=%d", guildID, sinceID)
	if err := c.get(ctx, path, apiKey, &log); err != nil {
		return nil, err
	}
	return log, nil
}

// GuildMembers returns the guild roster.
func (c *Client) GuildMembers(ctx context.Context, apiKey, guildID string) ([]GuildMember, error) {
	var members []GuildMember
	path := fmt.Sprintf("/v2/guild/%s/members", guildID)
	if err := c.get(ctx, path, apiKey, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// GuildDetails returns display info for a guild.
func (c *Client) GuildDetails(ctx context.Context, apiKey, guildID string) (*GuildDetails, error) {
	var details GuildDetails
	path := fmt.Sprintf("/v2/guild/%s", guildID)
	if err := c.get(ctx, path, apiKey, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// GuildStash returns the guild vault tabs including coin totals.
func (c *Client) GuildStash(ctx context.Context, apiKey, guildID string) ([]StashTab, error) {
	var tabs []StashTab
	path := fmt.Sprintf("/v2/guild/%s/stash", guildID)
	if err := c.get(ctx, path, apiKey, &tabs); err != nil {
		return nil, err
	}
	return tabs, nil
}
