package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// User is the Discord identity metadata stored against a member.
type User struct {
	ID            string
	Username      string
	Discriminator string
	Avatar        string
}

// Client fetches Discord user metadata. It uses a REST-only session; the
// gateway is never opened.
type Client struct {
	session *discordgo.Session
}

// NewClient creates a Discord client from a bot token
func NewClient(botToken string) (*Client, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return &Client{session: session}, nil
}

// GetUser fetches a Discord user by snowflake id.
func (c *Client) GetUser(id string) (*User, error) {
	user, err := c.session.User(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch discord user %s: %w", id, err)
	}
	return &User{
		ID:            user.ID,
		Username:      user.Username,
		Discriminator: user.Discriminator,
		Avatar:        user.Avatar,
	}, nil
}
