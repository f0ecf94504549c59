package gw2

import (
	"context"
	"time"
)

// Account is the account behind an API token.
type Account struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	World   int64     `json:"world"`
	Created time.Time `json:"created"`
}

// Character is an in-game character owned by a token's account.
type Character struct {
	Name    string    `json:"name"`
	Race    string    `json:"race"`
	Created time.Time `json:"created"`
}

// AccountByToken resolves an API token to its account. An invalid or
// expired token yields an auth error (see IsAuthError).
func (c *Client) AccountByToken(ctx context.Context, token string) (*Account, error) {
	var account Account
	if err := c.get(ctx, "/v2/account", token, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// CharactersByToken returns all characters on a token's account.
func (c *Client) CharactersByToken(ctx context.Context, token string) ([]Character, error) {
	var characters []Character
	if err := c.get(ctx, "/v2/characters?ids=all", token, &characters); err != nil {
		return nil, err
	}
	return characters, nil
}
