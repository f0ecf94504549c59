package gw2

import (
	"context"
	"fmt"
)

// Item is the subset of item metadata the log formatter needs.
type Item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Item looks up item metadata by id. Item names are immutable so results
// are cached for the life of the client.
func (c *Client) Item(ctx context.Context, id int64) (*Item, error) {
	c.itemMu.Lock()
	if item, ok := c.itemCache[id]; ok {
		c.itemMu.Unlock()
		return item, nil
	}
	c.itemMu.Unlock()

	var item Item
	if err := c.get(ctx, fmt.Sprintf("/v2/items/%d", id), "", &item); err != nil {
		return nil, err
	}

	c.itemMu.Lock()
	c.itemCache[id] = &item
	c.itemMu.Unlock()

	return &item, nil
}
