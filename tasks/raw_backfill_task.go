package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/OpNop/TINY-API/service"
)

// RawBackfillTask repairs old treasury rows whose raw payload predates item
// name resolution: a bounded batch per run looks the names up and rewrites
// the payload.
type RawBackfillTask struct {
	logs  service.LogRepository
	gw2   service.GW2Client
	limit int
}

// NewRawBackfillTask creates the raw payload backfill task
func NewRawBackfillTask(logs service.LogRepository, gw2Client service.GW2Client, limit int) *RawBackfillTask {
	return &RawBackfillTask{
		logs:  logs,
		gw2:   gw2Client,
		limit: limit,
	}
}

func (t *RawBackfillTask) Name() string { return "raw_backfill" }

func (t *RawBackfillTask) Run(ctx context.Context) error {
	entries, err := t.logs.ListTreasuryMissingItemName(ctx, t.limit)
	if err != nil {
		return fmt.Errorf("pending backfill lookup: %w", err)
	}

	for _, entry := range entries {
		log := logrus.WithFields(logrus.Fields{
			"guild":  entry.GuildID,
			"api_id": entry.APIID,
		})

		var payload map[string]interface{}
		if err := json.Unmarshal(entry.Raw, &payload); err != nil {
			log.WithError(err).Warn("Unreadable raw payload, skipping")
			continue
		}

		itemID, ok := payload["item_id"].(float64)
		if !ok || itemID == 0 {
			log.Warn("Raw payload has no item id, skipping")
			continue
		}

		item, err := t.gw2.Item(ctx, int64(itemID))
		if err != nil {
			log.WithError(err).Warn("Item lookup failed, skipping")
			continue
		}
		payload["item_name"] = item.Name

		raw, err := json.Marshal(payload)
		if err != nil {
			log.WithError(err).Warn("Failed to re-encode raw payload, skipping")
			continue
		}

		if err := t.logs.UpdateRaw(ctx, entry.GuildID, entry.APIID, raw); err != nil {
			log.WithError(err).Warn("Raw payload update failed, skipping")
			continue
		}
	}

	return nil
}
