package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/OpNop/TINY-API/models"
)

const (
	// copperPerTicket is the coin cost of one lottery ticket (1 gold)
	copperPerTicket = 10000

	// maxTicketsPerAccount caps how many tickets one account can hold in a window
	maxTicketsPerAccount = 10

	// drawDurationHours is how long the draw window stays open on Wednesdays
	drawDurationHours = 3
)

// LotteryStatus reports whether a draw is in progress or when the next one
// happens.
type LotteryStatus struct {
	InProgress bool       `json:"in_progress"`
	NextDraw   *time.Time `json:"next_draw,omitempty"`
}

// LotteryService computes the weekly lottery's pot and ticket counts on
// demand from raw deposit rows.
type LotteryService struct {
	entries  LotteryRepository
	excluded map[string]bool
}

// NewLotteryService creates a new lottery service. excludedAccounts are
// house or test accounts that never contribute to the pot.
func NewLotteryService(entries LotteryRepository, excludedAccounts []string) *LotteryService {
	excluded := make(map[string]bool, len(excludedAccounts))
	for _, account := range excludedAccounts {
		excluded[account] = true
	}
	return &LotteryService{entries: entries, excluded: excluded}
}

// WindowStart returns the start of the lottery window containing now: the
// most recent Wednesday 00:00 UTC, today's midnight when now is a Wednesday.
func WindowStart(now time.Time) time.Time {
	now = now.UTC()
	daysSinceWednesday := (int(now.Weekday()) - int(time.Wednesday) + 7) % 7
	start := now.AddDate(0, 0, -daysSinceWednesday)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
}

// Status reports the draw state at the given time. The draw runs Wednesday
// 00:00-03:00 UTC; outside that window the next Wednesday 03:00 is reported.
func (s *LotteryService) Status(now time.Time) LotteryStatus {
	now = now.UTC()
	if now.Weekday() == time.Wednesday && now.Hour() < drawDurationHours {
		return LotteryStatus{InProgress: true}
	}

	daysUntilWednesday := (int(time.Wednesday) - int(now.Weekday()) + 7) % 7
	if daysUntilWednesday == 0 {
		// Wednesday after the draw closed, next draw is a week out
		daysUntilWednesday = 7
	}
	next := now.AddDate(0, 0, daysUntilWednesday)
	nextDraw := time.Date(next.Year(), next.Month(), next.Day(), drawDurationHours, 0, 0, 0, time.UTC)
	return LotteryStatus{NextDraw: &nextDraw}
}

// GetPot aggregates the current window's deposits into the prize pot and
// total entry count. The pot splits into four equal quarters.
func (s *LotteryService) GetPot(ctx context.Context, now time.Time) (*models.LotteryPot, error) {
	sums, err := s.entries.SumCoinsByAccountSince(ctx, WindowStart(now))
	if err != nil {
		return nil, fmt.Errorf("%w: pot aggregation: %v", ErrStorage, err)
	}

	pot := &models.LotteryPot{}
	for _, sum := range sums {
		if s.excluded[sum.Account] {
			continue
		}
		pot.Pot += sum.Coins
		pot.Entries += ticketsForCoins(sum.Coins)
	}

	if pot.Pot > 0 {
		quarter := int64(math.Round(float64(pot.Pot) * 0.25))
		pot.First = quarter
		pot.Second = quarter
		pot.Third = quarter
		pot.Guild = quarter
	}

	return pot, nil
}

// GetTickets returns one account's ticket count for the current window.
func (s *LotteryService) GetTickets(ctx context.Context, account string, now time.Time) (int64, error) {
	if account == "" {
		return 0, fmt.Errorf("%w: missing account", ErrBadRequest)
	}

	coins, err := s.entries.SumCoinsForAccountSince(ctx, account, WindowStart(now))
	if err != nil {
		return 0, fmt.Errorf("%w: ticket sum: %v", ErrStorage, err)
	}

	return ticketsForCoins(coins), nil
}

// ListEntries returns an account's full deposit history.
func (s *LotteryService) ListEntries(ctx context.Context, account string) ([]*models.LotteryEntry, error) {
	if account == "" {
		return nil, fmt.Errorf("%w: missing account", ErrBadRequest)
	}

	entries, err := s.entries.ListByAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("%w: entry listing: %v", ErrStorage, err)
	}
	return entries, nil
}

// ticketsForCoins converts an in-window coin sum to tickets: one per full
// gold, capped, nothing below one gold.
func ticketsForCoins(coins int64) int64 {
	if coins < copperPerTicket {
		return 0
	}
	tickets := coins / copperPerTicket
	if tickets > maxTicketsPerAccount {
		return maxTicketsPerAccount
	}
	return tickets
}
