package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpNop/TINY-API/models"
)

func TestWindowStart(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "mid week lands on previous wednesday",
			now:  time.Date(2024, 6, 14, 15, 30, 0, 0, time.UTC), // Friday
			want: time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "wednesday is its own window start",
			now:  time.Date(2024, 6, 12, 23, 59, 0, 0, time.UTC),
			want: time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "tuesday reaches back almost a full week",
			now:  time.Date(2024, 6, 11, 1, 0, 0, 0, time.UTC),
			want: time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WindowStart(tt.now))
		})
	}
}

func TestLotteryService_Status(t *testing.T) {
	svc := NewLotteryService(new(MockLotteryRepository), nil)

	t.Run("in progress during wednesday draw window", func(t *testing.T) {
		status := svc.Status(time.Date(2024, 6, 12, 1, 0, 0, 0, time.UTC))
		assert.True(t, status.InProgress)
		assert.Nil(t, status.NextDraw)
	})

	t.Run("thursday points at next wednesday", func(t *testing.T) {
		status := svc.Status(time.Date(2024, 6, 13, 10, 0, 0, 0, time.UTC))
		assert.False(t, status.InProgress)
		require.NotNil(t, status.NextDraw)
		assert.Equal(t, time.Date(2024, 6, 19, 3, 0, 0, 0, time.UTC), *status.NextDraw)
	})

	t.Run("wednesday after the draw waits a full week", func(t *testing.T) {
		status := svc.Status(time.Date(2024, 6, 12, 3, 0, 0, 0, time.UTC))
		assert.False(t, status.InProgress)
		require.NotNil(t, status.NextDraw)
		assert.Equal(t, time.Date(2024, 6, 19, 3, 0, 0, 0, time.UTC), *status.NextDraw)
	})
}

func TestLotteryService_GetPot(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)
	windowStart := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

	t.Run("sums deposits and skips excluded accounts", func(t *testing.T) {
		repo := new(MockLotteryRepository)
		repo.On("SumCoinsByAccountSince", ctx, windowStart).Return([]models.AccountCoins{
			{Account: "alice.1234", Coins: 25000},
			{Account: "bob.5678", Coins: 5000},
			{Account: "bank.0000", Coins: 1000000},
		}, nil)

		svc := NewLotteryService(repo, []string{"bank.0000"})
		pot, err := svc.GetPot(ctx, now)

		require.NoError(t, err)
		assert.Equal(t, int64(30000), pot.Pot)
		// alice has 2 full gold, bob is below the one gold minimum
		assert.Equal(t, int64(2), pot.Entries)
		assert.Equal(t, int64(7500), pot.First)
		assert.Equal(t, int64(7500), pot.Guild)
		repo.AssertExpectations(t)
	})

	t.Run("quarters split evenly", func(t *testing.T) {
		repo := new(MockLotteryRepository)
		repo.On("SumCoinsByAccountSince", ctx, windowStart).Return([]models.AccountCoins{
			{Account: "alice.1234", Coins: 40000},
		}, nil)

		svc := NewLotteryService(repo, nil)
		pot, err := svc.GetPot(ctx, now)

		require.NoError(t, err)
		assert.Equal(t, int64(10000), pot.First)
		assert.Equal(t, int64(10000), pot.Second)
		assert.Equal(t, int64(10000), pot.Third)
		assert.Equal(t, int64(10000), pot.Guild)
	})

	t.Run("empty window yields a zero pot", func(t *testing.T) {
		repo := new(MockLotteryRepository)
		repo.On("SumCoinsByAccountSince", ctx, windowStart).Return([]models.AccountCoins{}, nil)

		svc := NewLotteryService(repo, nil)
		pot, err := svc.GetPot(ctx, now)

		require.NoError(t, err)
		assert.Equal(t, int64(0), pot.Pot)
		assert.Equal(t, int64(0), pot.First)
	})

	t.Run("storage failure surfaces as storage error", func(t *testing.T) {
		repo := new(MockLotteryRepository)
		repo.On("SumCoinsByAccountSince", ctx, windowStart).Return(nil, errors.New("connection refused"))

		svc := NewLotteryService(repo, nil)
		_, err := svc.GetPot(ctx, now)

		assert.ErrorIs(t, err, ErrStorage)
	})
}

func TestLotteryService_GetTickets(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)
	windowStart := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		coins int64
		want  int64
	}{
		{"below one gold earns nothing", 9999, 0},
		{"exactly one gold is one ticket", 10000, 1},
		{"partial gold rounds down", 25000, 2},
		{"ticket count caps at ten", 200000, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockLotteryRepository)
			repo.On("SumCoinsForAccountSince", ctx, "alice.1234", windowStart).Return(tt.coins, nil)

			svc := NewLotteryService(repo, nil)
			tickets, err := svc.GetTickets(ctx, "alice.1234", now)

			require.NoError(t, err)
			assert.Equal(t, tt.want, tickets)
		})
	}

	t.Run("missing account is a bad request", func(t *testing.T) {
		svc := NewLotteryService(new(MockLotteryRepository), nil)
		_, err := svc.GetTickets(ctx, "", now)
		assert.ErrorIs(t, err, ErrBadRequest)
	})
}

func TestLotteryService_ListEntries(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the account history", func(t *testing.T) {
		entries := []*models.LotteryEntry{
			{ID: 2, APIID: 120, Account: "alice.1234", Coins: 20000},
			{ID: 1, APIID: 100, Account: "alice.1234", Coins: 10000},
		}
		repo := new(MockLotteryRepository)
		repo.On("ListByAccount", ctx, "alice.1234").Return(entries, nil)

		svc := NewLotteryService(repo, nil)
		got, err := svc.ListEntries(ctx, "alice.1234")

		require.NoError(t, err)
		assert.Equal(t, entries, got)
	})

	t.Run("missing account is a bad request", func(t *testing.T) {
		svc := NewLotteryService(new(MockLotteryRepository), nil)
		_, err := svc.ListEntries(ctx, "")
		assert.ErrorIs(t, err, ErrBadRequest)
	})
}
