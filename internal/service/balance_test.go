package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogaydukov/boostup/internal/domain"
)

type fakeRewardRepo struct {
	store   *fakeStore
	granted map[int64]map[string]bool
}

func newFakeRewardRepo(store *fakeStore) *fakeRewardRepo {
	return &fakeRewardRepo{
		store:   store,
		granted: map[int64]map[string]bool{},
	}
}

func (f *fakeRewardRepo) RewardContact(userID int64, method, contact string, bonus decimal.Decimal) (decimal.Decimal, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	if f.granted[userID][method] {
		return decimal.Decimal{}, domain.ErrRewardExists
	}
	if f.granted[userID] == nil {
		f.granted[userID] = map[string]bool{}
	}
	f.granted[userID][method] = true

	balance := f.store.balances[userID].Add(bonus)
	f.store.balances[userID] = balance

	return balance, nil
}

func TestRewardCreditsOncePerMethod(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, "vasya", 0)
	rewards := newFakeRewardRepo(store)
	notifier := &fakeNotifier{}
	srv := NewBalanceService(store, rewards, store, notifier, 10)

	balance, err := srv.Reward(1, "telegram", "@vasya")

	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, []string{"vasya:telegram"}, notifier.rewards)

	_, err = srv.Reward(1, "telegram", "@vasya")

	assert.ErrorIs(t, err, domain.ErrRewardExists)
	assert.True(t, store.balance(1).Equal(decimal.NewFromInt(10)))

	// a different method is still rewardable
	balance, err = srv.Reward(1, "whatsapp", "+700000000")

	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(20)))
}
