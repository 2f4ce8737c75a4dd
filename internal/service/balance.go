package service

import (
	"github.com/shopspring/decimal"
)

type balanceRepository interface {
	Balance(userID int64) (decimal.Decimal, error)
}

type rewardRepository interface {
	RewardContact(userID int64, method, contact string, bonus decimal.Decimal) (decimal.Decimal, error)
}

type BalanceService struct {
	balanceRepo balanceRepository
	rewardRepo  rewardRepository
	users       orderUserRepository
	notifier    Notifier
	bonus       decimal.Decimal
}

func NewBalanceService(balanceRepo balanceRepository, rewardRepo rewardRepository, users orderUserRepository, notifier Notifier, bonus int64) *BalanceService {
	return &BalanceService{
		balanceRepo: balanceRepo,
		rewardRepo:  rewardRepo,
		users:       users,
		notifier:    notifier,
		bonus:       decimal.NewFromInt(bonus),
	}
}

func (b *BalanceService) Balance(userID int64) (decimal.Decimal, error) {
	return b.balanceRepo.Balance(userID)
}

// Reward credits the one-time contact bonus and reports the submitted
// contact. The credit and the dedup record are one transaction in the
// repository; the notification is fire-and-forget.
func (b *BalanceService) Reward(userID int64, method, contact string) (decimal.Decimal, error) {
	balance, err := b.rewardRepo.RewardContact(userID, method, contact, b.bonus)
	if err != nil {
		return decimal.Decimal{}, err
	}

	login := ""
	if user, lookupErr := b.users.UserByID(userID); lookupErr == nil {
		login = user.Login
	}
	b.notifier.ContactRewarded(login, method, contact)

	return balance, nil
}
