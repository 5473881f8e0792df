// Package domain holds customer accounts and their balances.
package domain

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must not be negative")
)

// Account is a customer balance. Debit is the only mutator and never lets
// the balance go below zero.
type Account struct {
	ID    string
	Owner string

	mu      sync.Mutex
	balance decimal.Decimal
}

func NewAccount(id, owner string, balance decimal.Decimal) (*Account, error) {
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance %s", ErrInvalidAmount, balance)
	}
	return &Account{ID: id, Owner: owner, balance: balance}, nil
}

func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

func (a *Account) CanAfford(amount decimal.Decimal) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance.GreaterThanOrEqual(amount)
}

// Debit subtracts amount and returns the new balance.
func (a *Account) Debit(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.balance.LessThan(amount) {
		return a.balance, fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, a.Owner, a.balance.StringFixed(2), amount.StringFixed(2))
	}
	a.balance = a.balance.Sub(amount)
	return a.balance, nil
}
