package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

type TransactionType string

const (
	TransactionBuy      TransactionType = "Buy"
	TransactionSell     TransactionType = "Sell"
	TransactionDeposit  TransactionType = "Deposit"
	TransactionWithdraw TransactionType = "Withdraw"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionBuy, TransactionSell, TransactionDeposit, TransactionWithdraw:
		return true
	}
	return false
}

// Increases reports whether the transaction adds to the held quantity.
func (t TransactionType) Increases() bool {
	return t == TransactionBuy || t == TransactionDeposit
}

// Decreases reports whether the transaction removes from the held quantity.
func (t TransactionType) Decreases() bool {
	return t == TransactionSell || t == TransactionWithdraw
}

type Transaction struct {
	ID       string
	Date     time.Time
	Type     TransactionType
	Category AssetCategory // empty when the ledger row carries none
	Asset    string
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Currency Currency
	Status   string
	Note     string
	// Malformed is set when quantity or price could not be parsed from the ledger.
	// Such rows carry zero quantity and price and are skipped by every computation.
	Malformed bool
}

func (t Transaction) Total() decimal.Decimal {
	return t.Quantity.Mul(t.Price)
}

type LiabilityType string

const (
	LiabilityLoan       LiabilityType = "Loan"
	LiabilityCreditCard LiabilityType = "Credit Card"
	LiabilityMortgage   LiabilityType = "Mortgage"
	LiabilityOther      LiabilityType = "Other"
)

func (t LiabilityType) Valid() bool {
	switch t {
	case LiabilityLoan, LiabilityCreditCard, LiabilityMortgage, LiabilityOther:
		return true
	}
	return false
}

type LiabilityStatus string

const (
	LiabilityActive  LiabilityStatus = "Active"
	LiabilityPaidOff LiabilityStatus = "Paid Off"
	LiabilityPending LiabilityStatus = "Pending"
)

func (s LiabilityStatus) Valid() bool {
	switch s {
	case LiabilityActive, LiabilityPaidOff, LiabilityPending:
		return true
	}
	return false
}

type Liability struct {
	ID           string
	Date         time.Time
	Type         LiabilityType
	Category     string
	Name         string
	Amount       decimal.Decimal
	InterestRate decimal.Decimal
	Status       LiabilityStatus
	Note         string
}

// ToDate truncates t to its UTC calendar day.
func ToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate accepts YYYY-MM-DD as well as full RFC3339 timestamps.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return ToDate(t), nil
}
