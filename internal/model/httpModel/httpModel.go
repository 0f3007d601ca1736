package httpModel

import "github.com/shopspring/decimal"

type Transaction struct {
	ID       string          `json:"id"`
	Date     string          `json:"date" binding:"required"`
	Type     string          `json:"type" binding:"required"`
	Category string          `json:"category,omitempty"`
	Asset    string          `json:"asset" binding:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency,omitempty"`
	Status   string          `json:"status,omitempty"`
	Note     string          `json:"note,omitempty"`
}

type Liability struct {
	ID           string          `json:"id"`
	Date         string          `json:"date,omitempty"`
	Type         string          `json:"type" binding:"required"`
	Category     string          `json:"category,omitempty"`
	Name         string          `json:"name" binding:"required"`
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interestRate"`
	Status       string          `json:"status,omitempty"`
	Note         string          `json:"note,omitempty"`
}

type ImportRequest struct {
	Transactions []Transaction `json:"transactions" binding:"required,dive"`
}

type ForexRate struct {
	Base  string          `json:"base"`
	Quote string          `json:"quote"`
	Rate  decimal.Decimal `json:"rate"`
}

type Error struct {
	Error string `json:"error"`
}
