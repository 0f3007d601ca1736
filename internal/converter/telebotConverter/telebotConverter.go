package telebotConverter

import (
	"fmt"
	"strings"

	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"
)

// PerformanceUnique routes the period buttons of the performance message.
const PerformanceUnique = "perf"

var PerformancePeriods = []string{"1M", "6M", "YTD", "1Y", "5Y"}

var categoryOrder = []model.AssetCategory{
	model.CategoryStockUS,
	model.CategoryStockTW,
	model.CategoryCrypto,
	model.CategoryGold,
}

// Money formats amount with the currency's symbol, separators and fraction.
func Money(amount decimal.Decimal, currency model.Currency) string {
	code := string(currency)
	if currency == model.CurrencyNTD {
		code = money.TWD
	}
	cur := money.New(0, code).Currency()
	minor := amount.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

func signed(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

func StartResponse() string {
	var sb strings.Builder
	sb.WriteString("👋 Net worth dashboard\n\n")
	sb.WriteString("/summary [USD|NTD] - net worth overview\n")
	sb.WriteString("/categories - allocation by category\n")
	sb.WriteString("/performance [period] - returns per category\n")
	sb.WriteString("/export - workbook with assets and transactions\n")
	return sb.String()
}

func SummaryResponse(d model.Dashboard) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💼 Net worth: %s\n\n", Money(d.NetWorth, d.Currency)))
	sb.WriteString(fmt.Sprintf("📈 Assets: %s\n", Money(d.TotalAssets, d.Currency)))
	sb.WriteString(fmt.Sprintf("📉 Liabilities: %s\n", Money(d.TotalLiabilities, d.Currency)))
	sb.WriteString(fmt.Sprintf("🕐 Today: %s (%s)\n", Money(d.DailyChange, d.Currency), signed(d.DailyChangePercent)))
	sb.WriteString(fmt.Sprintf("📅 YTD: %s\n", signed(d.YTDGrowthPercent)))
	return sb.String()
}

// CategoriesResponse lists categories that hold something.
func CategoriesResponse(categories []model.AssetCategorySummary) string {
	var sb strings.Builder
	sb.WriteString("📊 Allocation\n\n")
	empty := true
	for _, c := range categories {
		if c.AssetCount == 0 {
			continue
		}
		empty = false
		sb.WriteString(fmt.Sprintf("%s: %s\n", c.Category, Money(c.TotalValue, c.Currency)))
		sb.WriteString(fmt.Sprintf("   ▸ weight %.1f%%, P/L %s, %d assets\n", c.Weight, signed(c.ChangePercent), c.AssetCount))
	}
	if empty {
		sb.WriteString("No holdings yet.\n")
	}
	return sb.String()
}

func PerformanceResponse(period string, series map[string]model.PerformanceSeries) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📈 Performance, %s\n\n", period))
	for _, category := range categoryOrder {
		s, ok := series[string(category)]
		if !ok {
			continue
		}
		if len(s.Data) == 0 {
			sb.WriteString(fmt.Sprintf("%s: no data\n", s.Name))
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", s.Name, signed(s.CurrentReturn)))
	}

	btns := make([]tele.Btn, 0, len(PerformancePeriods))
	for _, p := range PerformancePeriods {
		if p == period {
			continue
		}
		btns = append(btns, markup.Data(p, PerformanceUnique, p))
	}
	markup.Inline(markup.Row(btns...))

	return sb.String(), markup
}
