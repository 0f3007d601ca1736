package xslsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/KotFed0t/networth_dashboard/utils"
	"github.com/xuri/excelize/v2"
)

const (
	assetsSheet       = "Assets"
	categoriesSheet   = "Categories"
	transactionsSheet = "Transactions"
)

type XSLSXGenerator struct{}

func New() *XSLSXGenerator {
	return &XSLSXGenerator{}
}

func (g *XSLSXGenerator) Generate(ctx context.Context, report model.PortfolioReport) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XSLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#cfe2f3"}},
	})
	if err != nil {
		return nil, "", err
	}

	fillers := []struct {
		name string
		fill func(f *excelize.File, sheet string, report model.PortfolioReport) (header []string, err error)
	}{
		{assetsSheet, fillAssets},
		{categoriesSheet, fillCategories},
		{transactionsSheet, fillTransactions},
	}
	for _, filler := range fillers {
		if _, err = f.NewSheet(filler.name); err != nil {
			slog.Error("got error while creating NewSheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, "", err
		}
		header, err := filler.fill(f, filler.name, report)
		if err != nil {
			return nil, "", fmt.Errorf("fill %s: %w", filler.name, err)
		}
		if err = writeHeader(f, filler.name, header, headerStyle); err != nil {
			return nil, "", fmt.Errorf("header %s: %w", filler.name, err)
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func writeHeader(f *excelize.File, sheet string, header []string, styleID int) error {
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, styleID)
}

func fillAssets(f *excelize.File, sheet string, report model.PortfolioReport) ([]string, error) {
	header := []string{"symbol", "name", "category", "currency", "quantity", "avg cost", "price", "change 24h %",
		"market value", "unrealized P/L", "total change %", "value USD", "weight %", "category weight %", "days held"}

	for i, a := range report.Assets {
		row := []interface{}{
			a.Symbol, a.Name, string(a.Category), string(a.Currency),
			a.Quantity.InexactFloat64(), a.AvgCost.InexactFloat64(), a.Price.InexactFloat64(), a.Change24h.InexactFloat64(),
			a.MarketValue.InexactFloat64(), a.UnrealizedPL.InexactFloat64(), a.TotalChangePercent,
			a.ValueUSD.InexactFloat64(), a.Weight, a.CategoryWeight, a.DaysHeld,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}
	return header, nil
}

func fillCategories(f *excelize.File, sheet string, report model.PortfolioReport) ([]string, error) {
	header := []string{"category", "currency", "total value", "change %", "weight %", "assets"}

	for i, c := range report.Categories {
		row := []interface{}{
			string(c.Category), string(c.Currency), c.TotalValue.InexactFloat64(), c.ChangePercent, c.Weight, c.AssetCount,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}
	return header, nil
}

func fillTransactions(f *excelize.File, sheet string, report model.PortfolioReport) ([]string, error) {
	header := []string{"id", "date", "type", "category", "asset", "quantity", "price", "total", "currency", "status", "note"}

	for i, t := range report.Transactions {
		row := []interface{}{
			t.ID, model.FormatDate(t.Date), string(t.Type), string(t.Category), t.Asset,
			t.Quantity.InexactFloat64(), t.Price.InexactFloat64(), t.Total().InexactFloat64(),
			string(t.Currency), t.Status, t.Note,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}
	return header, nil
}
