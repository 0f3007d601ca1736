// Package sheets stores the ledger in a Google spreadsheet, one tab per table
// with a header row naming the columns.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/networth_dashboard/config"
	"github.com/KotFed0t/networth_dashboard/data/repository"
	"github.com/KotFed0t/networth_dashboard/internal/model"
	"github.com/KotFed0t/networth_dashboard/utils"
	"google.golang.org/api/googleapi"
	gsheets "google.golang.org/api/sheets/v4"
)

type Ledger struct {
	svc               *gsheets.Service
	spreadsheetID     string
	transactionsTitle string
	liabilitiesTitle  string
}

func NewLedger(svc *gsheets.Service, cfg *config.Config) *Ledger {
	return &Ledger{
		svc:               svc,
		spreadsheetID:     cfg.GoogleSheets.SpreadsheetID,
		transactionsTitle: cfg.GoogleSheets.TransactionsSheet,
		liabilitiesTitle:  cfg.GoogleSheets.LiabilitiesSheet,
	}
}

// EnsureSchema creates missing tabs and writes header rows into empty ones.
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("EnsureSchema start", slog.String("rqID", rqID))

	spreadsheet, err := l.svc.Spreadsheets.Get(l.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return mapErr(err)
	}

	existing := make(map[string]bool, len(spreadsheet.Sheets))
	for _, s := range spreadsheet.Sheets {
		existing[s.Properties.Title] = true
	}

	tables := []struct {
		title  string
		header []string
	}{
		{l.transactionsTitle, TransactionHeader},
		{l.liabilitiesTitle, LiabilityHeader},
	}

	var requests []*gsheets.Request
	for _, t := range tables {
		if !existing[t.title] {
			requests = append(requests, &gsheets.Request{
				AddSheet: &gsheets.AddSheetRequest{Properties: &gsheets.SheetProperties{Title: t.title}},
			})
		}
	}
	if len(requests) > 0 {
		_, err = l.svc.Spreadsheets.BatchUpdate(l.spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{Requests: requests}).
			Context(ctx).Do()
		if err != nil {
			return mapErr(err)
		}
	}

	for _, t := range tables {
		header, _, err := l.read(ctx, t.title)
		if err != nil {
			return err
		}
		if len(header) > 0 {
			continue
		}
		if err = l.writeHeader(ctx, t.title, t.header); err != nil {
			return err
		}
		slog.Info("ledger header written", slog.String("sheet", t.title))
	}

	slog.Debug("EnsureSchema finished", slog.String("rqID", rqID))
	return nil
}

func (l *Ledger) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("sheets.ListTransactions start", slog.String("rqID", rqID))

	header, rows, err := l.read(ctx, l.transactionsTitle)
	if err != nil {
		slog.Error("sheets.ListTransactions failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return nil, err
	}

	index := headerIndex(header)
	txs := make([]model.Transaction, 0, len(rows))
	for i, cells := range rows {
		r := row{index: index, cells: cells}
		if r.empty() {
			continue
		}
		txs = append(txs, decodeTransaction(r, i+2))
	}

	slog.Debug("sheets.ListTransactions finished", slog.String("rqID", rqID), slog.Int("rows", len(txs)))
	return txs, nil
}

func (l *Ledger) CreateTransaction(ctx context.Context, tx model.Transaction) error {
	return l.append(ctx, l.transactionsTitle, TransactionHeader, encodeTransaction(tx))
}

func (l *Ledger) UpdateTransaction(ctx context.Context, tx model.Transaction) error {
	return l.replace(ctx, l.transactionsTitle, tx.ID, encodeTransaction(tx))
}

func (l *Ledger) DeleteTransaction(ctx context.Context, id string) error {
	return l.delete(ctx, l.transactionsTitle, id)
}

func (l *Ledger) ListLiabilities(ctx context.Context) ([]model.Liability, error) {
	header, rows, err := l.read(ctx, l.liabilitiesTitle)
	if err != nil {
		return nil, err
	}

	index := headerIndex(header)
	res := make([]model.Liability, 0, len(rows))
	for _, cells := range rows {
		r := row{index: index, cells: cells}
		if r.empty() {
			continue
		}
		res = append(res, decodeLiability(r))
	}
	return res, nil
}

func (l *Ledger) CreateLiability(ctx context.Context, liability model.Liability) error {
	return l.append(ctx, l.liabilitiesTitle, LiabilityHeader, encodeLiability(liability))
}

func (l *Ledger) UpdateLiability(ctx context.Context, liability model.Liability) error {
	return l.replace(ctx, l.liabilitiesTitle, liability.ID, encodeLiability(liability))
}

func (l *Ledger) DeleteLiability(ctx context.Context, id string) error {
	return l.delete(ctx, l.liabilitiesTitle, id)
}

// read returns the header row and the data rows of a tab.
func (l *Ledger) read(ctx context.Context, title string) (header []interface{}, rows [][]interface{}, err error) {
	resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, quote(title)).Context(ctx).Do()
	if err != nil {
		return nil, nil, mapErr(err)
	}
	if len(resp.Values) == 0 {
		return nil, nil, nil
	}
	return resp.Values[0], resp.Values[1:], nil
}

func (l *Ledger) writeHeader(ctx context.Context, title string, header []string) error {
	_, err := l.svc.Spreadsheets.Values.Update(l.spreadsheetID, quote(title)+"!A1", &gsheets.ValueRange{
		Values: [][]interface{}{toCells(header)},
	}).ValueInputOption("RAW").Context(ctx).Do()
	return mapErr(err)
}

func (l *Ledger) append(ctx context.Context, title string, defaultHeader []string, values map[string]interface{}) error {
	header, _, err := l.read(ctx, title)
	if err != nil {
		return err
	}
	if len(header) == 0 {
		if err = l.writeHeader(ctx, title, defaultHeader); err != nil {
			return err
		}
		header = toCells(defaultHeader)
	}

	_, err = l.svc.Spreadsheets.Values.Append(l.spreadsheetID, quote(title), &gsheets.ValueRange{
		Values: [][]interface{}{align(headerIndex(header), values)},
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return mapErr(err)
}

func (l *Ledger) replace(ctx context.Context, title, id string, values map[string]interface{}) error {
	header, rows, err := l.read(ctx, title)
	if err != nil {
		return err
	}
	index := headerIndex(header)
	line, err := findRow(index, rows, id)
	if err != nil {
		return err
	}

	_, err = l.svc.Spreadsheets.Values.Update(l.spreadsheetID, fmt.Sprintf("%s!A%d", quote(title), line), &gsheets.ValueRange{
		Values: [][]interface{}{align(index, values)},
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	return mapErr(err)
}

func (l *Ledger) delete(ctx context.Context, title, id string) error {
	header, rows, err := l.read(ctx, title)
	if err != nil {
		return err
	}
	line, err := findRow(headerIndex(header), rows, id)
	if err != nil {
		return err
	}

	sheetID, err := l.sheetID(ctx, title)
	if err != nil {
		return err
	}

	_, err = l.svc.Spreadsheets.BatchUpdate(l.spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			DeleteDimension: &gsheets.DeleteDimensionRequest{
				Range: &gsheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(line - 1),
					EndIndex:   int64(line),
				},
			},
		}},
	}).Context(ctx).Do()
	return mapErr(err)
}

func (l *Ledger) sheetID(ctx context.Context, title string) (int64, error) {
	spreadsheet, err := l.svc.Spreadsheets.Get(l.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, mapErr(err)
	}
	for _, s := range spreadsheet.Sheets {
		if s.Properties.Title == title {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q: %w", title, repository.ErrNotFound)
}

// findRow returns the 1-based sheet line of the row with id.
func findRow(index map[string]int, rows [][]interface{}, id string) (int, error) {
	for i, cells := range rows {
		if (row{index: index, cells: cells}).get("id") == id {
			return i + 2, nil
		}
	}
	return 0, repository.ErrNotFound
}

func quote(title string) string {
	return "'" + title + "'"
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		switch gErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", repository.ErrMissingCredentials, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", repository.ErrNotFound, err)
		}
	}
	return err
}
