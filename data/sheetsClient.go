package data

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/networth_dashboard/config"
	"github.com/KotFed0t/networth_dashboard/data/repository"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

func NewSheetsService(ctx context.Context, cfg *config.Config) (*sheets.Service, error) {
	if cfg.GoogleSheets.CredentialsFile == "" || cfg.GoogleSheets.SpreadsheetID == "" {
		return nil, fmt.Errorf("google sheets: %w", repository.ErrMissingCredentials)
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.GoogleSheets.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("google sheets: %w: %v", repository.ErrMissingCredentials, err)
	}

	slog.Info("Google Sheets client created", slog.String("spreadsheetID", cfg.GoogleSheets.SpreadsheetID))
	return svc, nil
}
