package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"landScope/internal/config"
	"landScope/internal/query"
)

func runSearch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSearch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	criteria, err := buildCriteria(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, err := loadRecords(ctx, cfg.Config, cfg.In, cfg.PGDSN, logger)
	if err != nil {
		return err
	}

	matches, err := query.Search(records, criteria)
	if err != nil {
		return err
	}
	logger.Debug("search complete", zap.Int("records", len(records)), zap.Int("matches", len(matches)))

	return writeRecords(cmd.OutOrStdout(), matches, cfg.Account)
}

// buildCriteria maps flags to criteria and rejects unusable input before
// any record source is contacted.
func buildCriteria(cfg config.SearchConfig) (query.Criteria, error) {
	var criteria query.Criteria
	if cfg.Advanced {
		advanced, err := buildAdvanced(cfg)
		if err != nil {
			return nil, err
		}
		criteria = advanced
	} else {
		field, err := query.ParseField(cfg.Field)
		if err != nil {
			return nil, err
		}
		criteria = query.Simple{Field: field, Value: cfg.Value}
	}

	if err := query.Validate(criteria); err != nil {
		return nil, err
	}
	return criteria, nil
}

func buildAdvanced(cfg config.SearchConfig) (query.Advanced, error) {

	area, err := query.ParseArea(cfg.Area)
	if err != nil {
		return query.Advanced{}, err
	}
	documents, err := query.ParseDocumentFilter(cfg.Documents)
	if err != nil {
		return query.Advanced{}, err
	}
	return query.Advanced{
		Location:     cfg.Location,
		AreaApprox:   area,
		SurveyNumber: cfg.SurveyNumber,
		PriceMin:     cfg.PriceMin,
		PriceMax:     cfg.PriceMax,
		Documents:    documents,
	}, nil
}
