package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/uplink/internal/formatter"
	"github.com/desertthunder/uplink/internal/models"
	"github.com/desertthunder/uplink/internal/repositories"
	"github.com/desertthunder/uplink/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// HistoryList prints recorded upload sessions, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	if _, err := os.Stat(config.Database.Path); err != nil {
		return fmt.Errorf("%w: no history database at %s, run 'uplink setup' first", shared.ErrMissingConfig, config.Database.Path)
	}

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewSessionRepository(db)
	records, err := repo.List(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	if len(records) == 0 {
		r.writePlain("No upload sessions recorded yet\n")
		return nil
	}

	r.writePlainHeader("Upload History")
	for _, rec := range records {
		r.writePlain("%s\n", summarizeSession(rec))
	}
	return nil
}

// HistoryClear deletes all recorded sessions.
func (r *Runner) HistoryClear(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	if _, err := os.Stat(config.Database.Path); err != nil {
		return fmt.Errorf("%w: no history database at %s", shared.ErrMissingConfig, config.Database.Path)
	}

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewSessionRepository(db)
	removed, err := repo.Clear()
	if err != nil {
		return err
	}

	r.writePlain("Cleared %d session(s)\n", removed)
	return nil
}

// summarizeSession renders one history line.
func summarizeSession(rec *models.SessionRecord) string {
	line := fmt.Sprintf("%-14s  %-9s  %d file(s)  %s in %s",
		humanize.Time(rec.StartedAt),
		rec.Status,
		rec.FileCount,
		formatter.FormatBytes(rec.TotalBytes),
		formatter.FormatDuration(int64(rec.Duration().Seconds())),
	)

	switch {
	case rec.Error != "":
		line += "  (" + rec.Error + ")"
	case rec.Navigation != "":
		line += "  → " + rec.Navigation
	}
	return line
}
