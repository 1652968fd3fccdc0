package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/aliskhannn/nihon-flash/internal/config"
	"github.com/aliskhannn/nihon-flash/internal/importer"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres/repository"
	"github.com/aliskhannn/nihon-flash/internal/logger"
	"github.com/aliskhannn/nihon-flash/internal/service"
)

func main() {
	var (
		deckID     int64
		noteTypeID int64
		ownerID    int64
		file       string
		sheet      string
	)
	pflag.Int64Var(&deckID, "deck-id", 0, "deck to import notes into")
	pflag.Int64Var(&noteTypeID, "note-type-id", 0, "note type whose fields match the header row")
	pflag.Int64Var(&ownerID, "owner-id", 0, "user the notes are created as (must own the deck)")
	pflag.StringVar(&file, "file", "", "path to an .xlsx or .csv file")
	pflag.StringVar(&sheet, "sheet", "", "sheet name (defaults to the first sheet)")
	pflag.Parse()

	if deckID == 0 || noteTypeID == 0 || ownerID == 0 || file == "" {
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	parsed, err := importer.ReadFile(file, sheet)
	if err != nil {
		lg.Fatal("failed to read spreadsheet", zap.String("file", file), zap.Error(err))
	}

	dsn, err := cfg.DB.DSN()
	if err != nil {
		lg.Fatal("database is not configured", zap.Error(err))
	}
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		lg.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	deckRepo := repository.NewDeckRepository(pool)
	noteTypeRepo := repository.NewNoteTypeRepository(pool)
	notes := service.NewNoteService(
		postgres.NewTransactor(pool),
		deckRepo,
		noteTypeRepo,
		repository.NewNoteRepository(pool),
		repository.NewCardRepository(pool),
		repository.NewMediaRepository(pool),
		lg,
	)
	imports := service.NewImportService(noteTypeRepo, notes, lg)

	report, err := imports.Import(ctx, ownerID, deckID, noteTypeID, *parsed)
	if err != nil {
		lg.Fatal("import aborted", zap.Error(err))
	}

	fmt.Printf("imported %d notes (%d cards) from %d rows\n", report.Created, report.Cards, len(parsed.Rows))
	for _, f := range report.Failed {
		fmt.Printf("  %v\n", f)
	}
	if len(report.Failed) > 0 {
		os.Exit(1)
	}
}
