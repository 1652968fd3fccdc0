package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres/repository"
)

// ImportRow is one spreadsheet row keyed by note field name.
type ImportRow struct {
	Line     int
	Values   map[string]string
	Tags     []string
	Mnemonic *string
}

// ImportSheet is a parsed spreadsheet. Columns lists the note field columns
// of the header row in sheet order; the tags and mnemonic columns are not
// part of it.
type ImportSheet struct {
	Columns []string
	Rows    []ImportRow
}

// ImportError reports a row that could not be imported.
type ImportError struct {
	Line int
	Err  error
}

func (e ImportError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

type ImportReport struct {
	Created int
	Cards   int
	Failed  []ImportError
}

// ImportService turns spreadsheet rows into notes.
type ImportService struct {
	noteTypes NoteTypeRepository
	notes     *NoteService
	logger    *zap.Logger
}

func NewImportService(noteTypes NoteTypeRepository, notes *NoteService, logger *zap.Logger) *ImportService {
	return &ImportService{noteTypes: noteTypes, notes: notes, logger: logger}
}

// Import creates one note per row. Row failures are collected; only problems
// with the whole sheet abort the import.
func (s *ImportService) Import(ctx context.Context, userID, deckID, noteTypeID int64, sheet ImportSheet) (*ImportReport, error) {
	nt, err := s.noteTypes.GetByID(ctx, noteTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteTypeNotFound) {
			return nil, fmt.Errorf("%w: note type %d", ErrNotFound, noteTypeID)
		}
		return nil, fmt.Errorf("get note type: %w", err)
	}

	fieldIDs := make(map[string]int64, len(nt.Fields))
	for _, f := range nt.Fields {
		fieldIDs[f.Name] = f.ID
	}
	columns := make(map[string]bool, len(sheet.Columns))
	for _, name := range sheet.Columns {
		if _, ok := fieldIDs[name]; !ok {
			return nil, fmt.Errorf("%w: column %q is not a field of note type %q", ErrValidation, name, nt.Name)
		}
		columns[name] = true
	}
	for _, row := range sheet.Rows {
		for name := range row.Values {
			if !columns[name] {
				return nil, fmt.Errorf("%w: line %d: value for unknown column %q", ErrValidation, row.Line, name)
			}
		}
	}

	report := &ImportReport{}
	for _, row := range sheet.Rows {
		in := NoteInput{
			DeckID:     deckID,
			NoteTypeID: noteTypeID,
			Tags:       row.Tags,
			Mnemonic:   row.Mnemonic,
		}
		for _, name := range sheet.Columns {
			v, ok := row.Values[name]
			if !ok || strings.TrimSpace(v) == "" {
				continue
			}
			in.Values = append(in.Values, entities.NoteFieldValue{FieldID: fieldIDs[name], ValueText: &v})
		}

		_, cards, err := s.notes.Create(ctx, userID, in)
		if err != nil {
			if errors.Is(err, ErrForbidden) || errors.Is(err, ErrNotFound) {
				return report, err
			}
			report.Failed = append(report.Failed, ImportError{Line: row.Line, Err: err})
			continue
		}
		report.Created++
		report.Cards += len(cards)
	}

	s.logger.Info("import finished",
		zap.Int64("deck_id", deckID),
		zap.Int("created", report.Created),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}
