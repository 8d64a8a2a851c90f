// Package importer turns an uploaded spreadsheet into ledger expenses in one
// atomic write.
package importer

import (
	"context"
	"errors"
	"io"
	"time"

	"fjacquet/finrecon/internal/finerror"
	"fjacquet/finrecon/internal/logging"
	"fjacquet/finrecon/internal/models"
	"fjacquet/finrecon/internal/normalizer"
	"fjacquet/finrecon/internal/sheet"
)

// Committer persists a batch of records atomically.
type Committer interface {
	CommitImport(ctx context.Context, userID string, records []models.TransactionRecord) ([]models.TransactionRecord, error)
}

// Result summarises one import.
type Result struct {
	ImportedCount int
	Records       []models.TransactionRecord
	Rejected      int
}

// Importer runs the parse, normalize and commit pipeline.
type Importer struct {
	normalizer *normalizer.Normalizer
	committer  Committer
	logger     logging.Logger
}

// NewImporter creates an Importer.
func NewImporter(n *normalizer.Normalizer, c Committer, logger logging.Logger) *Importer {
	return &Importer{normalizer: n, committer: c, logger: logging.OrDefault(logger)}
}

// ImportFile checks the extension of filename, reads its first table from r
// and imports it.
func (im *Importer) ImportFile(ctx context.Context, userID, filename string, r io.Reader) (Result, error) {
	reader, err := sheet.ForFilename(filename)
	if err != nil {
		return Result{}, err
	}

	logger := im.logger.WithFields(
		logging.F(logging.FieldUser, userID),
		logging.F(logging.FieldFile, filename))
	logger.Info("Importing file", logging.F("format", reader.Format()))

	table, err := reader.Read(r)
	if err != nil {
		logger.WithError(err).Error("Failed to read spreadsheet")
		return Result{}, &finerror.ParseError{File: filename, Err: err}
	}

	return im.importTable(ctx, userID, filename, table, logger)
}

// ImportTable imports an already parsed table.
func (im *Importer) ImportTable(ctx context.Context, userID string, table sheet.Table) (Result, error) {
	return im.importTable(ctx, userID, "", table, im.logger.WithField(logging.FieldUser, userID))
}

func (im *Importer) importTable(ctx context.Context, userID, filename string, table sheet.Table, logger logging.Logger) (Result, error) {
	start := time.Now()
	cols := normalizer.NewColumnMap(table.Header)

	var (
		records  []models.TransactionRecord
		rejected int
	)
	for i, row := range table.Rows {
		rec, err := im.normalizer.NormalizeRow(cols, i+1, row)
		if err != nil {
			var rej *finerror.RowRejection
			if !errors.As(err, &rej) {
				return Result{}, err
			}
			rejected++
			logger.Debug("Row rejected",
				logging.F(logging.FieldRow, rej.Row),
				logging.F(logging.FieldReason, rej.Reason))
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		logger.Warn("No valid rows", logging.F(logging.FieldCount, len(table.Rows)))
		return Result{Rejected: rejected}, &finerror.FormatError{
			File: filename,
			Rows: len(table.Rows),
			Hint: finerror.ExpectedColumnsHint,
		}
	}

	written, err := im.committer.CommitImport(ctx, userID, records)
	if err != nil {
		logger.WithError(err).Error("Failed to store imported expenses")
		var (
			werr *finerror.StoreWriteError
			verr *finerror.ValidationError
		)
		if errors.As(err, &werr) || errors.As(err, &verr) {
			return Result{Rejected: rejected}, err
		}
		return Result{Rejected: rejected}, &finerror.StoreWriteError{Collection: "expenses", Op: "batch", Err: err}
	}

	logger.Info("Import complete",
		logging.F(logging.FieldCount, len(written)),
		logging.F("rejected", rejected),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))

	return Result{ImportedCount: len(written), Records: written, Rejected: rejected}, nil
}
