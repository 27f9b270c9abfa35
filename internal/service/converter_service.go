package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"invoice-converter/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoFiles means the request carried no uploads.
	ErrNoFiles = errors.New("no files uploaded")
	// ErrNoRecords means every uploaded file failed extraction.
	ErrNoRecords = errors.New("no data could be extracted from the uploaded files")
)

// ConversionResult is a finished batch together with its spreadsheet.
type ConversionResult struct {
	Batch       *Batch
	Spreadsheet []byte
	FileName    string
}

type ConverterService struct {
	extractor TextExtractor
	parser    *FieldParser
	writer    RecordWriter
	workers   int
	logger    *zap.Logger
}

func NewConverterService(
	extractor TextExtractor,
	parser *FieldParser,
	writer RecordWriter,
	workers int,
	logger *zap.Logger,
) *ConverterService {
	if workers < 1 {
		workers = 1
	}
	return &ConverterService{
		extractor: extractor,
		parser:    parser,
		writer:    writer,
		workers:   workers,
		logger:    logger,
	}
}

type fileOutcome struct {
	record models.InvoiceRecord
	err    error
}

// Process extracts and parses every upload. Files are handled concurrently
// but the batch keeps upload order; a file that fails extraction is skipped
// and reported, never fatal. Only cancellation of ctx aborts the batch.
func (s *ConverterService) Process(ctx context.Context, uploads []models.Upload) (*Batch, error) {
	if len(uploads) == 0 {
		return nil, ErrNoFiles
	}

	outcomes := make([]fileOutcome, len(uploads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, upload := range uploads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = s.processFile(gctx, upload)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := NewBatch()
	for i, outcome := range outcomes {
		if outcome.err != nil {
			batch.Skip(uploads[i].FileName, outcome.err)
			continue
		}
		batch.Add(outcome.record)
	}

	s.logger.Info("Batch processed",
		zap.String("batch_id", batch.ID.String()),
		zap.Int("files", len(uploads)),
		zap.Int("successful", batch.Successful()),
		zap.Int("failed", batch.Failed()),
	)

	return batch, nil
}

func (s *ConverterService) processFile(ctx context.Context, upload models.Upload) fileOutcome {
	if err := checkPDFName(upload); err != nil {
		s.logger.Warn("Rejected upload", zap.String("file", upload.FileName), zap.Error(err))
		return fileOutcome{err: err}
	}

	text, err := s.extractor.Extract(ctx, upload.Data)
	if err != nil {
		s.logger.Warn("Text extraction failed",
			zap.String("file", upload.FileName),
			zap.String("engine", s.extractor.Name()),
			zap.Error(err),
		)
		return fileOutcome{err: err}
	}

	record := s.parser.Parse(text.Text)
	record.SourceFile = upload.FileName
	record = sanitizeRecord(record)

	s.logger.Debug("Invoice parsed",
		zap.String("file", upload.FileName),
		zap.Int("pages", len(text.Pages)),
		zap.Int("text_length", len(text.Text)),
		zap.Bool("empty", record.IsEmpty()),
	)

	return fileOutcome{record: record}
}

// checkPDFName rejects uploads that are neither named nor shaped like a PDF.
func checkPDFName(upload models.Upload) error {
	ext := strings.ToLower(filepath.Ext(upload.FileName))
	if ext == ".pdf" || looksLikePDF(upload.Data) {
		return nil
	}
	return fmt.Errorf("%w: unsupported file format %q (supported: pdf)", ErrNotPDF, ext)
}

// Convert processes the uploads and serializes the records. A batch without
// records yields ErrNoRecords along with the batch so the skipped files can
// still be reported; a serialization failure withholds the whole result and
// always wraps ErrSpreadsheetWrite.
func (s *ConverterService) Convert(ctx context.Context, uploads []models.Upload) (*ConversionResult, error) {
	batch, err := s.Process(ctx, uploads)
	if err != nil {
		return nil, err
	}

	if batch.Successful() == 0 {
		return &ConversionResult{Batch: batch}, ErrNoRecords
	}

	data, err := s.writer.Write(batch.Records())
	if err != nil {
		s.logger.Error("Spreadsheet serialization failed",
			zap.String("batch_id", batch.ID.String()),
			zap.Error(err),
		)
		if !errors.Is(err, ErrSpreadsheetWrite) {
			err = fmt.Errorf("%w: %v", ErrSpreadsheetWrite, err)
		}
		return nil, err
	}

	return &ConversionResult{
		Batch:       batch,
		Spreadsheet: data,
		FileName:    SpreadsheetFileName(batch.CreatedAt),
	}, nil
}

func sanitizeRecord(r models.InvoiceRecord) models.InvoiceRecord {
	return models.InvoiceRecord{
		OrderNumber:     sanitizeCell(r.OrderNumber),
		OrderDate:       sanitizeCell(r.OrderDate),
		InvoiceNumber:   sanitizeCell(r.InvoiceNumber),
		CustomerAddress: sanitizeCell(r.CustomerAddress),
		InvoiceDetails:  sanitizeCell(r.InvoiceDetails),
		Description:     sanitizeCell(r.Description),
		TotalAmount:     sanitizeCell(r.TotalAmount),
		SourceFile:      sanitizeCell(r.SourceFile),
	}
}
