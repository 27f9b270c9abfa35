package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

var (
	// ErrExtractionFailed means the file could not be read as a PDF at all.
	ErrExtractionFailed = errors.New("pdf text extraction failed")
	// ErrNoText means the PDF opened but carries no text layer.
	ErrNoText = fmt.Errorf("%w: no text found in PDF", ErrExtractionFailed)
	// ErrNotPDF means the file does not carry the PDF header.
	ErrNotPDF = fmt.Errorf("%w: file is not a PDF", ErrExtractionFailed)
)

const (
	EngineFitz = "fitz"
	EnginePure = "pure"
)

// pdfMagicWindow is how far into the file the %PDF- header may start.
const pdfMagicWindow = 1024

// ExtractedText is the plain text of one PDF.
type ExtractedText struct {
	Pages []string
	// Text is every page followed by a newline.
	Text string
}

// TextExtractor turns PDF bytes into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (*ExtractedText, error)
	Name() string
}

// NewTextExtractor returns the extractor for the configured engine.
func NewTextExtractor(engine string, logger *zap.Logger) (TextExtractor, error) {
	switch strings.ToLower(engine) {
	case "", EngineFitz:
		return NewFitzExtractor(logger), nil
	case EnginePure:
		return NewPureExtractor(logger), nil
	default:
		return nil, fmt.Errorf("unknown extractor engine: %s (supported: %s, %s)", engine, EngineFitz, EnginePure)
	}
}

// FitzExtractor extracts text with MuPDF through go-fitz.
type FitzExtractor struct {
	logger *zap.Logger
}

func NewFitzExtractor(logger *zap.Logger) *FitzExtractor {
	return &FitzExtractor{logger: logger}
}

func (e *FitzExtractor) Name() string { return EngineFitz }

// Extract opens the document from memory and reads every page. Pages that
// fail to decode are logged and skipped.
func (e *FitzExtractor) Extract(ctx context.Context, data []byte) (*ExtractedText, error) {
	if !looksLikePDF(data) {
		return nil, ErrNotPDF
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pageText, err := doc.Text(i)
		if err != nil {
			e.logger.Warn("Failed to extract text from page",
				zap.Int("page", i+1),
				zap.Error(err),
			)
			continue
		}
		pages = append(pages, pageText)
	}

	return newExtractedText(pages)
}

// PureExtractor extracts text with the pure-Go ledongthuc/pdf reader.
// It needs no native library but handles fewer font encodings than MuPDF.
type PureExtractor struct {
	logger *zap.Logger
}

func NewPureExtractor(logger *zap.Logger) *PureExtractor {
	return &PureExtractor{logger: logger}
}

func (e *PureExtractor) Name() string { return EnginePure }

// Extract rebuilds each page line by line from the text rows the reader
// reports, top to bottom.
func (e *PureExtractor) Extract(ctx context.Context, data []byte) (text *ExtractedText, err error) {
	if !looksLikePDF(data) {
		return nil, ErrNotPDF
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = nil
			err = fmt.Errorf("%w: %v", ErrExtractionFailed, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			e.logger.Warn("Failed to extract text from page",
				zap.Int("page", i),
				zap.Error(err),
			)
			continue
		}

		var pageText strings.Builder
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				words = append(words, word.S)
			}
			pageText.WriteString(strings.Join(strings.Fields(strings.Join(words, " ")), " "))
			pageText.WriteString("\n")
		}
		pages = append(pages, pageText.String())
	}

	return newExtractedText(pages)
}

func newExtractedText(pages []string) (*ExtractedText, error) {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p)
		b.WriteString("\n")
	}
	text := b.String()
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}
	return &ExtractedText{Pages: pages, Text: text}, nil
}

func looksLikePDF(data []byte) bool {
	head := data
	if len(head) > pdfMagicWindow {
		head = head[:pdfMagicWindow]
	}
	return bytes.Contains(head, []byte("%PDF-"))
}
