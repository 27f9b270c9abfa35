package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// buildTextPDF writes a one-page PDF showing each line in Helvetica, top to
// bottom, with a correct cross-reference table.
func buildTextPDF(lines ...string) []byte {
	var content strings.Builder
	content.WriteString("BT /F1 12 Tf\n")
	for i, line := range lines {
		fmt.Fprintf(&content, "1 0 0 1 72 %d Tm (%s) Tj\n", 720-20*i, line)
	}
	content.WriteString("ET")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestNewTextExtractor(t *testing.T) {
	logger := zaptest.NewLogger(t)

	tests := []struct {
		engine  string
		want    string
		wantErr bool
	}{
		{engine: "", want: EngineFitz},
		{engine: "fitz", want: EngineFitz},
		{engine: "PURE", want: EnginePure},
		{engine: "tesseract", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			extractor, err := NewTextExtractor(tt.engine, logger)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, extractor.Name())
		})
	}
}

func TestExtractRejectsNonPDF(t *testing.T) {
	for _, extractor := range extractors(t) {
		t.Run(extractor.Name(), func(t *testing.T) {
			_, err := extractor.Extract(context.Background(), []byte("PK\x03\x04 this is a zip archive"))
			assert.ErrorIs(t, err, ErrNotPDF)
			assert.ErrorIs(t, err, ErrExtractionFailed)

			_, err = extractor.Extract(context.Background(), nil)
			assert.ErrorIs(t, err, ErrExtractionFailed)
		})
	}
}

func TestPureExtractCorruptPDF(t *testing.T) {
	extractor := NewPureExtractor(zaptest.NewLogger(t))

	_, err := extractor.Extract(context.Background(), []byte("%PDF-1.4\nnot really a pdf\n"))
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func extractors(t *testing.T) []TextExtractor {
	logger := zaptest.NewLogger(t)
	return []TextExtractor{NewFitzExtractor(logger), NewPureExtractor(logger)}
}

func TestExtractText(t *testing.T) {
	data := buildTextPDF("Order Number: 123-4567890-1234567", "Order Date: January 1, 2024", "Total: $42.10")

	for _, extractor := range extractors(t) {
		t.Run(extractor.Name(), func(t *testing.T) {
			text, err := extractor.Extract(context.Background(), data)
			require.NoError(t, err)
			require.Len(t, text.Pages, 1)

			compact := strings.Join(strings.Fields(text.Text), "")
			assert.Contains(t, compact, "OrderNumber:123-4567890-1234567")
			assert.Contains(t, compact, "Total:$42.10")
		})
	}
}

func TestFitzExtractParsesFields(t *testing.T) {
	data := buildTextPDF("Order Number: 123-4567890-1234567", "Order Date: January 1, 2024", "Total: $42.10")
	logger := zaptest.NewLogger(t)

	text, err := NewFitzExtractor(logger).Extract(context.Background(), data)
	require.NoError(t, err)

	record := NewFieldParser(DefaultRules(), logger).Parse(text.Text)
	assert.Equal(t, "123-4567890-1234567", record.OrderNumber)
	assert.Equal(t, "January 1, 2024", record.OrderDate)
	assert.Equal(t, "$42.10", record.TotalAmount)
}

func TestExtractNoText(t *testing.T) {
	for _, extractor := range extractors(t) {
		t.Run(extractor.Name(), func(t *testing.T) {
			_, err := extractor.Extract(context.Background(), buildTextPDF())
			assert.ErrorIs(t, err, ErrNoText)
		})
	}
}

func TestExtractHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, extractor := range extractors(t) {
		t.Run(extractor.Name(), func(t *testing.T) {
			_, err := extractor.Extract(ctx, buildTextPDF("Order Number: 1"))
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestLooksLikePDF(t *testing.T) {
	assert.True(t, looksLikePDF([]byte("%PDF-1.7\n")))
	assert.True(t, looksLikePDF(append([]byte("\xef\xbb\xbf  "), []byte("%PDF-1.4")...)))
	assert.False(t, looksLikePDF([]byte("hello")))
	assert.False(t, looksLikePDF(append(bytes.Repeat([]byte{' '}, pdfMagicWindow), []byte("%PDF-1.4")...)))
}
