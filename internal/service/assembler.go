package service

import (
	"time"

	"invoice-converter/internal/models"

	"github.com/google/uuid"
)

// Batch collects the outcome of one conversion request: the records in
// upload order and the files that produced none. It is created per request
// and never shared between requests.
type Batch struct {
	ID        uuid.UUID
	CreatedAt time.Time

	records []models.InvoiceRecord
	skipped []models.SkippedFile
}

func NewBatch() *Batch {
	return &Batch{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
	}
}

// Add appends the record of a successfully extracted file.
func (b *Batch) Add(record models.InvoiceRecord) {
	b.records = append(b.records, record)
}

// Skip reports a file whose text extraction failed.
func (b *Batch) Skip(fileName string, err error) {
	b.skipped = append(b.skipped, models.SkippedFile{
		FileName: fileName,
		Reason:   err.Error(),
	})
}

// Records returns the records in upload order.
func (b *Batch) Records() []models.InvoiceRecord {
	return b.records
}

func (b *Batch) Skipped() []models.SkippedFile {
	return b.skipped
}

func (b *Batch) Successful() int { return len(b.records) }

func (b *Batch) Failed() int { return len(b.skipped) }

// SuccessRate is the share of processed files that produced a record, in
// percent.
func (b *Batch) SuccessRate() float64 {
	total := b.Successful() + b.Failed()
	if total == 0 {
		return 0
	}
	return float64(b.Successful()) / float64(total) * 100
}
