package dto

import "invoice-converter/internal/models"

type ConversionResponse struct {
	SessionID   string                 `json:"session_id"`
	Columns     []string               `json:"columns"`
	Rows        []models.InvoiceRecord `json:"rows"`
	Skipped     []models.SkippedFile   `json:"skipped"`
	Successful  int                    `json:"successful"`
	Failed      int                    `json:"failed"`
	SuccessRate float64                `json:"success_rate"`
	FileName    string                 `json:"file_name"`
	DownloadURL string                 `json:"download_url"`
	ExpiresAt   string                 `json:"expires_at"`
}

type NoRecordsResponse struct {
	Error   string               `json:"error"`
	Skipped []models.SkippedFile `json:"skipped"`
	Failed  int                  `json:"failed"`
}
