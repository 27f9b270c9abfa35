package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"time"

	"invoice-converter/internal/dto"
	"invoice-converter/internal/models"
	"invoice-converter/internal/service"
	"invoice-converter/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const filesField = "files"

type ConversionHandler struct {
	converter *service.ConverterService
	sessions  *service.SessionStore
	maxFiles  int
	logger    *zap.Logger
}

func NewConversionHandler(converter *service.ConverterService, sessions *service.SessionStore, maxFiles int, logger *zap.Logger) *ConversionHandler {
	return &ConversionHandler{
		converter: converter,
		sessions:  sessions,
		maxFiles:  maxFiles,
		logger:    logger,
	}
}

// Convert godoc
// @Summary Convert invoice PDFs
// @Description Extract invoice fields from the uploaded Amazon invoice PDFs and prepare the spreadsheet download
// @Tags conversions
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Invoice PDF, repeat for several files"
// @Success 201 {object} dto.ConversionResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} dto.NoRecordsResponse
// @Failure 500 {object} map[string]string
// @Router /api/v1/conversions [post]
func (h *ConversionHandler) Convert(c *fiber.Ctx) error {
	result, err := h.convert(c)
	if err != nil {
		return h.conversionError(c, result, err)
	}

	batch := result.Batch
	download := h.sessions.Put(batch.ID, result.FileName, result.Spreadsheet)

	return c.Status(fiber.StatusCreated).JSON(dto.ConversionResponse{
		SessionID:   batch.ID.String(),
		Columns:     models.HeaderLabels(),
		Rows:        batch.Records(),
		Skipped:     nonNil(batch.Skipped()),
		Successful:  batch.Successful(),
		Failed:      batch.Failed(),
		SuccessRate: batch.SuccessRate(),
		FileName:    result.FileName,
		DownloadURL: fmt.Sprintf("/api/v1/conversions/%s/download", batch.ID),
		ExpiresAt:   download.ExpiresAt.Format(time.RFC3339),
	})
}

// ConvertXLSX godoc
// @Summary Convert invoice PDFs to a spreadsheet
// @Description Extract invoice fields and return the spreadsheet directly
// @Tags conversions
// @Accept multipart/form-data
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param files formData file true "Invoice PDF, repeat for several files"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Failure 422 {object} dto.NoRecordsResponse
// @Failure 500 {object} map[string]string
// @Router /api/v1/conversions/xlsx [post]
func (h *ConversionHandler) ConvertXLSX(c *fiber.Ctx) error {
	result, err := h.convert(c)
	if err != nil {
		return h.conversionError(c, result, err)
	}

	c.Set("X-Invoices-Successful", strconv.Itoa(result.Batch.Successful()))
	c.Set("X-Invoices-Failed", strconv.Itoa(result.Batch.Failed()))
	return sendSpreadsheet(c, result.FileName, result.Spreadsheet)
}

// Download godoc
// @Summary Download a converted spreadsheet
// @Description Fetch the spreadsheet produced by a previous conversion while its session is alive
// @Tags conversions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Session ID"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/conversions/{id}/download [get]
func (h *ConversionHandler) Download(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	download, err := h.sessions.Get(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Conversion not found or expired",
		})
	}

	return sendSpreadsheet(c, download.FileName, download.Data)
}

func (h *ConversionHandler) convert(c *fiber.Ctx) (*service.ConversionResult, error) {
	uploads, err := h.readUploads(c)
	if err != nil {
		return nil, err
	}
	h.logger.Info("Conversion requested",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Int("files", len(uploads)),
	)
	return h.converter.Convert(c.UserContext(), uploads)
}

var errTooManyFiles = errors.New("too many files")

func (h *ConversionHandler) readUploads(c *fiber.Ctx) ([]models.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, service.ErrNoFiles
	}
	headers := form.File[filesField]
	if len(headers) == 0 {
		return nil, service.ErrNoFiles
	}
	if h.maxFiles > 0 && len(headers) > h.maxFiles {
		return nil, fmt.Errorf("%w: %d uploaded, at most %d allowed", errTooManyFiles, len(headers), h.maxFiles)
	}

	uploads := make([]models.Upload, 0, len(headers))
	for _, fh := range headers {
		data, err := readFile(fh)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, models.Upload{FileName: fh.Filename, Data: data})
	}
	return uploads, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}

func (h *ConversionHandler) conversionError(c *fiber.Ctx, result *service.ConversionResult, err error) error {
	switch {
	case errors.Is(err, service.ErrNoFiles):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one PDF file is required",
		})
	case errors.Is(err, errTooManyFiles):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrNoRecords):
		resp := dto.NoRecordsResponse{Error: "No data could be extracted from the uploaded files. Please check that the PDFs are valid Amazon invoices."}
		if result != nil && result.Batch != nil {
			resp.Skipped = nonNil(result.Batch.Skipped())
			resp.Failed = result.Batch.Failed()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(resp)
	case errors.Is(err, service.ErrSpreadsheetWrite):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to write spreadsheet",
		})
	default:
		h.logger.Error("Conversion failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Conversion failed",
		})
	}
}

func sendSpreadsheet(c *fiber.Ctx, fileName string, data []byte) error {
	c.Attachment(fileName)
	c.Set(fiber.HeaderContentType, service.SpreadsheetMIME)
	return c.Send(data)
}

func nonNil(s []models.SkippedFile) []models.SkippedFile {
	if s == nil {
		return []models.SkippedFile{}
	}
	return s
}
