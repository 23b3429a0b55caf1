package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/joseph-ayodele/pdf-extractor/constants"
	"github.com/joseph-ayodele/pdf-extractor/internal/common"
	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
	"github.com/joseph-ayodele/pdf-extractor/internal/llm"
	"github.com/joseph-ayodele/pdf-extractor/internal/pipeline"
	"github.com/joseph-ayodele/pdf-extractor/internal/schema"
	"github.com/joseph-ayodele/pdf-extractor/internal/upload"
)

// parseFailure is the error body of /api/parse-resume.
type parseFailure struct {
	Error       string `json:"error"`
	Details     string `json:"details,omitempty"`
	RawResponse string `json:"rawResponse,omitempty"`
	Stack       string `json:"stack,omitempty"`
}

// HandleParseResume extracts one document synchronously. The multipart body
// carries the document in "pdf" and the schema as JSON in "config". On
// success the body is the extracted object keyed by field key.
func (h *Handler) HandleParseResume(c echo.Context) error {
	logger := common.LoggerFromContext(c.Request().Context(), h.logger)

	fh, err := c.FormFile("pdf")
	if err != nil {
		return c.String(http.StatusBadRequest, "No PDF file provided")
	}

	var cfg entity.ParserConfig
	if err := json.Unmarshal([]byte(c.FormValue("config")), &cfg); err != nil {
		return c.JSON(http.StatusBadRequest, parseFailure{Error: "Invalid config", Details: err.Error()})
	}
	for i := range cfg.Fields {
		if cfg.Fields[i].Type == "" {
			cfg.Fields[i].Type = constants.FieldText
		}
	}
	if err := schema.ValidateConfig(cfg); err != nil {
		return c.JSON(http.StatusBadRequest, parseFailure{Error: "Invalid config", Details: err.Error()})
	}

	mimeType := fh.Header.Get(echo.HeaderContentType)
	if mimeType == "" {
		mimeType = constants.MimePDF
	}
	// same admission rules as the upload queue
	switch {
	case !constants.IsPDFMime(mimeType):
		return c.JSON(http.StatusBadRequest, parseFailure{Error: "Invalid file", Details: string(upload.RejectNotPDF)})
	case fh.Size > constants.MaxUploadBytes:
		return c.JSON(http.StatusBadRequest, parseFailure{Error: "Invalid file", Details: string(upload.RejectTooLarge)})
	}

	data, err := readPart(fh)
	if err != nil {
		return h.parseError(c, "Error processing PDF", err)
	}

	file := entity.UploadedFile{Name: fh.Filename, MimeType: mimeType, Size: int64(len(data)), Data: data}
	ext, err := h.extractor.Extract(c.Request().Context(), file, cfg)
	if err != nil {
		var ue *llm.UnparseableError
		var ie *pipeline.InvalidRecordError
		switch {
		case errors.As(err, &ue):
			logger.Warn("parse_resume.unparseable", "file", fh.Filename)
			return c.JSON(http.StatusUnprocessableEntity, parseFailure{
				Error:       "Invalid response format",
				Details:     "The AI response could not be parsed correctly",
				RawResponse: ue.Raw,
			})
		case errors.As(err, &ie):
			return c.JSON(http.StatusUnprocessableEntity, parseFailure{
				Error:       "Invalid record",
				Details:     strings.Join(ie.Violations, "; "),
				RawResponse: ie.Raw,
			})
		case errors.Is(err, common.ErrUpstream):
			return h.parseError(c, "Model processing error", err)
		default:
			return h.parseError(c, "Error processing PDF", err)
		}
	}

	logger.Info("parse_resume.ok", "file", fh.Filename, "record_id", ext.Record.ID)
	return c.JSON(http.StatusOK, ext.Record.Fields())
}

func (h *Handler) parseError(c echo.Context, title string, err error) error {
	common.LoggerFromContext(c.Request().Context(), h.logger).Error("parse_resume.failed", "error", err)
	body := parseFailure{Error: title, Details: err.Error()}
	if h.dev {
		body.Stack = string(debug.Stack())
	}
	return c.JSON(http.StatusInternalServerError, body)
}
