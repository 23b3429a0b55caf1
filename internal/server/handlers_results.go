package server

import (
	"errors"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/joseph-ayodele/pdf-extractor/internal/export"
)

func (h *Handler) HandleResults(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ws.Table())
}

func (h *Handler) HandleClearResults(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int{"cleared": h.ws.ClearResults()})
}

// HandleCopyField returns one rendered field value, as copied to the clipboard.
func (h *Handler) HandleCopyField(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	text, err := h.ws.FieldText(id, c.Param("key"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"text": text})
}

// HandleExport downloads every result. An empty result list yields 204.
func (h *Handler) HandleExport(c echo.Context) error {
	art, err := h.ws.Export(export.Format(c.Param("format")))
	if errors.Is(err, export.ErrNothingToExport) {
		return c.NoContent(http.StatusNoContent)
	}
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": art.FileName}))
	return c.Blob(http.StatusOK, art.ContentType, art.Data)
}
