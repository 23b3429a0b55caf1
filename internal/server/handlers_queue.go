package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/joseph-ayodele/pdf-extractor/internal/common"
	"github.com/joseph-ayodele/pdf-extractor/internal/upload"
)

// HandleEnqueue accepts a multipart body with one or more "files" parts.
func (h *Handler) HandleEnqueue(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return NewBadRequestError("expected multipart form", err)
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return NewBadRequestError("no files provided", nil)
	}

	candidates := make([]upload.Candidate, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			return NewBadRequestError("failed to read "+fh.Filename, err)
		}
		candidates = append(candidates, upload.Candidate{
			Name:     fh.Filename,
			MimeType: fh.Header.Get(echo.HeaderContentType),
			Data:     data,
		})
	}
	return c.JSON(http.StatusOK, h.ws.AddFiles(candidates))
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return data, nil
}

func (h *Handler) HandleListQueue(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ws.Queue.List())
}

// uuidParam reads a path parameter that must hold a queue or result id.
func uuidParam(c echo.Context, name string) (string, error) {
	id := c.Param(name)
	if err := common.ValidateAndReturnError(common.NewValidator().Field(name, id, common.UUID)); err != nil {
		return "", err
	}
	return id, nil
}

func (h *Handler) HandleRemoveQueued(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if !h.ws.Queue.Remove(id) {
		return NewNotFoundError("queued file", id)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) HandleClearQueue(c echo.Context) error {
	h.ws.Queue.Clear()
	return c.NoContent(http.StatusNoContent)
}

// HandleStartPass starts processing the queue and returns immediately; poll
// /api/progress for completion.
func (h *Handler) HandleStartPass(c echo.Context) error {
	state, err := h.ws.StartPass(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, state)
}

func (h *Handler) HandleProgress(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ws.State())
}

func (h *Handler) HandleNotifications(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ws.Notifications())
}

func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"version": h.version,
	})
}
