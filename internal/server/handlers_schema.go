package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
	"github.com/joseph-ayodele/pdf-extractor/internal/schema"
)

type schemaRequest struct {
	Name   string         `json:"name"`
	Fields []entity.Field `json:"fields"`
}

func (h *Handler) HandleListSchemas(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ws.Schemas.List())
}

func (h *Handler) HandleGetSchema(c echo.Context) error {
	cfg, err := h.ws.Schemas.Get(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *Handler) HandleCreateSchema(c echo.Context) error {
	var req schemaRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	cfg, err := h.ws.Schemas.Create(req.Name, req.Fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cfg)
}

func (h *Handler) HandleUpdateSchema(c echo.Context) error {
	var req schemaRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	cfg, err := h.ws.Schemas.Update(c.Param("id"), req.Name, req.Fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *Handler) HandleDeleteSchema(c echo.Context) error {
	if err := h.ws.Schemas.Delete(c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) HandleSelectSchema(c echo.Context) error {
	cfg, err := h.ws.Select(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *Handler) HandleSelectedSchema(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ws.Selected())
}

func (h *Handler) HandleAddField(c echo.Context) error {
	f, err := h.ws.Schemas.AddField(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) HandleUpdateField(c echo.Context) error {
	var patch schema.FieldPatch
	if err := c.Bind(&patch); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	f, err := h.ws.Schemas.UpdateField(c.Param("id"), c.Param("fieldId"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) HandleRemoveField(c echo.Context) error {
	if err := h.ws.Schemas.RemoveField(c.Param("id"), c.Param("fieldId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
