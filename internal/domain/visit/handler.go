package visit

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ehr/hospital/internal/platform/validation"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/visits", h.CreateVisits)
	api.GET("/visits/:id", h.GetDetail)
	api.PATCH("/visits/:id/notes", h.UpdateClinicalNotes)
}

func httpError(err error) error {
	switch {
	case validation.Is(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadGateway, err.Error())
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

type createResponse struct {
	Created []*Visit `json:"created"`
	Error   string   `json:"error,omitempty"`
}

func (h *Handler) CreateVisits(c echo.Context) error {
	var in Intake
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.svc.CreateVisits(c.Request().Context(), in)
	if err != nil {
		if validation.Is(err) {
			return httpError(err)
		}
		return c.JSON(http.StatusBadGateway, createResponse{Created: created, Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, createResponse{Created: created})
}

func (h *Handler) GetDetail(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	d, err := h.svc.GetDetail(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) UpdateClinicalNotes(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var notes ClinicalNotes
	if err := c.Bind(&notes); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.UpdateClinicalNotes(c.Request().Context(), id, notes); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"record_id": id, "updated": true})
}
