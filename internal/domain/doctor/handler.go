package doctor

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
	api.GET("/doctors", h.ListDoctors)
	api.POST("/doctors", h.CreateDoctor)
	api.GET("/doctors/search", h.SearchDoctors)
	api.GET("/doctors/departments", h.Departments)
	api.GET("/doctors/:id", h.GetDoctor)
	api.POST("/doctors/delete", h.DeleteDoctors)
}

func httpError(err error) error {
	switch {
	case validation.Is(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSentinelMissing):
		return echo.NewHTTPError(http.StatusInternalServerError, ErrSentinelMissing.Error())
	}
	return echo.NewHTTPError(http.StatusBadGateway, err.Error())
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateDoctor(c.Request().Context(), &d); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetDoctor(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	doctors, err := h.svc.ListDoctors(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, doctors)
}

// SearchDoctors filters by ?name= (substring) or ?department= (exact).
func (h *Handler) SearchDoctors(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		doctors []*Doctor
		err     error
	)
	if dept := c.QueryParam("department"); dept != "" {
		doctors, err = h.svc.ListByDepartment(ctx, dept)
	} else {
		doctors, err = h.svc.SearchByName(ctx, c.QueryParam("name"))
	}
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, doctors)
}

func (h *Handler) Departments(c echo.Context) error {
	departments, err := h.svc.Departments(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, departments)
}

type deleteRequest struct {
	IDs []int64 `json:"ids"`
}

type deleteFailure struct {
	Error  string          `json:"error"`
	Report *DeletionReport `json:"report"`
}

func (h *Handler) DeleteDoctors(c echo.Context) error {
	var req deleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	report, err := h.svc.DeleteWithReassignment(c.Request().Context(), req.IDs)
	if err != nil {
		if report == nil {
			return httpError(err)
		}
		return c.JSON(http.StatusInternalServerError, deleteFailure{Error: err.Error(), Report: report})
	}
	return c.JSON(http.StatusOK, report)
}
