package billing

import (
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
	api.GET("/invoices", h.ListInvoices)
	api.GET("/billing/revenue", h.TotalRevenue)
	api.GET("/billing/departments", h.TopDepartments)
	api.GET("/billing/dashboard", h.Dashboard)
}

func httpError(err error) error {
	if validation.Is(err) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadGateway, err.Error())
}

func (h *Handler) ListInvoices(c echo.Context) error {
	invoices, err := h.svc.Invoices(c.Request().Context(), c.QueryParam("payment_method"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, invoices)
}

func (h *Handler) TotalRevenue(c echo.Context) error {
	total, err := h.svc.TotalRevenue(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]float64{"total_revenue": total})
}

func (h *Handler) TopDepartments(c echo.Context) error {
	n := 0
	if s := c.QueryParam("top"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "top must be a positive integer")
		}
		n = v
	}
	r, err := h.svc.TopDepartments(c.Request().Context(), n)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) Dashboard(c echo.Context) error {
	d, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}
