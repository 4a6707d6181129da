package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ovoloshina/shopbot-backend/internal/repository"
	"github.com/ovoloshina/shopbot-backend/internal/service"
)

type StockHandler struct {
	svc service.OrderService
}

func NewStockHandler(svc service.OrderService) *StockHandler {
	return &StockHandler{svc: svc}
}

func (h *StockHandler) GetStock(c echo.Context) error {
	data, err := h.svc.Stock(c.Request().Context())
	if err != nil {
		if errors.Is(err, repository.ErrStockNotConfigured) {
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("configuration_error", err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch stock"))
	}
	return c.JSON(http.StatusOK, data)
}
