package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ovoloshina/shopbot-backend/internal/model"
	"github.com/ovoloshina/shopbot-backend/internal/repository"
	"github.com/ovoloshina/shopbot-backend/internal/service"
)

type OrderHandler struct {
	svc service.OrderService
}

func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type BillResponse struct {
	BillID    string  `json:"billId"`
	UserID    int64   `json:"userId"`
	Size      string  `json:"size"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
	PayURL    string  `json:"payUrl,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

func toBillResponse(b *model.Bill) BillResponse {
	return BillResponse{
		BillID:    b.BillID,
		UserID:    b.UserID,
		Size:      b.SizeName,
		Amount:    b.Amount,
		Status:    string(b.Status),
		PayURL:    b.PayURL,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

func (h *OrderHandler) SelectSize(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid user id"))
	}
	var body struct {
		Size string `json:"size"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	if err := h.svc.SelectSize(c.Request().Context(), userID, body.Size); err != nil {
		switch {
		case errors.Is(err, repository.ErrUnknownSize):
			return c.JSON(http.StatusBadRequest, NewErrorResponse("unknown_size", "size is not sold"))
		case errors.Is(err, service.ErrOutOfStock):
			return c.JSON(http.StatusConflict, NewErrorResponse("out_of_stock", "size is no longer available"))
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("unknown_user", "profile not found"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to select size"))
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHandler) StartCheckout(c echo.Context) error {
	var body struct {
		UserID int64   `json:"userId"`
		Size   string  `json:"size"`
		Amount float64 `json:"amount"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	bill, err := h.svc.StartCheckout(c.Request().Context(), body.UserID, body.Size, body.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "amount must be positive"))
		case errors.Is(err, repository.ErrUnknownSize):
			return c.JSON(http.StatusBadRequest, NewErrorResponse("unknown_size", "size is not sold"))
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("unknown_user", "profile not found"))
		case errors.Is(err, service.ErrOutOfStock):
			return c.JSON(http.StatusConflict, NewErrorResponse("out_of_stock", "size is no longer available"))
		case errors.Is(err, service.ErrPaymentProvider):
			return c.JSON(http.StatusBadGateway, NewErrorResponse("payment_provider_error", "could not create bill"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to start checkout"))
		}
	}
	return c.JSON(http.StatusCreated, toBillResponse(bill))
}

func (h *OrderHandler) CheckBill(c echo.Context) error {
	billID := c.Param("id")
	status, err := h.svc.CheckBill(c.Request().Context(), billID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBillNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "bill not found"))
		case errors.Is(err, service.ErrPaymentProvider):
			return c.JSON(http.StatusBadGateway, NewErrorResponse("payment_provider_error", "status check failed, retry later"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to check bill"))
		}
	}
	return c.JSON(http.StatusOK, map[string]string{
		"billId": billID,
		"status": string(status),
	})
}

func (h *OrderHandler) Abandon(c echo.Context) error {
	billID := c.Param("id")
	if err := h.svc.Abandon(c.Request().Context(), billID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBillNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "bill not found"))
		case errors.Is(err, service.ErrBillAlreadyPaid):
			return c.JSON(http.StatusConflict, NewErrorResponse("already_paid", "paid bills cannot be abandoned"))
		case errors.Is(err, service.ErrBillStillPayable):
			return c.JSON(http.StatusConflict, NewErrorResponse("still_payable", "provider still considers the bill payable"))
		case errors.Is(err, service.ErrPaymentProvider):
			return c.JSON(http.StatusBadGateway, NewErrorResponse("payment_provider_error", "status check failed, retry later"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to abandon bill"))
		}
	}
	return c.NoContent(http.StatusNoContent)
}
