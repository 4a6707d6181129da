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

type ProfileHandler struct {
	svc service.ProfileService
}

func NewProfileHandler(svc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type ProfileResponse struct {
	UserID       int64   `json:"userId"`
	Handle       string  `json:"handle"`
	SizeName     *string `json:"sizeName,omitempty"`
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	DeliveryType *string `json:"deliveryType,omitempty"`
	Address      *string `json:"address,omitempty"`
	Postcode     *string `json:"postcode,omitempty"`
	SocialHandle *string `json:"socialHandle,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

func toProfileResponse(p *model.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:       p.UserID,
		Handle:       p.Handle,
		SizeName:     p.SizeName,
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		DeliveryType: p.DeliveryType,
		Address:      p.Address,
		Postcode:     p.Postcode,
		SocialHandle: p.SocialHandle,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}

func (h *ProfileHandler) Ensure(c echo.Context) error {
	var body struct {
		UserID int64  `json:"userId"`
		Handle string `json:"handle"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	if body.UserID <= 0 {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "userId is required"))
	}
	p, err := h.svc.Ensure(c.Request().Context(), body.UserID, body.Handle)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, toProfileResponse(p))
}

func (h *ProfileHandler) Get(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid user id"))
	}
	p, err := h.svc.Get(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("unknown_user", "profile not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch profile"))
	}
	return c.JSON(http.StatusOK, toProfileResponse(p))
}

func (h *ProfileHandler) SetField(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid user id"))
	}
	var body struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	if err := h.svc.SetField(c.Request().Context(), userID, body.Field, body.Value); err != nil {
		switch {
		case errors.Is(err, repository.ErrUnknownField):
			return c.JSON(http.StatusBadRequest, NewErrorResponse("unknown_field", "field is not updatable"))
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("unknown_user", "profile not found"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to update profile"))
		}
	}
	return c.NoContent(http.StatusNoContent)
}
