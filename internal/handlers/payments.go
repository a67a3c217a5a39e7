package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtyconnect/community-api/internal/apperr"
	authmw "github.com/realtyconnect/community-api/internal/middleware/auth"
	"github.com/realtyconnect/community-api/internal/service"
)

type PaymentHandler struct {
	Payments *service.PaymentService
}

func (h *PaymentHandler) CreateSubscription(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	var req struct {
		PlanType string `json:"planType"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.PlanType == "" {
		return apperr.Validation("planType is required")
	}

	res, err := h.Payments.CreateSubscription(c.Request().Context(), user.ID, req.PlanType)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "subscription created",
		"data": echo.Map{
			"subscriptionId": res.SubscriptionID,
			"clientSecret":   res.ClientSecret,
		},
	})
}

func (h *PaymentHandler) UpdateSubscription(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	subscriptionID := c.Param("id")
	if subscriptionID == "" {
		return apperr.Validation("subscription id is required")
	}

	var req struct {
		PlanType string `json:"planType"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.PlanType == "" {
		return apperr.Validation("planType is required")
	}

	if err := h.Payments.UpdateSubscription(c.Request().Context(), user.ID, subscriptionID, req.PlanType); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "subscription updated",
	})
}

func (h *PaymentHandler) CancelSubscription(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	subscriptionID := c.Param("id")
	if subscriptionID == "" {
		return apperr.Validation("subscription id is required")
	}

	if err := h.Payments.CancelSubscription(c.Request().Context(), user.ID, subscriptionID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "subscription canceled",
	})
}

func (h *PaymentHandler) GetPaymentMethods(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	methods, err := h.Payments.PaymentMethods(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"paymentMethods": methods},
	})
}

func (h *PaymentHandler) AddPaymentMethod(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	var req struct {
		PaymentMethodID string `json:"paymentMethodId"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.PaymentMethodID == "" {
		return apperr.Validation("paymentMethodId is required")
	}

	method, err := h.Payments.AddPaymentMethod(c.Request().Context(), user.ID, req.PaymentMethodID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "payment method added",
		"data":    echo.Map{"paymentMethod": method},
	})
}

func (h *PaymentHandler) RemovePaymentMethod(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	methodID := c.Param("id")
	if methodID == "" {
		return apperr.Validation("payment method id is required")
	}

	if err := h.Payments.RemovePaymentMethod(c.Request().Context(), user.ID, methodID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "payment method removed",
	})
}

func (h *PaymentHandler) UpdateDefaultPaymentMethod(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	var req struct {
		PaymentMethodID string `json:"paymentMethodId"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.PaymentMethodID == "" {
		return apperr.Validation("paymentMethodId is required")
	}

	method, err := h.Payments.SetDefaultPaymentMethod(c.Request().Context(), user.ID, req.PaymentMethodID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "default payment method updated",
		"data":    echo.Map{"paymentMethod": method},
	})
}

func (h *PaymentHandler) BillingHistory(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	invoices, err := h.Payments.BillingHistory(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"billingHistory": invoices},
	})
}

func (h *PaymentHandler) GetInvoice(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	invoiceID := c.Param("id")
	if invoiceID == "" {
		return apperr.Validation("invoice id is required")
	}

	invoice, err := h.Payments.Invoice(c.Request().Context(), user.ID, invoiceID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"invoice": invoice},
	})
}
