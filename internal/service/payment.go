package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/realtyconnect/community-api/internal/apperr"
	"github.com/realtyconnect/community-api/internal/logging"
	"github.com/realtyconnect/community-api/internal/models"
	"github.com/realtyconnect/community-api/internal/repo"
)

var planPrices = map[string]float64{
	"basic":      9.99,
	"premium":    29.99,
	"enterprise": 99.99,
}

func ValidPlanType(plan string) bool {
	_, ok := planPrices[plan]
	return ok
}

// PaymentService fabricates the subscription lifecycle in place of a real
// billing provider. State lives on the user record only.
type PaymentService struct {
	Repo *repo.GormRepo
}

type SubscriptionResult struct {
	SubscriptionID string
	ClientSecret   string
}

func (s *PaymentService) CreateSubscription(ctx context.Context, userID uint, planType string) (*SubscriptionResult, error) {
	l := logging.FromContext(ctx).With("svc", "payment.create_subscription", "user_id", userID)

	if !ValidPlanType(planType) {
		return nil, apperr.Validation("unknown plan type: " + planType)
	}

	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}

	now := time.Now()
	periodEnd := now.Add(30 * 24 * time.Hour)
	subID := "sub_" + uuid.NewString()
	clientSecret := "pi_" + uuid.NewString() + "_secret"

	info := user.PaymentInfo
	if info == nil {
		info = &models.PaymentInfo{}
	}
	info.SubscriptionID = subID
	info.PlanType = planType
	info.SubscriptionStatus = "active"
	info.CurrentPeriodStart = &now
	info.CurrentPeriodEnd = &periodEnd
	info.BillingHistory = append(info.BillingHistory, models.Invoice{
		InvoiceID: "in_" + uuid.NewString(),
		Amount:    planPrices[planType],
		Currency:  "USD",
		Status:    "paid",
		PaidAt:    &now,
		CreatedAt: now,
	})

	user.PaymentInfo = info
	user.IsPaid = true

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		l.Error("subscription save failed", "error", err)
		return nil, err
	}

	l.Info("subscription created", "plan", planType)
	return &SubscriptionResult{SubscriptionID: subID, ClientSecret: clientSecret}, nil
}

func (s *PaymentService) UpdateSubscription(ctx context.Context, userID uint, subscriptionID, planType string) error {
	if !ValidPlanType(planType) {
		return apperr.Validation("unknown plan type: " + planType)
	}

	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return apperr.ErrUserNotFound
		}
		return err
	}

	if user.PaymentInfo == nil || user.PaymentInfo.SubscriptionID != subscriptionID {
		return apperr.ErrForbidden
	}

	user.PaymentInfo.PlanType = planType
	return s.Repo.SaveUser(ctx, user)
}

func (s *PaymentService) CancelSubscription(ctx context.Context, userID uint, subscriptionID string) error {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return apperr.ErrUserNotFound
		}
		return err
	}

	if user.PaymentInfo == nil || user.PaymentInfo.SubscriptionID != subscriptionID {
		return apperr.ErrForbidden
	}

	user.PaymentInfo.SubscriptionStatus = "canceled"
	user.IsPaid = false
	return s.Repo.SaveUser(ctx, user)
}

func (s *PaymentService) PaymentMethods(ctx context.Context, userID uint) ([]models.PaymentMethod, error) {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}

	if user.PaymentInfo == nil || user.PaymentInfo.PaymentMethods == nil {
		return []models.PaymentMethod{}, nil
	}
	return user.PaymentInfo.PaymentMethods, nil
}

// AddPaymentMethod attaches a mocked card in place of a provider tokenized
// method. The first method on file becomes the default.
func (s *PaymentService) AddPaymentMethod(ctx context.Context, userID uint, methodID string) (*models.PaymentMethod, error) {
	l := logging.FromContext(ctx).With("svc", "payment.add_method", "user_id", userID)

	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}

	info := user.PaymentInfo
	if info == nil {
		info = &models.PaymentInfo{}
	}
	for _, m := range info.PaymentMethods {
		if m.ID == methodID {
			return nil, apperr.ErrDuplicateMethod
		}
	}

	method := models.PaymentMethod{
		ID:        methodID,
		Type:      "card",
		Brand:     "visa",
		Last4:     "4242",
		IsDefault: len(info.PaymentMethods) == 0,
	}
	info.PaymentMethods = append(info.PaymentMethods, method)
	user.PaymentInfo = info

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		l.Error("method save failed", "error", err)
		return nil, err
	}
	return &method, nil
}

// RemovePaymentMethod drops the method; when the default goes, the oldest
// remaining method takes over.
func (s *PaymentService) RemovePaymentMethod(ctx context.Context, userID uint, methodID string) error {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return apperr.ErrUserNotFound
		}
		return err
	}
	if user.PaymentInfo == nil {
		return apperr.ErrMethodNotFound
	}

	methods := user.PaymentInfo.PaymentMethods
	idx := -1
	for i, m := range methods {
		if m.ID == methodID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return apperr.ErrMethodNotFound
	}

	wasDefault := methods[idx].IsDefault
	methods = append(methods[:idx], methods[idx+1:]...)
	if wasDefault && len(methods) > 0 {
		methods[0].IsDefault = true
	}
	user.PaymentInfo.PaymentMethods = methods

	return s.Repo.SaveUser(ctx, user)
}

func (s *PaymentService) SetDefaultPaymentMethod(ctx context.Context, userID uint, methodID string) (*models.PaymentMethod, error) {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}
	if user.PaymentInfo == nil {
		return nil, apperr.ErrMethodNotFound
	}

	var chosen *models.PaymentMethod
	for i := range user.PaymentInfo.PaymentMethods {
		m := &user.PaymentInfo.PaymentMethods[i]
		m.IsDefault = m.ID == methodID
		if m.IsDefault {
			chosen = m
		}
	}
	if chosen == nil {
		return nil, apperr.ErrMethodNotFound
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return chosen, nil
}

func (s *PaymentService) Invoice(ctx context.Context, userID uint, invoiceID string) (*models.Invoice, error) {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}

	if user.PaymentInfo != nil {
		for _, inv := range user.PaymentInfo.BillingHistory {
			if inv.InvoiceID == invoiceID {
				return &inv, nil
			}
		}
	}
	return nil, apperr.ErrInvoiceNotFound
}

func (s *PaymentService) BillingHistory(ctx context.Context, userID uint) ([]models.Invoice, error) {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}

	if user.PaymentInfo == nil || user.PaymentInfo.BillingHistory == nil {
		return []models.Invoice{}, nil
	}
	return user.PaymentInfo.BillingHistory, nil
}
