package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/realtyconnect/community-api/internal/hash"
)

var InvestmentGoals = []string{"cash-flow", "appreciation", "fix-flip", "commercial", "land"}

func ValidInvestmentGoal(goal string) bool {
	for _, g := range InvestmentGoals {
		if g == goal {
			return true
		}
	}
	return false
}

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Email    string `gorm:"uniqueIndex;not null"      json:"email"`
	Username string `gorm:"uniqueIndex;not null"      json:"username"`

	// Password carries the plaintext only between binding and the BeforeSave
	// hook; it is never persisted or serialized.
	Password     string `gorm:"-"        json:"-"`
	PasswordHash string `gorm:"not null" json:"-"`

	FirstName           string     `gorm:"not null"   json:"firstName"`
	LastName            string     `gorm:"not null"   json:"lastName"`
	Avatar              string     `json:"avatar"`
	Bio                 string     `json:"bio"`
	Location            string     `json:"location"`
	InvestmentGoals     StringList `gorm:"type:text"  json:"investmentGoals"`
	TotalAssets         float64    `json:"totalAssets"`
	MonthlyRentalIncome float64    `json:"monthlyRentalIncome"`
	PropertyCount       int        `json:"propertyCount"`

	Followers IDList `gorm:"type:text" json:"followers"`
	Following IDList `gorm:"type:text" json:"following"`

	// At most one live refresh token per account; empty means revoked.
	RefreshToken string `json:"-"`

	IsPaid      bool         `json:"isPaid"`
	PaymentInfo *PaymentInfo `gorm:"type:text" json:"paymentInfo,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeSave hashes the transient plaintext exactly once per save. Saves that
// did not touch the password leave the stored hash alone.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Password == "" {
		return nil
	}
	h, err := hash.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.PasswordHash = h
	u.Password = ""
	return nil
}

type Post struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthorID uint   `gorm:"index;not null"           json:"authorId"`
	Content  string `gorm:"not null"                 json:"content"`

	Images   StringList `gorm:"type:text" json:"images"`
	Tags     StringList `gorm:"type:text" json:"tags"`
	Location string     `json:"location"`

	Likes    IDList `gorm:"type:text"    json:"likes"`
	Shares   uint   `json:"shares"`
	IsPublic bool   `gorm:"default:true" json:"isPublic"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PaymentMethod struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Brand     string `json:"brand,omitempty"`
	Last4     string `json:"last4,omitempty"`
	IsDefault bool   `json:"isDefault"`
}

type Invoice struct {
	InvoiceID string     `json:"invoiceId"`
	Amount    float64    `json:"amount"`
	Currency  string     `json:"currency"`
	Status    string     `json:"status"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type PaymentInfo struct {
	CustomerID         string          `json:"customerId,omitempty"`
	SubscriptionID     string          `json:"subscriptionId,omitempty"`
	PlanType           string          `json:"planType,omitempty"`
	SubscriptionStatus string          `json:"subscriptionStatus,omitempty"`
	CurrentPeriodStart *time.Time      `json:"currentPeriodStart,omitempty"`
	CurrentPeriodEnd   *time.Time      `json:"currentPeriodEnd,omitempty"`
	PaymentMethods     []PaymentMethod `json:"paymentMethods,omitempty"`
	BillingHistory     []Invoice       `json:"billingHistory,omitempty"`
}

func (p PaymentInfo) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (p *PaymentInfo) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("cannot scan %T into PaymentInfo", value)
	}
}
