package models

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/realtyconnect/community-api/internal/hash"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Post{}))
	return db
}

func TestIDListSetSemantics(t *testing.T) {
	var l IDList

	require.True(t, l.Add(1))
	require.True(t, l.Add(2))
	require.False(t, l.Add(1), "duplicate add must be rejected")
	require.Len(t, l, 2)

	require.True(t, l.Contains(2))
	require.False(t, l.Contains(3))

	require.True(t, l.Remove(1))
	require.False(t, l.Remove(1), "removing an absent id must report false")
	require.Equal(t, IDList{2}, l)
}

func TestIDListPersistsThroughDB(t *testing.T) {
	db := newTestDB(t)

	user := User{
		Email:     "lists@example.com",
		Username:  "lists",
		Password:  "password123",
		FirstName: "List",
		LastName:  "Holder",
		Followers: IDList{7, 9},
		Following: IDList{},
	}
	require.NoError(t, db.Create(&user).Error)

	var got User
	require.NoError(t, db.First(&got, user.ID).Error)
	require.Equal(t, IDList{7, 9}, got.Followers)
	require.NotNil(t, got.Following)
	require.Empty(t, got.Following)
}

func TestBeforeSaveHashesOnce(t *testing.T) {
	db := newTestDB(t)

	user := User{
		Email:     "hash@example.com",
		Username:  "hasher",
		Password:  "password123",
		FirstName: "Ha",
		LastName:  "Sher",
	}
	require.NoError(t, db.Create(&user).Error)

	require.Empty(t, user.Password, "plaintext must be cleared after hashing")
	require.True(t, hash.CheckPassword(user.PasswordHash, "password123"))

	cost, err := bcrypt.Cost([]byte(user.PasswordHash))
	require.NoError(t, err)
	require.Equal(t, hash.Cost, cost)

	// saving without touching the password must leave the hash alone
	before := user.PasswordHash
	user.Bio = "updated"
	require.NoError(t, db.Save(&user).Error)
	require.Equal(t, before, user.PasswordHash)

	// setting a new plaintext rehashes
	user.Password = "newpassword"
	require.NoError(t, db.Save(&user).Error)
	require.NotEqual(t, before, user.PasswordHash)
	require.True(t, hash.CheckPassword(user.PasswordHash, "newpassword"))
}

func TestUniqueEmailAndUsername(t *testing.T) {
	db := newTestDB(t)

	mk := func(email, username string) error {
		return db.Create(&User{
			Email:     email,
			Username:  username,
			Password:  "password123",
			FirstName: "A",
			LastName:  "B",
		}).Error
	}

	require.NoError(t, mk("a@example.com", "alice"))
	require.ErrorIs(t, mk("a@example.com", "other"), gorm.ErrDuplicatedKey)
	require.ErrorIs(t, mk("other@example.com", "alice"), gorm.ErrDuplicatedKey)
}

func TestPaymentInfoRoundTrip(t *testing.T) {
	db := newTestDB(t)

	user := User{
		Email:     "pay@example.com",
		Username:  "payer",
		Password:  "password123",
		FirstName: "Pay",
		LastName:  "Er",
		PaymentInfo: &PaymentInfo{
			SubscriptionID:     "sub_123",
			PlanType:           "premium",
			SubscriptionStatus: "active",
		},
	}
	require.NoError(t, db.Create(&user).Error)

	var got User
	require.NoError(t, db.First(&got, user.ID).Error)
	require.NotNil(t, got.PaymentInfo)
	require.Equal(t, "sub_123", got.PaymentInfo.SubscriptionID)
	require.Equal(t, "premium", got.PaymentInfo.PlanType)
}

func TestValidInvestmentGoal(t *testing.T) {
	require.True(t, ValidInvestmentGoal("cash-flow"))
	require.True(t, ValidInvestmentGoal("land"))
	require.False(t, ValidInvestmentGoal("moonshots"))
}
