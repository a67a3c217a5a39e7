package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newIssuer() *Issuer {
	return &Issuer{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	}
}

func TestIssueAndParsePair(t *testing.T) {
	i := newIssuer()

	pair, err := i.IssuePair(42)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := i.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	id, err := UserID(access.Subject)
	require.NoError(t, err)
	require.Equal(t, uint(42), id)

	refresh, err := i.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, "refresh", refresh.TokenType)
	require.Equal(t, access.Subject, refresh.Subject)
}

func TestParseAccessRejectsWrongSecret(t *testing.T) {
	i := newIssuer()
	pair, err := i.IssuePair(1)
	require.NoError(t, err)

	other := newIssuer()
	other.AccessSecret = []byte("different")
	_, err = other.ParseAccess(pair.AccessToken)
	require.Error(t, err)
}

func TestParseRefreshRejectsAccessToken(t *testing.T) {
	i := newIssuer()
	// same secret for both so only the typ claim separates them
	i.RefreshSecret = i.AccessSecret

	pair, err := i.IssuePair(1)
	require.NoError(t, err)

	_, err = i.ParseRefresh(pair.AccessToken)
	require.Error(t, err)
}

func TestParseAccessRejectsExpired(t *testing.T) {
	i := newIssuer()
	i.AccessTTL = -time.Minute

	pair, err := i.IssuePair(1)
	require.NoError(t, err)

	_, err = i.ParseAccess(pair.AccessToken)
	require.Error(t, err)
}

func TestUserIDRejectsGarbage(t *testing.T) {
	_, err := UserID("not-a-number")
	require.Error(t, err)
}
