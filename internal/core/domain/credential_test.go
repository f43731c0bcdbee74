package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCredential_CanRefresh(t *testing.T) {
	tests := []struct {
		name string
		cred Credential
		want bool
	}{
		{"complete", Credential{RefreshToken: "rt", ClientID: "cid"}, true},
		{"missing refresh token", Credential{ClientID: "cid"}, false},
		{"missing client id", Credential{RefreshToken: "rt"}, false},
		{"empty", Credential{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cred.CanRefresh())
		})
	}
}

func TestCredential_Expired_NoAccessToken(t *testing.T) {
	cred := Credential{RefreshToken: "rt", ClientID: "cid"}
	assert.True(t, cred.Expired(time.Now(), TokenBuffer))
}

func TestCredential_Expired_ZeroExpiry(t *testing.T) {
	cred := Credential{AccessToken: "at"}
	assert.True(t, cred.Expired(time.Now(), TokenBuffer))
}

func TestCredential_Expired_WithinBuffer(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	// Token expires in 3 minutes, buffer is 5: already expired.
	cred := Credential{
		AccessToken: "at",
		TokenExpiry: now.Add(3 * time.Minute),
	}
	assert.True(t, cred.Expired(now, TokenBuffer))
}

func TestCredential_Expired_OutsideBuffer(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cred := Credential{
		AccessToken: "at",
		TokenExpiry: now.Add(time.Hour),
	}
	assert.False(t, cred.Expired(now, TokenBuffer))
}

func TestCredential_Expired_ExactBoundary(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	// now == expiry - buffer counts as expired.
	cred := Credential{
		AccessToken: "at",
		TokenExpiry: now.Add(TokenBuffer),
	}
	assert.True(t, cred.Expired(now, TokenBuffer))
}
