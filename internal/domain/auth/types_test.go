package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessToken_Valid(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token AccessToken
		want  bool
	}{
		{"live token", AccessToken{Value: "tok", ExpiresAt: now.Add(time.Minute)}, true},
		{"expired token", AccessToken{Value: "tok", ExpiresAt: now.Add(-time.Minute)}, false},
		{"expires exactly now", AccessToken{Value: "tok", ExpiresAt: now}, false},
		{"empty value", AccessToken{ExpiresAt: now.Add(time.Minute)}, false},
		{"zero token", AccessToken{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.Valid(now))
		})
	}
}
