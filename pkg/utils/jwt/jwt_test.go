package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateToken(42, "user@example.com", "wallfan")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "wallfan", claims.Username)
}

func TestValidateMalformedToken(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpiredToken(t *testing.T) {
	expired := gojwt.NewWithClaims(gojwt.SigningMethodHS256, Claims{
		UserID: 42,
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  gojwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	})
	tokenString, err := expired.SignedString(jwtSecret)
	assert.NoError(t, err)

	_, err = ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateWrongSignature(t *testing.T) {
	forged := gojwt.NewWithClaims(gojwt.SigningMethodHS256, Claims{
		UserID: 42,
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenString, err := forged.SignedString([]byte("some-other-secret"))
	assert.NoError(t, err)

	_, err = ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
