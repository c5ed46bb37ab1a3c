package jwt_test

import (
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/perfumes-admin-api/pkg/jwt"
)

const secret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, 42, "vale", "ADMIN", "perfumes-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, username, role, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "vale", username)
	assert.Equal(t, "ADMIN", role)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", 1, "x", "ADMIN", "i", 60)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, 1, "x", "ADMIN", "i", -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, 1, "x", "ADMIN", "i", 60)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestParse_SubjectNoNumerico(t *testing.T) {
	claims := pkgjwt.Claims{RegisteredClaims: gojwt.RegisteredClaims{Subject: "abc"}}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err)
}
