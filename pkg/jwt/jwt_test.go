package jwt

import (
	"errors"
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "clave-de-prueba"

func TestGenerateParse_ConservaClaims(t *testing.T) {
	tok, err := Generate(secret, "auditoria-soat", Claims{
		UserID:             "u-1",
		Role:               "USER",
		CodigoHabilitacion: "1100100001",
		Nombre:             "IPS Los Andes",
	}, 15)
	require.NoError(t, err)

	claims, err := Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, "1100100001", claims.CodigoHabilitacion)
	assert.Equal(t, "IPS Los Andes", claims.Nombre)
	assert.Equal(t, "auditoria-soat", claims.Issuer)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := Generate(secret, "auditoria-soat", Claims{UserID: "u-1", Role: "ADMIN"}, -5)
	require.NoError(t, err)

	_, err = Parse(secret, tok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gojwt.ErrTokenExpired))
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate(secret, "auditoria-soat", Claims{UserID: "u-1", Role: "ADMIN"}, 5)
	require.NoError(t, err)

	_, err = Parse("otra-clave", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "x", Claims{}, 5)
	assert.Error(t, err)

	_, err = Parse("", "a.b.c")
	assert.Error(t, err)
}
