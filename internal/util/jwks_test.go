package util

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"math/big"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b64(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func TestJWKToPEMVerifiesECDSATokens(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	jwks, err := ParseJWKS([]byte(`{"keys":[{"kty":"EC","kid":"k1","use":"sig","alg":"ES256","crv":"P-256","x":"` +
		b64(priv.X.Bytes()) + `","y":"` + b64(priv.Y.Bytes()) + `"}]}`))
	require.NoError(t, err)
	key, err := jwks.Find("")
	require.NoError(t, err)
	pemBytes, err := key.PEM()
	require.NoError(t, err)

	claims := Claims{Email: "u@example.com", StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(priv)
	require.NoError(t, err)

	got, err := ValidateJWT(signed, string(pemBytes))
	require.NoError(t, err)
	assert.Equal(t, "u@example.com", got.Email)
}

func TestJWKRSA(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	key := JWK{Kty: "RSA", N: b64(priv.N.Bytes()), E: b64(big.NewInt(int64(priv.E)).Bytes())}
	pub, err := key.PublicKey()
	require.NoError(t, err)
	rsaPub, ok := pub.(*rsa.PublicKey)
	require.True(t, ok)
	assert.Equal(t, 0, priv.N.Cmp(rsaPub.N))
	assert.Equal(t, priv.E, rsaPub.E)

	pemBytes, err := key.PEM()
	require.NoError(t, err)
	_, err = jwt.ParseRSAPublicKeyFromPEM(pemBytes)
	assert.NoError(t, err)
}

func TestJWKSErrors(t *testing.T) {
	_, err := ParseJWKS([]byte(`{"keys":[]}`))
	assert.Error(t, err)
	_, err = ParseJWKS([]byte(`not json`))
	assert.Error(t, err)

	jwks, err := ParseJWKS([]byte(`{"keys":[{"kty":"oct","kid":"a"}]}`))
	require.NoError(t, err)
	_, err = jwks.Find("missing")
	assert.Error(t, err)
	key, err := jwks.Find("a")
	require.NoError(t, err)
	_, err = key.PEM()
	assert.Error(t, err)

	_, err = (&JWK{Kty: "EC", Crv: "P-192"}).PublicKey()
	assert.Error(t, err)
}
