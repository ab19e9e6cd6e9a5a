package auth

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"

	"wispgate/internal/structs"
)

// Tokens issues and verifies HS256-signed bearer tokens. A token stays
// valid until its embedded expiry; there is no refresh or revocation.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue signs claims with the configured TTL added as the expiry.
func (t *Tokens) Issue(claims structs.Claims, ttl time.Duration) (string, error) {
	mapClaims := jwt.MapClaims{
		"sub":      claims.Subject,
		"email":    claims.Email,
		"is_admin": claims.IsAdmin,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	if claims.ClientID != nil {
		mapClaims["client_id"] = *claims.ClientID
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims).SignedString(t.secret)
}

var errInvalidToken = structs.NewAPIError(http.StatusUnauthorized, "Token inválido")

// Verify signature-checks and decodes a token. Malformed or expired tokens
// and tokens without a subject all fail with 401.
func (t *Tokens) Verify(tokenString string) (structs.Claims, error) {
	token, err := jwt.Parse(tokenString, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return t.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return structs.Claims{}, errInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if ok {
		ok = mapClaims.Valid() == nil
	}
	if !ok {
		return structs.Claims{}, errInvalidToken
	}

	subject, _ := mapClaims["sub"].(string)
	if subject == "" {
		return structs.Claims{}, errInvalidToken
	}

	claims := structs.Claims{Subject: subject}
	claims.Email, _ = mapClaims["email"].(string)
	claims.IsAdmin, _ = mapClaims["is_admin"].(bool)
	if raw, ok := mapClaims["client_id"].(float64); ok {
		id := int64(raw)
		claims.ClientID = &id
	}

	return claims, nil
}
