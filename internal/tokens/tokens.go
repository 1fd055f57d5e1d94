package tokens

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Sign creates an HS256 signed token carrying the given claims.
func Sign(secret string, claims jwt.MapClaims) (string, error) {
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(secret))
}

// Parse verifies the signature and returns the token's claims. Only HMAC
// signed tokens are accepted.
func Parse(secret string, raw string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
