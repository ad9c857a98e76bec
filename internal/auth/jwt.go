// Package auth validates and mints the HMAC bearer tokens the demo service
// accepts: internal service tokens and personal access tokens (PATs).
package auth

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateInternalToken mints an HS256 token for service-to-service calls,
// signed with the internal secret.
func GenerateInternalToken(internalSecret string) (string, error) {
	if internalSecret == "" {
		return "", fmt.Errorf("InternalSecret is not configured, cannot generate internal token")
	}

	decodedSecret, err := decodeSecret(internalSecret)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"iss": "jsonapi-codec-internal",
		"sub": "jsonapi-codec-internal (TOKEN)",
		"aud": "jsonapi-codec-internal",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(30 * 24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(decodedSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign internal JWT: %w", err)
	}

	return signedToken, nil
}

// ValidateToken validates a JWT using the internal secret or the PAT secret,
// selecting between them by the token's "iss" claim. Returns the claims if
// valid.
func ValidateToken(tokenString, internalSecret, patSecret string) (jwt.MapClaims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	unverified, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := unverified.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims type")
	}

	issuer, _ := claims["iss"].(string)

	switch issuer {
	case "jsonapi-codec-internal":
		return validateHMACToken(tokenString, internalSecret, "internal secret")
	case "jsonapi-codec-pat":
		return validateHMACToken(tokenString, patSecret, "PAT secret")
	default:
		return nil, fmt.Errorf("unsupported token issuer: %s", issuer)
	}
}

func validateHMACToken(tokenString, secretStr, secretName string) (jwt.MapClaims, error) {
	if secretStr == "" {
		return nil, fmt.Errorf("%s not configured", secretName)
	}
	secret, err := decodeSecret(secretStr)
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	return token.Claims.(jwt.MapClaims), nil
}

func decodeSecret(secret string) ([]byte, error) {
	decoded, err := base64.URLEncoding.DecodeString(secret)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(secret)
		if err != nil {
			return nil, fmt.Errorf("failed to decode secret: %w", err)
		}
	}
	return decoded, nil
}
