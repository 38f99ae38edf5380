package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

var (
	errNotCompactJWT = errors.New("not a compact JWT")
	jwtParser        = jwt.NewParser()
)

// parseJWT reads the header and claims without checking the signature.
func parseJWT(input string) (*jwt.Token, []string, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "Bearer "))
	if raw == "" || strings.ContainsAny(raw, " \t\r\n") {
		return nil, nil, errNotCompactJWT
	}
	return jwtParser.ParseUnverified(raw, jwt.MapClaims{})
}

// IsJWT reports whether input is a compact JWT with a JSON header naming a
// known algorithm and a JSON claims object. A "Bearer " prefix is allowed.
func IsJWT(input string) bool {
	_, _, err := parseJWT(input)
	return err == nil
}

// DecodeJWT returns the token as {"header": ..., "payload": ..., "signature": ...}.
// The signature stays base64url-encoded and is not verified.
func DecodeJWT(input string) (map[string]any, error) {
	tok, parts, err := parseJWT(input)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT: %w", err)
	}
	claims, _ := tok.Claims.(jwt.MapClaims)
	return map[string]any{
		"header":    tok.Header,
		"payload":   map[string]any(claims),
		"signature": parts[2],
	}, nil
}

func loadJWT(input string) ([]any, error) {
	decoded, err := DecodeJWT(input)
	if err != nil {
		return nil, err
	}
	return []any{decoded}, nil
}
