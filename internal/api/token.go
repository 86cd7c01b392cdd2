package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshMargin is the safety window subtracted from the token expiry.
// A token within 30 seconds of expiring is refreshed up front so the
// request does not race an expiry that lands mid-flight.
const refreshMargin = 30 * time.Second

// tokenExpiresBefore decodes the token's embedded exp claim without
// any network access or signature check and reports whether it falls
// before deadline. Tokens that cannot be decoded, or carry no exp,
// count as expired so the caller refreshes rather than sending a
// credential the server will reject anyway.
func tokenExpiresBefore(token string, deadline time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Before(deadline)
}
