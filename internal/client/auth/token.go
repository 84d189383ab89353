// Package auth owns the bearer-credential lifecycle for the imagepoints
// client: decoding the compact token into claims, checking expiry, and the
// Session object that persists, re-validates and clears the credential.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mkorolis/imagepoints/internal/common"
)

// Claims carries the identity fields decoded from a credential. Extra holds
// passthrough claims not mapped to a named field.
type Claims struct {
	Subject   string
	Email     string
	Name      string
	Role      string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
	Extra     map[string]any
}

// TokenInfo is the result of evaluating a credential at a point in time.
// Validity is re-evaluated on every call, never cached across time.
type TokenInfo struct {
	Token     string
	Claims    *Claims
	IsValid   bool
	IsExpired bool
	ExpiresAt *time.Time
	IssuedAt  *time.Time
}

// Decode splits the compact token into its three structural segments and
// decodes the payload without verifying the signature. The client never
// holds the signing key; the remote services are the verifying parties.
//
// Returns common.ErrMalformedToken when the segment count is wrong and
// common.ErrInvalidEncoding when the payload is not valid encoded JSON.
func Decode(token string) (*Claims, error) {
	if len(strings.Split(token, ".")) != 3 {
		return nil, common.ErrMalformedToken
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, common.ErrInvalidEncoding
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, common.ErrInvalidEncoding
	}

	c := &Claims{Extra: map[string]any{}}
	for k, v := range mc {
		switch k {
		case "sub":
			c.Subject, _ = v.(string)
		case "email":
			c.Email, _ = v.(string)
		case "name":
			c.Name, _ = v.(string)
		case "role":
			c.Role, _ = v.(string)
		case "exp":
			if d, err := mc.GetExpirationTime(); err == nil && d != nil {
				t := d.Time
				c.ExpiresAt = &t
			}
		case "iat":
			if d, err := mc.GetIssuedAt(); err == nil && d != nil {
				t := d.Time
				c.IssuedAt = &t
			}
		default:
			c.Extra[k] = v
		}
	}
	return c, nil
}

// IsExpired reports whether the claim set is expired at the given time.
// A missing expiry claim counts as expired (fail closed).
func IsExpired(c *Claims, now time.Time) bool {
	if c == nil || c.ExpiresAt == nil {
		return true
	}
	return !c.ExpiresAt.After(now)
}

// Evaluate combines Decode with the expiry check. It is pure and never
// fails: an undecodable token yields a TokenInfo with nil Claims and
// IsValid=false.
func Evaluate(token string, now time.Time) TokenInfo {
	claims, err := Decode(token)
	if err != nil {
		return TokenInfo{Token: token, IsExpired: true}
	}

	expired := IsExpired(claims, now)
	return TokenInfo{
		Token:     token,
		Claims:    claims,
		IsValid:   !expired,
		IsExpired: expired,
		ExpiresAt: claims.ExpiresAt,
		IssuedAt:  claims.IssuedAt,
	}
}

// DisplayName picks the best human-readable identity from the claims.
func (c *Claims) DisplayName() string {
	if c == nil {
		return "Unknown"
	}
	for _, s := range []string{c.Name, c.Email, c.Subject} {
		if s != "" {
			return s
		}
	}
	return "Unknown"
}

// Describe renders the token state for the status command.
func (i TokenInfo) Describe() string {
	if i.Claims == nil {
		return "Invalid token"
	}

	status := "Invalid"
	if i.IsValid {
		status = "Valid"
	}
	role := i.Claims.Role
	if role == "" {
		role = "Not specified"
	}
	issued := "Unknown"
	if i.IssuedAt != nil {
		issued = i.IssuedAt.Local().Format(time.RFC1123)
	}
	expires := "Never"
	if i.ExpiresAt != nil {
		expires = i.ExpiresAt.Local().Format(time.RFC1123)
	}

	return fmt.Sprintf("Status: %s\nUser: %s\nRole: %s\nIssued: %s\nExpires: %s",
		status, i.Claims.DisplayName(), role, issued, expires)
}
