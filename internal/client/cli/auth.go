package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mkorolis/imagepoints/internal/client/auth"
)

// getToken is an indirection used to facilitate testing.
var getToken = GetToken

// Login prompts for a bearer credential (hidden input), validates it and
// persists it. A valid credential immediately refreshes the balance.
func (a *App) Login(ctx context.Context) error {
	token, err := getToken(outW)
	if err != nil {
		return err
	}

	if _, err := auth.Decode(token); err != nil {
		return fmt.Errorf("credential rejected: %w", err)
	}
	info := auth.Evaluate(token, time.Now())
	if !info.IsValid {
		return fmt.Errorf("credential rejected: expired")
	}

	if err := a.session.Set(ctx, token); err != nil {
		return err
	}
	printlnFn("Logged in as", info.Claims.DisplayName())

	if _, err := a.ledger.Refresh(ctx, a.session.AuthHeaders()); err != nil {
		printlnFn("Balance refresh failed:", err.Error())
	}
	return nil
}

// Logout clears the credential from memory and storage. The ledger is
// invalidated through the session's clear hook.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Clear(ctx); err != nil {
		return err
	}
	printlnFn("Logged out")
	return nil
}

// Status prints the credential state: user, role, issue and expiry times.
func (a *App) Status(ctx context.Context) error {
	info := a.session.Current()
	printlnFn(info.Describe())

	if info.IsValid && info.ExpiresAt != nil {
		printlnFn("Expires in:", time.Until(*info.ExpiresAt).Round(time.Second).String())
	}
	return nil
}
