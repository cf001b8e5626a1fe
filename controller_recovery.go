package authgate

import (
	"context"

	"github.com/MrEthical07/authgate/location"
)

// AdoptRecoveryTokens describes the adoptrecoverytokens operation and its observable behavior.
//
// AdoptRecoveryTokens may return an error when input validation, dependency calls, or security checks fail.
// It eagerly installs a session from token material found in the current
// navigation so a later password update can authenticate. The return value
// reports whether a usable pair was present at all; (false, nil) means the
// navigation simply carried no tokens. Token presence here is independent
// of the recovery marker that drives RecoveryPending.
func (c *Controller) AdoptRecoveryTokens(ctx context.Context) (bool, error) {
	if err := c.beginOp(); err != nil {
		return false, err
	}
	defer c.endOp()

	pair, ok := c.locationTokens()
	if !ok {
		return false, nil
	}

	if err := c.identity.SetSession(ctx, pair.AccessToken, pair.RefreshToken); err != nil {
		return true, mapIdentityError(err)
	}

	return true, nil
}

// ConfirmRecovery describes the confirmrecovery operation and its observable behavior.
//
// ConfirmRecovery may return an error when input validation, dependency calls, or security checks fail.
// Local validation (password match, minimum length) runs before any network
// call and fails fast with zero identity-service interaction. When tokens
// is nil the navigation is consulted; an explicit pair wins over the
// location. On success the recovery markers are stripped from the visible
// address and the state machine transitions to Authenticated.
func (c *Controller) ConfirmRecovery(ctx context.Context, newPassword, confirmPassword string, tokens *TokenPair) error {
	if err := c.beginOp(); err != nil {
		return err
	}
	defer c.endOp()

	if newPassword != confirmPassword {
		c.metricInc(MetricRecoveryValidationRejected)
		return ErrPasswordMismatch
	}
	if len(newPassword) < c.config.Password.MinLength {
		c.metricInc(MetricRecoveryValidationRejected)
		return ErrPasswordTooShort
	}

	pair, havePair := TokenPair{}, false
	if tokens != nil {
		pair, havePair = *tokens, true
	} else {
		pair, havePair = c.locationTokens()
	}

	if havePair {
		if err := c.identity.SetSession(ctx, pair.AccessToken, pair.RefreshToken); err != nil {
			return c.failRecovery(ctx, mapIdentityError(err))
		}
	} else if _, ok := c.sessions.Current(); !ok {
		// Marker-flagged navigation without tokens and without an already
		// established session cannot authenticate the password update.
		return c.failRecovery(ctx, ErrInvalidToken)
	}

	if err := c.identity.UpdateUser(ctx, UserUpdate{Password: newPassword}); err != nil {
		return c.failRecovery(ctx, mapIdentityError(err))
	}

	if c.navigator != nil {
		raw := c.navigator.Location()
		c.navigator.ReplaceLocation(location.StripRecoveryParams(raw))
	}

	c.mu.Lock()
	c.recoveryPending = false
	c.mode = ModeSignIn
	c.mu.Unlock()

	userID := ""
	if sess, ok := c.sessions.Current(); ok {
		userID = sess.UserID
	}

	c.metricInc(MetricRecoveryConfirmSuccess)
	c.emitAudit(ctx, AuditEvent{
		EventType: auditEventRecoveryConfirm,
		UserID:    userID,
		Success:   true,
	})

	return nil
}

func (c *Controller) failRecovery(ctx context.Context, err error) error {
	c.metricInc(MetricRecoveryConfirmFailure)
	c.emitAudit(ctx, AuditEvent{
		EventType: auditEventRecoveryConfirm,
		Error:     err.Error(),
	})
	return err
}

func (c *Controller) locationTokens() (TokenPair, bool) {
	if c.navigator == nil {
		return TokenPair{}, false
	}
	pair, ok := location.Tokens(c.navigator.Location())
	if !ok {
		return TokenPair{}, false
	}
	return TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, true
}
