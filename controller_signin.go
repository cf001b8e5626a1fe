package authgate

import "context"

// SignIn describes the signin operation and its observable behavior.
//
// SignIn may return an error when input validation, dependency calls, or security checks fail.
// SignIn causes exactly one identity-service request per submission; any
// failure leaves the session absent and the operation retryable.
func (c *Controller) SignIn(ctx context.Context, email, password string) error {
	if err := c.beginOp(); err != nil {
		return err
	}
	defer c.endOp()

	if err := c.identity.SignInWithPassword(ctx, email, password); err != nil {
		err = mapIdentityError(err)
		c.metricInc(MetricSignInFailure)
		c.emitAudit(ctx, AuditEvent{
			EventType: auditEventSignIn,
			Email:     email,
			Error:     err.Error(),
		})
		return err
	}

	c.metricInc(MetricSignInSuccess)
	c.emitAudit(ctx, AuditEvent{
		EventType: auditEventSignIn,
		Email:     email,
		Success:   true,
	})

	return nil
}

// SignOut describes the signout operation and its observable behavior.
//
// SignOut may return an error when input validation, dependency calls, or security checks fail.
// The session store is cleared through the identity notification path, so
// every subscriber observes the sign-out in order.
func (c *Controller) SignOut(ctx context.Context) error {
	if err := c.beginOp(); err != nil {
		return err
	}
	defer c.endOp()

	userID := ""
	if sess, ok := c.sessions.Current(); ok {
		userID = sess.UserID
	}

	if err := c.identity.SignOut(ctx); err != nil {
		return mapIdentityError(err)
	}

	c.metricInc(MetricSignOut)
	c.emitAudit(ctx, AuditEvent{
		EventType: auditEventSignOut,
		UserID:    userID,
		Success:   true,
	})

	return nil
}
