package authgate

import "context"

// SignUp describes the signup operation and its observable behavior.
//
// SignUp may return an error when input validation, dependency calls, or security checks fail.
// On success the identity service sends a verification mail embedding the
// configured redirect target; no session is established until the user
// confirms the address and signs in.
func (c *Controller) SignUp(ctx context.Context, email, password string) error {
	if err := c.beginOp(); err != nil {
		return err
	}
	defer c.endOp()

	if err := c.identity.SignUp(ctx, email, password, c.config.Recovery.SignUpRedirectTarget); err != nil {
		err = mapIdentityError(err)
		c.metricInc(MetricSignUpFailure)
		c.emitAudit(ctx, AuditEvent{
			EventType: auditEventSignUp,
			Email:     email,
			Error:     err.Error(),
		})
		return err
	}

	c.metricInc(MetricSignUpSuccess)
	c.emitAudit(ctx, AuditEvent{
		EventType: auditEventSignUp,
		Email:     email,
		Success:   true,
	})

	return nil
}
