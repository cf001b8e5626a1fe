package authgate

import "context"

// RequestPasswordReset describes the requestpasswordreset operation and its observable behavior.
//
// RequestPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// Unknown addresses are indistinguishable from known ones: the identity
// service reports success either way so account existence never leaks. No
// local state changes on success; the flow resumes when the user follows
// the mailed recovery link.
func (c *Controller) RequestPasswordReset(ctx context.Context, email string) error {
	if err := c.beginOp(); err != nil {
		return err
	}
	defer c.endOp()

	if err := c.identity.ResetPasswordForEmail(ctx, email, c.config.Recovery.RedirectTarget); err != nil {
		err = mapIdentityError(err)
		c.emitAudit(ctx, AuditEvent{
			EventType: auditEventResetRequest,
			Email:     email,
			Error:     err.Error(),
		})
		return err
	}

	c.metricInc(MetricResetRequested)
	c.emitAudit(ctx, AuditEvent{
		EventType: auditEventResetRequest,
		Email:     email,
		Success:   true,
	})

	return nil
}
