// Package notification describes outbound user notifications.
package notification

import (
	"context"
	"fmt"
)

// WelcomeSubject is the subject line of the registration email.
const WelcomeSubject = "Welcome to Career Path Builder!"

// WelcomeSender delivers the registration email.
//
// SendWelcome is best effort: it reports whether delivery was confirmed and
// never returns an error. Implementations log their own failures.
type WelcomeSender interface {
	SendWelcome(ctx context.Context, email, name string) bool
}

// WelcomeBody renders the fixed welcome message for a user.
func WelcomeBody(name string) string {
	return fmt.Sprintf(`Hi %s,

Welcome to Career Path Builder! 🎉

We're excited to have you on board. You can now:
✓ Explore different career paths
✓ Identify your skill gaps
✓ Get personalized learning roadmaps
✓ Track your progress

Start your journey by selecting a career path from your dashboard.

Best regards,
Career Path Builder Team
`, name)
}
