// Package notifier emails the list of outstanding assignments.
package notifier

import (
	"context"
	"fmt"
	"strings"

	"gradescope-reminder/internal/components/assert"
	"gradescope-reminder/internal/components/telemetry"
	"gradescope-reminder/internal/scrapers/gradescope"

	"github.com/jordan-wright/email"
)

const (
	report_notifier_config = "notifier.config"
	report_notifier_send   = "notifier.send"
)

const separator = "----------------------------------------"

type Notifier struct {
	config    SmtpConfig
	tel       telemetry.API
	transport transport
}

func NewNotifier(config SmtpConfig, tel telemetry.API) *Notifier {
	assert.NotNil(tel)
	return &Notifier{
		config:    config,
		tel:       telemetry.NewScopedAPI("notifier", tel),
		transport: newSmtpTransport(),
	}
}

func subject(count int) string {
	if count == 1 {
		return "Gradescope: 1 assignment still needs to be submitted"
	}
	return fmt.Sprintf("Gradescope: %d assignments still need to be submitted", count)
}

func body(assignments []gradescope.Assignment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You have %d outstanding assignment(s) on Gradescope.\n\n", len(assignments))
	for _, a := range assignments {
		fmt.Fprintf(&sb, "Course: %s\n", a.CourseName)
		fmt.Fprintf(&sb, "Assignment: %s\n", a.Name)
		fmt.Fprintf(&sb, "Status: %s\n", a.Status)
		fmt.Fprintf(&sb, "Due Date: %s\n", a.DueDate)
		fmt.Fprintf(&sb, "Link: %s\n", a.Link)
		sb.WriteString(separator)
		sb.WriteString("\n")
	}
	return sb.String()
}

func compose(params smtpParams, assignments []gradescope.Assignment) *email.Email {
	mail := email.NewEmail()
	mail.From = params.from
	mail.To = params.to
	mail.Subject = subject(len(assignments))
	mail.Text = []byte(body(assignments))
	return mail
}

// Notify sends a single email listing the given assignments. Nothing is sent when there
// are no assignments or the smtp config is incomplete, neither of which is an error.
func (n *Notifier) Notify(ctx context.Context, assignments []gradescope.Assignment) error {
	if len(assignments) == 0 {
		n.tel.ReportDebug("nothing to notify about")
		return nil
	}

	params, err := n.config.resolve()
	if err != nil {
		n.tel.ReportWarning(report_notifier_config, fmt.Errorf("skipping email: %w", err))
		return nil
	}

	err = ctx.Err()
	if err != nil {
		return err
	}

	mail := compose(params, assignments)

	if n.config.Debug {
		n.tel.ReportDebug(
			"smtp connection",
			params.addr(),
			params.mode.String(),
			params.user,
			strings.Join(params.to, ", "),
		)
		raw, err := mail.Bytes()
		if err != nil {
			n.tel.ReportDebug("failed to render email", err.Error())
		} else {
			n.tel.ReportDebug("smtp message", string(raw))
		}
	}

	err = n.transport.deliver(params, mail)
	if err != nil {
		err = fmt.Errorf("send email via %s (%s): %w", params.addr(), params.mode, err)
		n.tel.ReportBroken(report_notifier_send, err)
		return err
	}

	n.tel.ReportCount(report_notifier_send, int64(len(assignments)))
	return nil
}
