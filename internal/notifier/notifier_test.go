package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gradescope-reminder/internal/components/telemetry"
	"gradescope-reminder/internal/scrapers/gradescope"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/require"
)

type sent struct {
	params smtpParams
	mail   *email.Email
}

type fakeTransport struct {
	sent []sent
	err  error
}

func (f *fakeTransport) deliver(params smtpParams, mail *email.Email) error {
	f.sent = append(f.sent, sent{params: params, mail: mail})
	return f.err
}

func newTestNotifier(config SmtpConfig) (*Notifier, *fakeTransport, *telemetry.Recorder) {
	tel := telemetry.NewRecorder()
	fake := &fakeTransport{}
	n := NewNotifier(config, tel)
	n.transport = fake
	return n, fake, tel
}

var completeConfig = SmtpConfig{
	Host:     "smtp.example.com",
	User:     "bot@example.com",
	Password: "app-password",
	To:       "student@example.edu",
}

var outstanding = []gradescope.Assignment{
	{
		Name:       "HW1",
		Link:       "https://www.gradescope.com/courses/1/assignments/1",
		Status:     "No Submission",
		DueDate:    "Sep 08 at 11:59PM",
		CourseName: "CS101 - Fall 2024",
	},
	{
		Name:       "Lab 2",
		Link:       "https://www.gradescope.com/courses/2/assignments/9",
		Status:     "No Submission",
		DueDate:    "Sep 10 at 11:59PM",
		CourseName: "PHYS 404 - Spring 2024",
	},
}

func TestNoAssignmentsSendsNothing(t *testing.T) {
	n, fake, _ := newTestNotifier(completeConfig)
	require.NoError(t, n.Notify(context.Background(), nil))
	require.NoError(t, n.Notify(context.Background(), []gradescope.Assignment{}))
	require.Empty(t, fake.sent)
}

func TestIncompleteConfig(t *testing.T) {
	cases := []struct {
		name   string
		config SmtpConfig
	}{
		{name: "empty", config: SmtpConfig{}},
		{name: "no host", config: SmtpConfig{User: "a", Password: "b", To: "c"}},
		{name: "no password", config: SmtpConfig{Host: "h", User: "a", To: "c"}},
		{name: "no recipient", config: SmtpConfig{Host: "h", User: "a", Password: "b", To: " , "}},
		{name: "bad port", config: SmtpConfig{Host: "h", User: "a", Password: "b", To: "c", Port: "smtp"}},
		{name: "port out of range", config: SmtpConfig{Host: "h", User: "a", Password: "b", To: "c", Port: "70000"}},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			n, fake, tel := newTestNotifier(test.config)
			require.NoError(t, n.Notify(context.Background(), outstanding))
			require.Empty(t, fake.sent)
			require.True(t, tel.Has(telemetry.REPORT_WARNING, report_notifier_config))
		})
	}
}

func TestResolveDefaults(t *testing.T) {
	params, err := completeConfig.resolve()
	require.NoError(t, err)
	require.Equal(t, 465, params.port)
	require.Equal(t, modeImplicitTLS, params.mode)
	require.Equal(t, "bot@example.com", params.from)
	require.Equal(t, "smtp.example.com:465", params.addr())

	config := completeConfig
	config.Port = "587"
	config.From = "Reminders <reminders@example.com>"
	config.To = "a@example.com, b@example.com"
	params, err = config.resolve()
	require.NoError(t, err)
	require.Equal(t, modeStartTLS, params.mode)
	require.Equal(t, "Reminders <reminders@example.com>", params.from)
	require.Equal(t, []string{"a@example.com", "b@example.com"}, params.to)
}

func TestNotifySendsOneEmail(t *testing.T) {
	n, fake, tel := newTestNotifier(completeConfig)
	require.NoError(t, n.Notify(context.Background(), outstanding))
	require.Len(t, fake.sent, 1)

	mail := fake.sent[0].mail
	require.Equal(t, "bot@example.com", mail.From)
	require.Equal(t, []string{"student@example.edu"}, mail.To)
	require.Contains(t, mail.Subject, "2 assignments")

	text := string(mail.Text)
	for _, a := range outstanding {
		require.Contains(t, text, "Course: "+a.CourseName)
		require.Contains(t, text, "Assignment: "+a.Name)
		require.Contains(t, text, "Status: "+a.Status)
		require.Contains(t, text, "Due Date: "+a.DueDate)
		require.Contains(t, text, "Link: "+a.Link)
	}
	require.Equal(t, len(outstanding), strings.Count(text, separator))

	require.Empty(t, tel.Reports(telemetry.REPORT_BROKEN))
}

func TestNotifySingular(t *testing.T) {
	n, fake, _ := newTestNotifier(completeConfig)
	require.NoError(t, n.Notify(context.Background(), outstanding[:1]))
	require.Len(t, fake.sent, 1)
	require.Contains(t, fake.sent[0].mail.Subject, "1 assignment still needs")
}

func TestNotifyDeliveryError(t *testing.T) {
	n, fake, tel := newTestNotifier(completeConfig)
	fake.err = errors.New("535 authentication failed")

	err := n.Notify(context.Background(), outstanding)
	require.Error(t, err)
	require.Contains(t, err.Error(), "535 authentication failed")
	require.True(t, tel.Has(telemetry.REPORT_BROKEN, report_notifier_send))
}

func TestNotifyDebugTranscript(t *testing.T) {
	config := completeConfig
	config.Debug = true
	n, fake, tel := newTestNotifier(config)
	require.NoError(t, n.Notify(context.Background(), outstanding))
	require.Len(t, fake.sent, 1)

	require.True(t, tel.Has(telemetry.REPORT_DEBUG, "smtp connection"))
	require.True(t, tel.Has(telemetry.REPORT_DEBUG, "smtp message"))
}

func TestNotifyCancelled(t *testing.T) {
	n, fake, _ := newTestNotifier(completeConfig)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.Notify(ctx, outstanding)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, fake.sent)
}
