package notifier

import (
	"crypto/tls"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// transport delivers a composed email, it is swapped out in tests.
type transport interface {
	deliver(params smtpParams, mail *email.Email) error
}

type sendFunc func(mail *email.Email, addr string, auth smtp.Auth, tlsConfig *tls.Config) error

type smtpTransport struct {
	implicitTLS sendFunc
	startTLS    sendFunc
}

func newSmtpTransport() smtpTransport {
	return smtpTransport{
		implicitTLS: (*email.Email).SendWithTLS,
		startTLS:    (*email.Email).SendWithStartTLS,
	}
}

func (t smtpTransport) deliver(params smtpParams, mail *email.Email) error {
	auth := smtp.PlainAuth("", params.user, params.password, params.host)
	tlsConfig := &tls.Config{ServerName: params.host}

	send := t.startTLS
	if params.mode == modeImplicitTLS {
		send = t.implicitTLS
	}
	return send(mail, params.addr(), auth, tlsConfig)
}
