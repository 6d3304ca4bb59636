package notifier

import (
	"fmt"
	"strconv"
	"strings"
)

const DefaultPort = "465"

// SmtpConfig is how the reminder email gets delivered, every field but From, Port and
// Debug is required for an email to be sent.
type SmtpConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	// To may hold several comma separated addresses.
	To    string `json:"to"`
	From  string `json:"from"`
	Debug bool   `json:"debug"`
}

type deliveryMode int

const (
	modeImplicitTLS deliveryMode = iota
	modeStartTLS
)

func (m deliveryMode) String() string {
	switch m {
	case modeImplicitTLS:
		return "implicit tls"
	case modeStartTLS:
		return "starttls"
	}
	return "unknown"
}

type smtpParams struct {
	host     string
	port     int
	user     string
	password string
	to       []string
	from     string
	mode     deliveryMode
}

func (p smtpParams) addr() string {
	return fmt.Sprintf("%s:%d", p.host, p.port)
}

func splitAddresses(value string) []string {
	var out []string
	for _, addr := range strings.Split(value, ",") {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// resolve fills in the defaults and reports what is missing or malformed.
func (c SmtpConfig) resolve() (smtpParams, error) {
	var missing []string
	host := strings.TrimSpace(c.Host)
	if host == "" {
		missing = append(missing, "host")
	}
	user := strings.TrimSpace(c.User)
	if user == "" {
		missing = append(missing, "user")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	to := splitAddresses(c.To)
	if len(to) == 0 {
		missing = append(missing, "to")
	}
	if len(missing) > 0 {
		return smtpParams{}, fmt.Errorf("smtp config is missing %s", strings.Join(missing, ", "))
	}

	portText := strings.TrimSpace(c.Port)
	if portText == "" {
		portText = DefaultPort
	}
	port, err := strconv.Atoi(portText)
	if err != nil || port <= 0 || port > 65535 {
		return smtpParams{}, fmt.Errorf("smtp port '%s' is not a valid port", c.Port)
	}

	from := strings.TrimSpace(c.From)
	if from == "" {
		from = user
	}

	mode := modeStartTLS
	if port == 465 {
		mode = modeImplicitTLS
	}

	return smtpParams{
		host:     host,
		port:     port,
		user:     user,
		password: c.Password,
		to:       to,
		from:     from,
		mode:     mode,
	}, nil
}
