// Package queue moves session events over RabbitMQ: the console publishes
// one message per sign-in, registration, sign-out and expiry, and the
// session-audit worker appends them to a log file.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iliyamo/adsaga-console/internal/session"
)

// SessionQueue is the durable queue session events are routed to.
const SessionQueue = "console.session"

func encode(ev session.Event) ([]byte, error) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	return json.Marshal(ev)
}

func decode(body []byte) (session.Event, error) {
	var ev session.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" || ev.ClientID == "" {
		return ev, fmt.Errorf("incomplete event: type=%q client=%q", ev.Type, ev.ClientID)
	}
	return ev, nil
}

// auditLine renders ev as a single human-friendly log line.
func auditLine(ev session.Event) string {
	user := ev.UserID
	if user == "" {
		user = "-"
	}
	email := ev.Email
	if email == "" {
		email = "-"
	}
	return fmt.Sprintf("[%s] Session %s | client=%s | user_id=%s | email=%q\n",
		ev.At.UTC().Format(time.RFC3339), ev.Type, ev.ClientID, user, email)
}
