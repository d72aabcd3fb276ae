package queue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/adsaga-console/internal/session"
)

func TestAuditLogAppendsLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	a := &AuditLog{Dir: dir}
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for _, ev := range []session.Event{
		{Type: session.EventLogin, ClientID: "c1", UserID: "7", Email: "a@b.c", At: at},
		{Type: session.EventExpired, ClientID: "c1", At: at},
	} {
		body, err := encode(ev)
		require.NoError(t, err)
		require.NoError(t, a.Handle(body))
	}

	raw, err := os.ReadFile(filepath.Join(dir, "session.log"))
	require.NoError(t, err)
	assert.Equal(t,
		"[2024-05-01T10:00:00Z] Session login | client=c1 | user_id=7 | email=\"a@b.c\"\n"+
			"[2024-05-01T10:00:00Z] Session expired | client=c1 | user_id=- | email=\"-\"\n",
		string(raw))
}

func TestAuditLogRejectsBadPayloads(t *testing.T) {
	a := &AuditLog{Dir: t.TempDir()}
	assert.Error(t, a.Handle([]byte("not json")))
	assert.Error(t, a.Handle([]byte(`{"type":"login"}`)))
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestPublishDoesNotWaitForBroker(t *testing.T) {
	p := NewPublisher("amqp://stuck", 1, quiet)
	release := make(chan struct{})
	dialing := make(chan struct{}, 1)
	p.dial = func(string, time.Duration) (*amqp.Connection, error) {
		dialing <- struct{}{}
		<-release
		return nil, errors.New("broker never answered")
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	<-dialing

	start := time.Now()
	assert.NoError(t, p.Publish(context.Background(), session.Event{Type: session.EventLogin, ClientID: "c1"}))
	err := p.Publish(context.Background(), session.Event{Type: session.EventLogout, ClientID: "c1"})
	assert.ErrorIs(t, err, ErrBufferFull)
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	cancel()
	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRunRetriesDialUntilCancelled(t *testing.T) {
	p := NewPublisher("amqp://nowhere", 4, quiet)
	attempts := make(chan struct{}, 4)
	p.dial = func(string, time.Duration) (*amqp.Connection, error) {
		attempts <- struct{}{}
		return nil, errors.New("dial refused")
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	<-attempts
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestDialGivesUpOnSilentBroker(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		// accept and hold connections without ever speaking AMQP
		var held []net.Conn
		defer func() {
			for _, c := range held {
				_ = c.Close()
			}
		}()
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			held = append(held, c)
		}
	}()

	start := time.Now()
	_, err = dial("amqp://guest:guest@"+ln.Addr().String()+"/", 300*time.Millisecond)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestEncodeStampsTime(t *testing.T) {
	body, err := encode(session.Event{Type: session.EventLogin, ClientID: "c"})
	require.NoError(t, err)
	ev, err := decode(body)
	require.NoError(t, err)
	assert.False(t, ev.At.IsZero())
}
