package notification

import (
	"bufio"
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpath-hub/career-path-builder/internal/domain/notification"
	"github.com/careerpath-hub/career-path-builder/pkg/logger"
)

func TestBuildMessage(t *testing.T) {
	msg := string(BuildMessage("team@example.com", "alice@x.com", notification.WelcomeSubject, notification.WelcomeBody("Alice")))

	head, body, ok := strings.Cut(msg, "\r\n\r\n")
	require.True(t, ok)

	assert.Contains(t, head, "From: team@example.com\r\n")
	assert.Contains(t, head, "To: alice@x.com\r\n")
	assert.Contains(t, head, "Subject: Welcome to Career Path Builder!\r\n")
	assert.Contains(t, head, `Content-Type: text/plain; charset="UTF-8"`)

	assert.True(t, strings.HasPrefix(body, "Hi Alice,\r\n"))
	assert.Contains(t, body, "✓ Track your progress\r\n")
	assert.Contains(t, body, "Career Path Builder Team")
	assert.NotContains(t, strings.ReplaceAll(body, "\r\n", ""), "\n")
}

func TestBuildMessage_StripsHeaderInjection(t *testing.T) {
	msg := string(BuildMessage("a@b.com", "victim@x.com\r\nBcc: everyone@x.com", "s", "b"))
	assert.NotContains(t, msg, "\r\nBcc:")
}

func TestNewWelcomeSender_UnconfiguredIsNop(t *testing.T) {
	var logs bytes.Buffer
	s := NewWelcomeSender(SMTPConfig{Host: "smtp.example.com", Port: 587}, logger.New(logger.Options{Output: &logs}))

	_, isNop := s.(NopSender)
	require.True(t, isNop)
	assert.False(t, s.SendWelcome(context.Background(), "alice@x.com", "Alice"))
	assert.Contains(t, logs.String(), "not configured")
}

func TestSMTPSender_UnreachableRelayReturnsFalse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	require.NoError(t, ln.Close())

	s := NewSMTPSender(SMTPConfig{
		Host: "127.0.0.1", Port: addr.Port,
		Username: "u", Password: "p",
		Timeout: time.Second,
	}, nil)

	assert.False(t, s.SendWelcome(context.Background(), "alice@x.com", "Alice"))
}

func TestSMTPSender_SilentRelayTimesOut(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		time.Sleep(2 * time.Second)
	}()

	s := NewSMTPSender(SMTPConfig{
		Host: "127.0.0.1", Port: ln.Addr().(*net.TCPAddr).Port,
		Username: "u", Password: "p",
		Timeout: 200 * time.Millisecond,
	}, nil)

	start := time.Now()
	assert.False(t, s.SendWelcome(context.Background(), "alice@x.com", "Alice"))
	assert.Less(t, time.Since(start), 1500*time.Millisecond)
}

func TestSMTPSender_RefusesRelayWithoutSTARTTLS(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	gotMail := make(chan bool, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		_, _ = conn.Write([]byte("220 fake ESMTP\r\n"))
		sawMail := false
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				break
			}
			cmd := strings.ToUpper(strings.TrimSpace(line))
			switch {
			case strings.HasPrefix(cmd, "EHLO"):
				_, _ = conn.Write([]byte("250-fake\r\n250 AUTH PLAIN\r\n"))
			case strings.HasPrefix(cmd, "MAIL"):
				sawMail = true
				_, _ = conn.Write([]byte("250 ok\r\n"))
			case strings.HasPrefix(cmd, "QUIT"):
				_, _ = conn.Write([]byte("221 bye\r\n"))
				gotMail <- sawMail
				return
			default:
				_, _ = conn.Write([]byte("250 ok\r\n"))
			}
		}
		gotMail <- sawMail
	}()

	s := NewSMTPSender(SMTPConfig{
		Host: "127.0.0.1", Port: ln.Addr().(*net.TCPAddr).Port,
		Username: "u", Password: "p",
		Timeout: time.Second,
	}, nil)

	assert.False(t, s.SendWelcome(context.Background(), "alice@x.com", "Alice"))

	select {
	case saw := <-gotMail:
		assert.False(t, saw, "credentials and mail must not be sent in the clear")
	case <-time.After(2 * time.Second):
	}
}

func TestSMTPConfig_Sender(t *testing.T) {
	assert.Equal(t, "user@x.com", SMTPConfig{Username: "user@x.com"}.sender())
	assert.Equal(t, "from@x.com", SMTPConfig{Username: "user@x.com", From: "from@x.com"}.sender())
	assert.False(t, SMTPConfig{Host: "h", Username: "u"}.Configured())
	assert.True(t, SMTPConfig{Host: "h", Username: "u", Password: "p"}.Configured())
}

func TestSMTPSender_BreakerSkipsDeadRelay(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	require.NoError(t, ln.Close())

	var logs bytes.Buffer
	s := NewSMTPSender(SMTPConfig{
		Host: "127.0.0.1", Port: addr.Port,
		Username: "u", Password: "p",
		Timeout: time.Second,
	}, logger.New(logger.Options{Output: &logs}))

	for i := 0; i < 3; i++ {
		assert.False(t, s.SendWelcome(context.Background(), "alice@x.com", "Alice"))
	}
	assert.Contains(t, logs.String(), "breaker changed state")

	logs.Reset()
	assert.False(t, s.SendWelcome(context.Background(), "bob@x.com", "Bob"))
	assert.Contains(t, logs.String(), "mail relay unavailable")
}
