package mailer

import (
	"context"
	"net"
	"net/mail"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/detailpro/detailpro-backend/pkg/config"
	"github.com/detailpro/detailpro-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessageIncludesBothAlternatives(t *testing.T) {
	raw, err := BuildMessage(
		mail.Address{Name: "DetailPro", Address: "quotes@detailpro.test"},
		mail.Address{Address: "jane@example.com"},
		Message{Subject: "Your Quote from Shine Co", ReplyTo: "owner@shine.test", HTML: "<p>Total $120</p>", Text: "Total $120"},
	)
	require.NoError(t, err)
	body := string(raw)
	assert.Contains(t, body, "Subject: Your Quote from Shine Co\r\n")
	assert.Contains(t, body, "Reply-To: <owner@shine.test>\r\n")
	assert.Contains(t, body, "multipart/alternative")
	assert.Contains(t, body, "text/plain; charset=utf-8")
	assert.Contains(t, body, "<p>Total $120</p>")
}

func TestBuildMessageRejectsEmptyBody(t *testing.T) {
	_, err := BuildMessage(mail.Address{Address: "a@b.c"}, mail.Address{Address: "d@e.f"}, Message{Subject: "x"})
	assert.Error(t, err)
}

func TestNewFallsBackToLogMailer(t *testing.T) {
	m := New(config.MailConfig{}, logger.Nop())
	_, ok := m.(*LogMailer)
	require.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), Message{To: "jane@example.com", Text: "hi"}))
	assert.Error(t, m.Send(context.Background(), Message{To: "not-an-email", Text: "hi"}))
}

func TestSMTPMailerSendsThroughServer(t *testing.T) {
	client, server := net.Pipe()
	received := make(chan string, 1)
	go fakeSMTPServer(t, server, received)

	m := NewSMTPMailer(config.MailConfig{
		Host:        "smtp.test",
		Port:        587,
		FromAddress: "quotes@detailpro.test",
		FromName:    "DetailPro",
		Timeout:     5 * time.Second,
	})
	m.dial = func(context.Context, string) (net.Conn, error) { return client, nil }

	err := m.Send(context.Background(), Message{
		To:      "jane@example.com",
		Subject: "Your Quote from Shine Co",
		Text:    "Total $120",
		HTML:    "<p>Total $120</p>",
	})
	require.NoError(t, err)

	select {
	case data := <-received:
		assert.Contains(t, data, "Total $120")
	case <-time.After(5 * time.Second):
		t.Fatal("server never received DATA")
	}
}

func TestSMTPMailerRejectsBadRecipient(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{Host: "smtp.test", Port: 25})
	m.dial = func(context.Context, string) (net.Conn, error) {
		t.Fatal("should not dial")
		return nil, nil
	}
	assert.Error(t, m.Send(context.Background(), Message{To: "nope", Text: "x"}))
}

func fakeSMTPServer(t *testing.T, conn net.Conn, received chan<- string) {
	t.Helper()
	defer conn.Close()
	tp := textproto.NewConn(conn)
	reply := func(line string) { _ = tp.PrintfLine("%s", line) }

	reply("220 smtp.test ready")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		cmd := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
		switch cmd {
		case "EHLO", "HELO":
			reply("250-smtp.test")
			reply("250 8BITMIME")
		case "MAIL", "RCPT":
			reply("250 ok")
		case "DATA":
			reply("354 go ahead")
			lines, err := tp.ReadDotLines()
			if err != nil {
				return
			}
			received <- strings.Join(lines, "\n")
			reply("250 queued")
		case "QUIT":
			reply("221 bye")
			return
		default:
			reply("502 unsupported")
		}
	}
}
