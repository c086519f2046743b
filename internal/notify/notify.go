package notify

import (
	"crypto/tls"
	"fmt"
	"html"
	"log"
	"sync"

	"gopkg.in/gomail.v2"

	"medcamp/internal/model"
)

// Message is one outgoing email.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Mailer sends a single message.
type Mailer interface {
	Send(msg Message) error
}

// SMTPConfig configures the SMTP mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer returns a mailer, or nil when no host is configured.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.Host == "" {
		return nil
	}
	return &SMTPMailer{cfg: cfg}
}

// Send delivers msg.
func (m *SMTPMailer) Send(msg Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.cfg.From)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTMLBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: m.cfg.Host}
	return d.DialAndSend(gm)
}

// DecisionMessage builds the email telling a submitter their camp was reviewed.
func DecisionMessage(to, campName string, status model.CampStatus) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Your medical camp %q was %s", campName, status),
		HTMLBody: fmt.Sprintf(
			`<p>Hello,</p><p>Your medical camp submission <b>%s</b> has been <b>%s</b> by the review team.</p>`,
			html.EscapeString(campName), status),
	}
}

// Dispatcher sends mail from a background worker so requests never wait on SMTP.
// When the queue is full it sends synchronously instead of dropping the message.
type Dispatcher struct {
	mailer Mailer
	queue  chan Message

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDispatcher starts a worker. A nil mailer yields a dispatcher that discards messages.
func NewDispatcher(mailer Mailer, buffer int) *Dispatcher {
	d := &Dispatcher{
		mailer: mailer,
		queue:  make(chan Message, buffer),
		done:   make(chan struct{}),
	}
	if mailer == nil {
		close(d.done)
		return d
	}
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for msg := range d.queue {
		d.send(msg)
	}
}

func (d *Dispatcher) send(msg Message) {
	if err := d.mailer.Send(msg); err != nil {
		log.Printf("notify: send to %s failed: %v", msg.To, err)
	}
}

// Enqueue schedules msg for delivery. It never returns an error; failures are logged.
func (d *Dispatcher) Enqueue(msg Message) {
	if d == nil || d.mailer == nil || msg.To == "" {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	select {
	case d.queue <- msg:
	default:
		d.send(msg)
	}
}

// Close stops accepting messages and waits for queued ones to be sent.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}
