package deliver

import (
	"bytes"
	"context"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/goliatone/go-formpipe/pkg/config"
	"github.com/goliatone/go-formpipe/pkg/fail"
	"github.com/goliatone/go-formpipe/pkg/render/template"
)

// Inline templates for the outgoing message. The subject appends the
// leading answers when present so staff can triage from the inbox list.
const (
	subjectTemplate = `Chamama Forms – {{ title }}{% if subject %} – {{ subject }}{% endif %}{% if group %} ({{ group }}){% endif %}`
	bodyTemplate    = `<div dir="rtl">מצורף PDF חתום לטופס <b>{{ title }}</b>.</div>`
)

// SendFunc performs the actual SMTP send. The default dials the
// configured host; tests substitute a recorder.
type SendFunc func(ctx context.Context, msg *mail.Msg) error

// EmailChannel delivers the artifact as a mail attachment.
type EmailChannel struct {
	smtp   config.SMTP
	inbox  []string
	engine template.TemplateRenderer
	send   SendFunc
	now    func() time.Time
}

// EmailOption customises an EmailChannel.
type EmailOption func(*EmailChannel)

// WithSendFunc replaces the SMTP transport.
func WithSendFunc(send SendFunc) EmailOption {
	return func(c *EmailChannel) {
		if send != nil {
			c.send = send
		}
	}
}

// WithEmailClock injects the result timestamp clock.
func WithEmailClock(now func() time.Time) EmailOption {
	return func(c *EmailChannel) {
		if now != nil {
			c.now = now
		}
	}
}

// NewEmail constructs the email channel, failing fast when the SMTP
// transport settings are incomplete.
func NewEmail(smtp config.SMTP, inbox []string, options ...EmailOption) (*EmailChannel, error) {
	if err := (config.Config{Channel: config.ChannelEmail, SMTP: smtp}).Validate(); err != nil {
		return nil, err
	}
	engine, err := template.New()
	if err != nil {
		return nil, fail.Internal("create template engine", err)
	}

	c := &EmailChannel{
		smtp:   smtp,
		inbox:  inbox,
		engine: engine,
		now:    time.Now,
	}
	c.send = c.dialAndSend
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Name reports the channel identity.
func (c *EmailChannel) Name() config.Channel {
	return config.ChannelEmail
}

// Deliver composes and sends the message synchronously. Recipients come
// from the form's notify list, then the configured default inbox; when
// both are empty the deployment is misconfigured.
func (c *EmailChannel) Deliver(ctx context.Context, delivery Delivery) (Result, error) {
	recipients := delivery.Form.NotifyRecipients
	if len(recipients) == 0 {
		recipients = c.inbox
	}
	if len(recipients) == 0 {
		return Result{}, fail.FailedPrecondition("no recipients configured", config.EnvInbox)
	}

	data := map[string]any{
		"title":   delivery.Document.Title,
		"subject": delivery.Document.SubjectName,
		"group":   delivery.Document.GroupLabel,
	}
	subject, err := c.engine.RenderString(subjectTemplate, data)
	if err != nil {
		return Result{}, fail.Internal("render mail subject", err)
	}
	body, err := c.engine.RenderString(bodyTemplate, data)
	if err != nil {
		return Result{}, fail.Internal("render mail body", err)
	}

	fileName := AttachmentName(delivery.Document.SubjectName, delivery.Document.GroupLabel, delivery.Document.Title)

	msg := mail.NewMsg()
	if err := msg.From(c.smtp.From); err != nil {
		return Result{}, fail.Internal("set mail sender", err)
	}
	if err := msg.To(recipients...); err != nil {
		return Result{}, fail.Internal("set mail recipients", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)
	if err := msg.AttachReader(fileName, bytes.NewReader(delivery.Artifact)); err != nil {
		return Result{}, fail.Internal("attach artifact", err)
	}

	if err := c.send(ctx, msg); err != nil {
		return Result{}, fail.Internal("send mail", err)
	}

	return Result{
		Channel:    config.ChannelEmail,
		Locator:    fileName,
		Recipients: recipients,
		Timestamp:  c.now(),
	}, nil
}

func (c *EmailChannel) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	options := []mail.Option{
		mail.WithPort(c.smtp.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.smtp.User),
		mail.WithPassword(c.smtp.Pass),
		mail.WithTimeout(30 * time.Second),
	}
	// 465 is implicit TLS; other ports negotiate STARTTLS.
	if c.smtp.Port == 465 {
		options = append(options, mail.WithSSL())
	} else {
		options = append(options, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(c.smtp.Host, options...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}
