package deliver_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/wneessen/go-mail"

	"github.com/goliatone/go-formpipe/pkg/config"
	"github.com/goliatone/go-formpipe/pkg/deliver"
	"github.com/goliatone/go-formpipe/pkg/fail"
	"github.com/goliatone/go-formpipe/pkg/render"
	"github.com/goliatone/go-formpipe/pkg/schema"
)

var testSMTP = config.SMTP{
	Host: "smtp.example.com",
	Port: 465,
	User: "sender@example.com",
	Pass: "secret",
	From: "sender@example.com",
}

func testDelivery() deliver.Delivery {
	return deliver.Delivery{
		FormID:       "form-1",
		SubmissionID: "sub-1",
		Form: schema.FormDefinition{
			ID:    "form-1",
			Title: "Trip Form",
		},
		Document: render.Result{
			HTML:        "<html></html>",
			Title:       "Trip Form",
			SubjectName: "Dana Levi",
			GroupLabel:  "Group A",
		},
		Artifact: []byte("%PDF-1.7 stub"),
	}
}

func TestEmailDeliverSendsToNotifyRecipients(t *testing.T) {
	var sent *mail.Msg
	channel, err := deliver.NewEmail(testSMTP, []string{"inbox@example.com"},
		deliver.WithSendFunc(func(_ context.Context, msg *mail.Msg) error {
			sent = msg
			return nil
		}),
		deliver.WithEmailClock(func() time.Time {
			return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
		}),
	)
	if err != nil {
		t.Fatalf("NewEmail: %v", err)
	}

	delivery := testDelivery()
	delivery.Form.NotifyRecipients = []string{"staff@example.com"}

	got, err := channel.Deliver(context.Background(), delivery)
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if sent == nil {
		t.Fatal("send func was never called")
	}

	want := deliver.Result{
		Channel:    config.ChannelEmail,
		Locator:    "Dana_Levi-Group_A-Trip_Form.pdf",
		Recipients: []string{"staff@example.com"},
		Timestamp:  time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Deliver result mismatch (-want +got):\n%s", diff)
	}

	subject := sent.GetGenHeader(mail.HeaderSubject)
	if len(subject) == 0 {
		t.Fatal("message has no subject")
	}
	wantSubject := "Chamama Forms – Trip Form – Dana Levi (Group A)"
	if subject[0] != wantSubject {
		t.Fatalf("subject = %q, want %q", subject[0], wantSubject)
	}
}

func TestEmailDeliverFallsBackToInbox(t *testing.T) {
	channel, err := deliver.NewEmail(testSMTP, []string{"inbox@example.com"},
		deliver.WithSendFunc(func(context.Context, *mail.Msg) error { return nil }),
	)
	if err != nil {
		t.Fatalf("NewEmail: %v", err)
	}

	got, err := channel.Deliver(context.Background(), testDelivery())
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if diff := cmp.Diff([]string{"inbox@example.com"}, got.Recipients); diff != "" {
		t.Fatalf("recipients mismatch (-want +got):\n%s", diff)
	}
}

func TestEmailDeliverNoRecipients(t *testing.T) {
	channel, err := deliver.NewEmail(testSMTP, nil,
		deliver.WithSendFunc(func(context.Context, *mail.Msg) error {
			t.Fatal("send func called without recipients")
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("NewEmail: %v", err)
	}

	_, err = channel.Deliver(context.Background(), testDelivery())
	if !fail.IsKind(err, fail.KindFailedPrecondition) {
		t.Fatalf("Deliver error = %v, want failed-precondition", err)
	}
}

func TestEmailDeliverSubjectOmitsEmptyParts(t *testing.T) {
	var sent *mail.Msg
	channel, err := deliver.NewEmail(testSMTP, []string{"inbox@example.com"},
		deliver.WithSendFunc(func(_ context.Context, msg *mail.Msg) error {
			sent = msg
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("NewEmail: %v", err)
	}

	delivery := testDelivery()
	delivery.Document.SubjectName = ""
	delivery.Document.GroupLabel = ""

	if _, err := channel.Deliver(context.Background(), delivery); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	subject := sent.GetGenHeader(mail.HeaderSubject)
	if len(subject) == 0 {
		t.Fatal("message has no subject")
	}
	if want := "Chamama Forms – Trip Form"; subject[0] != want {
		t.Fatalf("subject = %q, want %q", subject[0], want)
	}
}

func TestEmailNewRejectsIncompleteSMTP(t *testing.T) {
	_, err := deliver.NewEmail(config.SMTP{Host: "smtp.example.com"}, nil)
	if !fail.IsKind(err, fail.KindFailedPrecondition) {
		t.Fatalf("NewEmail error = %v, want failed-precondition", err)
	}
}
