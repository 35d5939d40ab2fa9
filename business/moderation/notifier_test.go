//go:build !integration

package moderation

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"flashMarket/domain"
)

type fakeEmailSender struct {
	sent []sentEmail
}

type sentEmail struct {
	toName  string
	toEmail string
	subject string
	message string
}

func (s *fakeEmailSender) SendEmail(toName, toEmail, subject, message string) error {
	s.sent = append(s.sent, sentEmail{toName, toEmail, subject, message})
	return nil
}

type fakeMerchantDir struct {
	profiles map[uint64]domain.MerchantProfile
}

func (d *fakeMerchantDir) FindByID(ctx context.Context, id uint64) (domain.MerchantProfile, error) {
	p, ok := d.profiles[id]
	if !ok {
		return domain.MerchantProfile{}, fmt.Errorf("merchant profile %d: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

type fakeUserDir struct {
	users map[uint]domain.User
}

func (d *fakeUserDir) FindByID(ctx context.Context, id uint) (domain.User, error) {
	u, ok := d.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

func newTestNotifier() (*emailNotifier, *fakeEmailSender) {
	sender := &fakeEmailSender{}
	products := &fakeProductDir{products: map[uint64]domain.Product{
		100: {ID: 100, Name: "Used Laptop", MerchantID: 7},
	}}
	merchants := &fakeMerchantDir{profiles: map[uint64]domain.MerchantProfile{
		7: {ID: 7, UserID: 21, BusinessName: "Toko Laptop"},
	}}
	users := &fakeUserDir{users: map[uint]domain.User{
		21: {ID: 21, FullName: "Budi", Email: "budi@example.com"},
	}}
	return NewEmailNotifier(sender, products, merchants, users), sender
}

func TestNotifyDecisionEmailsMerchant(t *testing.T) {
	notifier, sender := newTestNotifier()

	record := domain.AdmissionRecord{ID: 1, ProductID: 100, SlotID: 10}
	notifier.NotifyDecision(context.Background(), record, DecisionReject, "blurry photos")

	if len(sender.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(sender.sent))
	}
	mail := sender.sent[0]
	if mail.toEmail != "budi@example.com" {
		t.Errorf("recipient = %q, want the merchant's user email", mail.toEmail)
	}
	if mail.subject != subjectRejected {
		t.Errorf("subject = %q, want %q", mail.subject, subjectRejected)
	}
	if !strings.Contains(mail.message, "blurry photos") {
		t.Errorf("body %q is missing the moderator comment", mail.message)
	}
	if !strings.Contains(mail.message, "Used Laptop") {
		t.Errorf("body %q is missing the product name", mail.message)
	}
}

func TestNotifyDecisionRemoveSubject(t *testing.T) {
	notifier, sender := newTestNotifier()

	record := domain.AdmissionRecord{ID: 1, ProductID: 100, SlotID: 10}
	notifier.NotifyDecision(context.Background(), record, DecisionRemove, "prohibited item")

	if len(sender.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(sender.sent))
	}
	if got := sender.sent[0].subject; got != subjectRemoved {
		t.Errorf("subject = %q, want %q", got, subjectRemoved)
	}
}

func TestNotifyDecisionUnresolvableProduct(t *testing.T) {
	notifier, sender := newTestNotifier()

	record := domain.AdmissionRecord{ID: 1, ProductID: 999, SlotID: 10}
	notifier.NotifyDecision(context.Background(), record, DecisionReject, "whatever")

	if len(sender.sent) != 0 {
		t.Errorf("emails sent = %d, want none when the product cannot be resolved", len(sender.sent))
	}
}
