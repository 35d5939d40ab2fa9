package moderation

import (
	"context"
	"fmt"

	"flashMarket/domain"
	"flashMarket/pkg/logger"
)

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(toName, toEmail, subject, message string) error
}

// MerchantDirectory contract interface
type MerchantDirectory interface {
	FindByID(ctx context.Context, id uint64) (domain.MerchantProfile, error)
}

const (
	subjectRejected = "Your listing was not approved"
	subjectRemoved  = "Your listing was removed"

	emailBodyDecision = `Halo %v, your product %q did not make it into the flash sale.</br></br>Moderator feedback: %v`
)

// emailNotifier emails the merchant the moderator's reason for a reject or
// remove decision.
type emailNotifier struct {
	notifRepo    NotificationRepository
	productRepo  ProductDirectory
	merchantRepo MerchantDirectory
	userRepo     UserDirectory
}

func NewEmailNotifier(
	notifRepo NotificationRepository,
	productRepo ProductDirectory,
	merchantRepo MerchantDirectory,
	userRepo UserDirectory,
) *emailNotifier {
	return &emailNotifier{
		notifRepo:    notifRepo,
		productRepo:  productRepo,
		merchantRepo: merchantRepo,
		userRepo:     userRepo,
	}
}

func (n *emailNotifier) NotifyDecision(ctx context.Context, record domain.AdmissionRecord, decision Decision, comment string) {
	product, err := n.productRepo.FindByID(ctx, record.ProductID)
	if err != nil {
		logger.Warn("Failed to resolve product for decision notice", err)
		return
	}

	merchant, err := n.merchantRepo.FindByID(ctx, product.MerchantID)
	if err != nil {
		logger.Warn("Failed to resolve merchant for decision notice", err)
		return
	}

	user, err := n.userRepo.FindByID(ctx, merchant.UserID)
	if err != nil {
		logger.Warn("Failed to resolve merchant user for decision notice", err)
		return
	}

	subject := subjectRejected
	if decision == DecisionRemove {
		subject = subjectRemoved
	}

	body := fmt.Sprintf(emailBodyDecision, user.FullName, product.Name, comment)
	if err := n.notifRepo.SendEmail(user.FullName, user.Email, subject, body); err != nil {
		logger.Warn("Failed to send decision notice", err)
	}
}
