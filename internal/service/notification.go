package service

import (
	"context"
	"fmt"
	"log/slog"

	"claimcountdown.app/server/common/logger"
	"claimcountdown.app/server/internal/digest"
	"claimcountdown.app/server/internal/mailer"
	"claimcountdown.app/server/internal/model"
)

type NotificationService interface {
	// SendTest mails the caller a preview of their organization's most urgent
	// claims, regardless of their alert preferences.
	SendTest(ctx context.Context, identity model.Identity) error
}

type notificationService struct {
	claims  ClaimService
	builder *digest.Builder
	mailer  mailer.Mailer
}

func NewNotificationService(claims ClaimService, builder *digest.Builder, m mailer.Mailer) NotificationService {
	return &notificationService{claims: claims, builder: builder, mailer: m}
}

func (s *notificationService) SendTest(ctx context.Context, identity model.Identity) error {
	claims, err := s.claims.List(ctx, identity, ClaimFilter{})
	if err != nil {
		return err
	}

	content, err := s.builder.Test(claims)
	if err != nil {
		return fmt.Errorf("building test email: %w", err)
	}

	err = s.mailer.Send(ctx, mailer.Message{
		To:      identity.Email,
		Subject: content.Subject,
		HTML:    content.HTML,
		Text:    content.Text,
	})
	if err != nil {
		slog.ErrorContext(ctx, "test email failed",
			"to", logger.MaskEmail(identity.Email),
			"error", err)
		return ErrMailDelivery
	}

	slog.InfoContext(ctx, "test email sent", "to", logger.MaskEmail(identity.Email))
	return nil
}
