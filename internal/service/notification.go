package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avdeenkov/marketplace/internal/models"
	"github.com/avdeenkov/marketplace/internal/repo"
)

type NotificationService struct {
	Repo *repo.GormRepo
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	return s.Repo.ListNotifications(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.Repo.MarkNotificationRead(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: notification %s", ErrNotFound, id)
		}
		return err
	}
	return nil
}

func (s *NotificationService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.Repo.DeleteNotification(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: notification %s", ErrNotFound, id)
		}
		return err
	}
	return nil
}
