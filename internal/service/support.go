package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"aqarat_backend/internal/model"

	"gorm.io/gorm"
)

type SupportInput struct {
	Name     string
	Email    string
	Phone    string
	Priority model.SupportPriority
	Subject  string
	Message  string
	Images   []*multipart.FileHeader
}

type SupportService struct {
	db    *gorm.DB
	media *Media
}

func NewSupportService(db *gorm.DB, media *Media) *SupportService {
	return &SupportService{db: db, media: media}
}

// Create opens a ticket. Attached images are uploaded first and removed
// again if the ticket cannot be stored.
func (s *SupportService) Create(ctx context.Context, userID uint, in SupportInput) (*model.UserSupport, error) {
	urls, err := s.media.SaveImages(ctx, in.Images, "support")
	if err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = model.PriorityLow
	}
	ticket := model.UserSupport{
		UserID:   userID,
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Priority: priority,
		Subject:  in.Subject,
		Message:  in.Message,
		Images:   urls,
		Status:   model.SupportPending,
	}
	if err := s.db.WithContext(ctx).Create(&ticket).Error; err != nil {
		s.media.Discard(ctx, urls...)
		return nil, fmt.Errorf("create support ticket: %w", err)
	}
	return &ticket, nil
}
