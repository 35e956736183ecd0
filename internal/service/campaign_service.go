package service

import (
	"context"
	"strings"
	"time"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/metrics"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/queue"
	"github.com/petshop-next/internal/repository"
)

// CampaignService 优惠码群发服务，群发不会占用优惠码使用次数
type CampaignService struct {
	campaignRepo   repository.CampaignRepository
	promoRepo      repository.PromoCodeRepository
	userRepo       repository.UserRepository
	subscriberRepo repository.SubscriberRepository
	notifier       NotificationSink
	metrics        *metrics.Checkout
}

// NewCampaignService 创建群发服务
func NewCampaignService(
	campaignRepo repository.CampaignRepository,
	promoRepo repository.PromoCodeRepository,
	userRepo repository.UserRepository,
	subscriberRepo repository.SubscriberRepository,
	notifier NotificationSink,
	checkoutMetrics *metrics.Checkout,
) *CampaignService {
	return &CampaignService{
		campaignRepo:   campaignRepo,
		promoRepo:      promoRepo,
		userRepo:       userRepo,
		subscriberRepo: subscriberRepo,
		notifier:       notifier,
		metrics:        checkoutMetrics,
	}
}

// SendCampaignInput 群发输入
type SendCampaignInput struct {
	SenderID    uint
	PromoCodeID uint
	Subject     string
	Body        string
	Audience    string
}

// Send 向受众逐个入队邮件任务，并记录实际入队人数
func (s *CampaignService) Send(ctx context.Context, input SendCampaignInput) (*models.PromoCampaign, error) {
	subject := strings.TrimSpace(input.Subject)
	audience := strings.ToLower(strings.TrimSpace(input.Audience))
	if subject == "" || input.PromoCodeID == 0 {
		return nil, ErrCampaignInvalid
	}
	if !sinkEnabled(s.notifier) {
		return nil, ErrEmailServiceDisabled
	}
	promo, err := s.promoRepo.GetByID(input.PromoCodeID)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrPromoNotFound
	}

	recipients, err := s.resolveRecipients(audience)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	campaign := &models.PromoCampaign{
		PromoCodeID: promo.ID,
		SenderID:    input.SenderID,
		Subject:     subject,
		Body:        strings.TrimSpace(input.Body),
		Audience:    audience,
		SentAt:      time.Now(),
	}
	if err := s.campaignRepo.Create(campaign); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	enqueued := 0
	for _, email := range recipients {
		err := s.notifier.EnqueueCampaignEmail(queue.CampaignEmailPayload{
			CampaignID: campaign.ID,
			Email:      email,
			Code:       promo.Code,
			Subject:    campaign.Subject,
			Body:       campaign.Body,
		})
		if err != nil {
			s.metrics.IncNotificationFailure(constants.TaskCampaignEmail)
			log.Warnw("campaign_enqueue_email_failed",
				"campaign_id", campaign.ID,
				"email", email,
				"error", err,
			)
			continue
		}
		enqueued++
	}
	campaign.RecipientCount = enqueued
	if err := s.campaignRepo.UpdateRecipientCount(campaign.ID, enqueued); err != nil {
		return nil, err
	}
	s.metrics.AddCampaignEnqueued(enqueued)
	log.Infow("campaign_sent",
		"campaign_id", campaign.ID,
		"promo_code", promo.Code,
		"audience", audience,
		"recipients", len(recipients),
		"enqueued", enqueued,
	)
	return campaign, nil
}

func (s *CampaignService) resolveRecipients(audience string) ([]string, error) {
	var (
		emails []string
		err    error
	)
	switch audience {
	case constants.CampaignAudienceUsers:
		emails, err = s.userRepo.ListVerifiedActiveEmails()
	case constants.CampaignAudienceSubscribers:
		emails, err = s.subscriberRepo.ListDeliverableEmails()
	default:
		return nil, ErrCampaignInvalid
	}
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(emails))
	result := make([]string, 0, len(emails))
	for _, email := range emails {
		normalized := strings.ToLower(strings.TrimSpace(email))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}
	return result, nil
}

// List 群发记录
func (s *CampaignService) List(filter repository.CampaignListFilter) ([]models.PromoCampaign, int64, error) {
	return s.campaignRepo.List(filter)
}
