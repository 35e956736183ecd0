package service

import (
	"context"
	"testing"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCampaignServiceForTest(db *gorm.DB, sink *fakeSink) *CampaignService {
	return NewCampaignService(
		repository.NewCampaignRepository(db),
		repository.NewPromoCodeRepository(db),
		repository.NewUserRepository(db),
		repository.NewSubscriberRepository(db),
		sink,
		nil,
	)
}

func seedSubscriber(t *testing.T, db *gorm.DB, email string, verified bool) {
	t.Helper()
	subscriber := &models.Subscriber{Email: email, IsActive: true, IsVerified: verified}
	require.NoError(t, db.Create(subscriber).Error)
}

func TestCampaignSendToSubscribersDoesNotConsumeUses(t *testing.T) {
	db := openServiceTestDB(t)
	admin := seedUser(t, db, "marketing@example.com")
	promo := seedPromo(t, db, "SUMMER", constants.DiscountTypePercent, "15", 10, nil)
	seedSubscriber(t, db, "a@example.com", true)
	seedSubscriber(t, db, "b@example.com", true)
	seedSubscriber(t, db, "pending@example.com", false)
	sink := &fakeSink{}
	svc := newCampaignServiceForTest(db, sink)

	campaign, err := svc.Send(context.Background(), SendCampaignInput{
		SenderID:    admin.ID,
		PromoCodeID: promo.ID,
		Subject:     " Summer sale ",
		Body:        "Treats for everyone",
		Audience:    "Subscribers",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, campaign.RecipientCount)
	assert.Equal(t, "Summer sale", campaign.Subject)
	require.Len(t, sink.campaignMails, 2)
	assert.Equal(t, "SUMMER", sink.campaignMails[0].Code)
	assert.Equal(t, campaign.ID, sink.campaignMails[0].CampaignID)

	var stored models.PromoCampaign
	require.NoError(t, db.First(&stored, campaign.ID).Error)
	assert.Equal(t, 2, stored.RecipientCount)

	var reloaded models.PromoCode
	require.NoError(t, db.First(&reloaded, promo.ID).Error)
	assert.Equal(t, 0, reloaded.CurrentUses)

	list, total, err := svc.List(repository.CampaignListFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}

func TestCampaignSendToUsers(t *testing.T) {
	db := openServiceTestDB(t)
	sender := seedUser(t, db, "boss@example.com")
	seedUser(t, db, "customer@example.com")
	promo := seedPromo(t, db, "VIP", constants.DiscountTypeFixed, "200", constants.UnlimitedUses, nil)
	sink := &fakeSink{}
	svc := newCampaignServiceForTest(db, sink)

	campaign, err := svc.Send(context.Background(), SendCampaignInput{
		SenderID:    sender.ID,
		PromoCodeID: promo.ID,
		Subject:     "VIP",
		Audience:    constants.CampaignAudienceUsers,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, campaign.RecipientCount)
}

func TestCampaignSendValidation(t *testing.T) {
	db := openServiceTestDB(t)
	promo := seedPromo(t, db, "EMPTY", constants.DiscountTypeFixed, "10", 5, nil)
	ctx := context.Background()

	svc := newCampaignServiceForTest(db, &fakeSink{})
	_, err := svc.Send(ctx, SendCampaignInput{PromoCodeID: promo.ID, Subject: " ", Audience: "users"})
	assert.ErrorIs(t, err, ErrCampaignInvalid)
	_, err = svc.Send(ctx, SendCampaignInput{PromoCodeID: promo.ID, Subject: "x", Audience: "everyone"})
	assert.ErrorIs(t, err, ErrCampaignInvalid)
	_, err = svc.Send(ctx, SendCampaignInput{PromoCodeID: 9999, Subject: "x", Audience: "users"})
	assert.ErrorIs(t, err, ErrPromoNotFound)
	_, err = svc.Send(ctx, SendCampaignInput{PromoCodeID: promo.ID, Subject: "x", Audience: "subscribers"})
	assert.ErrorIs(t, err, ErrNoRecipients)

	disabled := newCampaignServiceForTest(db, &fakeSink{disabled: true})
	_, err = disabled.Send(ctx, SendCampaignInput{PromoCodeID: promo.ID, Subject: "x", Audience: "users"})
	assert.ErrorIs(t, err, ErrEmailServiceDisabled)
}

func TestCampaignCountsOnlyEnqueuedRecipients(t *testing.T) {
	db := openServiceTestDB(t)
	promo := seedPromo(t, db, "DOWN", constants.DiscountTypeFixed, "10", 5, nil)
	seedSubscriber(t, db, "x@example.com", true)
	svc := newCampaignServiceForTest(db, &fakeSink{failAll: true})

	campaign, err := svc.Send(context.Background(), SendCampaignInput{PromoCodeID: promo.ID, Subject: "x", Audience: "subscribers"})
	require.NoError(t, err)
	assert.Zero(t, campaign.RecipientCount)
}
