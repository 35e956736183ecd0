package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/queue"
	"github.com/petshop-next/internal/repository"
	"github.com/petshop-next/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sentMail struct {
	kind   string
	to     string
	status string
	code   string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) record(mail sentMail) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

func (m *fakeMailer) SendOrderConfirmation(to string, order *models.Order, _ string) error {
	return m.record(sentMail{kind: "confirmation", to: to, status: order.Status})
}

func (m *fakeMailer) SendOrderStatusEmail(to string, _ *models.Order, status, _ string) error {
	return m.record(sentMail{kind: "status", to: to, status: status})
}

func (m *fakeMailer) SendReturnRequested(_ *models.Order, customerEmail, _ string) error {
	return m.record(sentMail{kind: "return", to: customerEmail})
}

func (m *fakeMailer) SendPromoCode(to string, input service.PromoCodeEmailInput, _ string) error {
	return m.record(sentMail{kind: "promo", to: to, code: input.Code})
}

func (m *fakeMailer) SendCampaignEmail(to, _, _, code, _ string) error {
	return m.record(sentMail{kind: "campaign", to: to, code: code})
}

func setupConsumer(t *testing.T, mailer *fakeMailer) (*Consumer, *models.Order) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrateDB(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	user := &models.User{Username: "buyer", Email: "buyer@example.com", PasswordHash: "x", Status: constants.UserStatusActive}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	order := &models.Order{
		OrderNumber: "WORKER0000000001",
		UserID:      user.ID,
		AddressID:   1,
		Status:      constants.OrderStatusShipped,
		Currency:    "RUB",
		Total:       models.MustMoney("405.00"),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return &Consumer{orderRepo: repository.NewOrderRepository(db), mailer: mailer}, order
}

func mustTask(t *testing.T) func(*asynq.Task, error) *asynq.Task {
	return func(task *asynq.Task, err error) *asynq.Task {
		t.Helper()
		if err != nil {
			t.Fatalf("build task failed: %v", err)
		}
		return task
	}
}

func TestHandleOrderConfirmationSendsToOwner(t *testing.T) {
	mailer := &fakeMailer{}
	consumer, order := setupConsumer(t, mailer)

	task := mustTask(t)(queue.NewOrderConfirmationTask(queue.OrderConfirmationPayload{OrderID: order.ID}))
	if err := consumer.handleOrderConfirmation(context.Background(), task); err != nil {
		t.Fatalf("handle confirmation failed: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].to != "buyer@example.com" || mailer.sent[0].kind != "confirmation" {
		t.Fatalf("unexpected mails: %+v", mailer.sent)
	}
}

func TestHandleOrderStatusEmailRoutesReturnEvent(t *testing.T) {
	mailer := &fakeMailer{}
	consumer, order := setupConsumer(t, mailer)

	status := mustTask(t)(queue.NewOrderStatusEmailTask(queue.OrderStatusEmailPayload{OrderID: order.ID, Status: constants.OrderStatusShipped, Event: queue.OrderEventStatusChanged}))
	if err := consumer.handleOrderStatusEmail(context.Background(), status); err != nil {
		t.Fatalf("handle status failed: %v", err)
	}
	ret := mustTask(t)(queue.NewOrderStatusEmailTask(queue.OrderStatusEmailPayload{OrderID: order.ID, Event: queue.OrderEventReturnRequested}))
	if err := consumer.handleOrderStatusEmail(context.Background(), ret); err != nil {
		t.Fatalf("handle return failed: %v", err)
	}
	if len(mailer.sent) != 2 {
		t.Fatalf("want 2 mails got %+v", mailer.sent)
	}
	if mailer.sent[0].kind != "status" || mailer.sent[0].status != constants.OrderStatusShipped {
		t.Fatalf("unexpected status mail: %+v", mailer.sent[0])
	}
	if mailer.sent[1].kind != "return" || mailer.sent[1].to != "buyer@example.com" {
		t.Fatalf("unexpected return mail: %+v", mailer.sent[1])
	}
}

func TestHandleOrderEmailSkipsMissingOrder(t *testing.T) {
	mailer := &fakeMailer{}
	consumer, _ := setupConsumer(t, mailer)

	task := mustTask(t)(queue.NewOrderConfirmationTask(queue.OrderConfirmationPayload{OrderID: 9999}))
	if err := consumer.handleOrderConfirmation(context.Background(), task); err != nil {
		t.Fatalf("missing order should be skipped: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("no mail expected: %+v", mailer.sent)
	}
}

func TestHandlePromoAndCampaignEmails(t *testing.T) {
	mailer := &fakeMailer{}
	consumer, _ := setupConsumer(t, mailer)

	promo := mustTask(t)(queue.NewPromoCodeEmailTask(queue.PromoCodeEmailPayload{Email: "sub@example.com", Code: "WELCOME30", Discount: "30%"}))
	if err := consumer.handlePromoCodeEmail(context.Background(), promo); err != nil {
		t.Fatalf("handle promo failed: %v", err)
	}
	campaign := mustTask(t)(queue.NewCampaignEmailTask(queue.CampaignEmailPayload{CampaignID: 1, Email: "sub@example.com", Code: "SUMMER", Subject: "Sale"}))
	if err := consumer.handleCampaignEmail(context.Background(), campaign); err != nil {
		t.Fatalf("handle campaign failed: %v", err)
	}
	if len(mailer.sent) != 2 || mailer.sent[0].code != "WELCOME30" || mailer.sent[1].code != "SUMMER" {
		t.Fatalf("unexpected mails: %+v", mailer.sent)
	}
}

func TestFinishSendRetryPolicy(t *testing.T) {
	consumer := &Consumer{}
	ctx := context.Background()
	if err := consumer.finishSend(ctx, "x", service.ErrEmailServiceDisabled); err != nil {
		t.Fatalf("disabled email should not retry: %v", err)
	}
	if err := consumer.finishSend(ctx, "x", fmt.Errorf("%w: 550", service.ErrEmailRecipientRejected)); err != nil {
		t.Fatalf("rejected recipient should not retry: %v", err)
	}
	transient := errors.New("dial tcp: timeout")
	if err := consumer.finishSend(ctx, "x", transient); !errors.Is(err, transient) {
		t.Fatalf("transient error should be returned, got %v", err)
	}
}

func TestTransientSendFailureIsRetried(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	consumer, _ := setupConsumer(t, mailer)

	task := mustTask(t)(queue.NewCampaignEmailTask(queue.CampaignEmailPayload{Email: "a@example.com", Code: "X"}))
	if err := consumer.handleCampaignEmail(context.Background(), task); err == nil {
		t.Fatalf("expected error for retry")
	}
}
