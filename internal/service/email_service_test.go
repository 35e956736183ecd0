package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/i18n"
	"github.com/petshop-next/internal/models"
)

func sampleEmailOrder() *models.Order {
	return &models.Order{
		OrderNumber:     "A1B2C3D4E5F60718",
		Currency:        "RUB",
		Subtotal:        models.MustMoney("250.00"),
		ShippingCost:    models.MustMoney("300.00"),
		Tax:             models.MustMoney("12.50"),
		DiscountAmount:  models.MustMoney("56.25"),
		Total:           models.MustMoney("506.25"),
		AddressSnapshot: "Ivan Petrov, Lenina 1, Moscow, 101000, Russia",
		Items: []models.OrderItem{
			{ProductName: "Dog food", Quantity: 2, Subtotal: models.MustMoney("200.00")},
			{ProductName: "Cat toy", Quantity: 1, Subtotal: models.MustMoney("50.00")},
		},
	}
}

func TestBuildOrderStatusContent(t *testing.T) {
	tests := []struct {
		name                string
		locale              string
		status              string
		wantSubjectContains []string
		wantBodyContains    []string
	}{
		{
			name:                "shipped_ru",
			locale:              i18n.LocaleRU,
			status:              "shipped",
			wantSubjectContains: []string{"A1B2C3D4E5F60718", "отправлен"},
			wantBodyContains:    []string{"506.25 RUB"},
		},
		{
			name:                "cancelled_en",
			locale:              "en",
			status:              "cancelled",
			wantSubjectContains: []string{"Order A1B2C3D4E5F60718", "cancelled"},
			wantBodyContains:    []string{"is now cancelled"},
		},
		{
			name:                "unknown_status_falls_back_to_raw",
			locale:              i18n.LocaleEN,
			status:              "lost",
			wantSubjectContains: []string{"lost"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := buildOrderStatusContent(sampleEmailOrder(), tt.status, tt.locale)
			for _, want := range tt.wantSubjectContains {
				if !strings.Contains(subject, want) {
					t.Fatalf("subject %q should contain %q", subject, want)
				}
			}
			for _, want := range tt.wantBodyContains {
				if !strings.Contains(body, want) {
					t.Fatalf("body %q should contain %q", body, want)
				}
			}
		})
	}
}

func TestBuildOrderConfirmationContent(t *testing.T) {
	subject, body := buildOrderConfirmationContent(sampleEmailOrder(), i18n.LocaleEN)
	if !strings.Contains(subject, "A1B2C3D4E5F60718") {
		t.Fatalf("unexpected subject: %q", subject)
	}
	for _, want := range []string{"Dog food x2 = 200.00 RUB", "Discount: 56.25 RUB", "Total: 506.25 RUB", "Lenina 1"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body should contain %q, got %q", want, body)
		}
	}
}

func TestBuildPromoCodeContentDefaultsLocale(t *testing.T) {
	subject, body := buildPromoCodeContent(PromoCodeEmailInput{Code: "WELCOME30", Discount: "30%"}, "")
	if !strings.Contains(subject, "WELCOME30") || !strings.Contains(subject, "промокод") {
		t.Fatalf("unexpected subject: %q", subject)
	}
	if !strings.Contains(body, "30%") || !strings.Contains(body, "-") {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestSendTextEmailRequiresConfig(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false})
	if err := svc.SendPromoCode("a@example.com", PromoCodeEmailInput{Code: "X"}, ""); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("expected ErrEmailServiceDisabled, got %v", err)
	}

	svc = NewEmailService(&config.EmailConfig{Enabled: true})
	if err := svc.SendPromoCode("a@example.com", PromoCodeEmailInput{Code: "X"}, ""); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("expected ErrEmailServiceNotConfigured, got %v", err)
	}

	svc = NewEmailService(&config.EmailConfig{Enabled: true, Host: "smtp.example.com", Port: 25, From: "shop@example.com"})
	if err := svc.SendPromoCode("not-an-email", PromoCodeEmailInput{Code: "X"}, ""); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestNotifyAddressFallsBackToFrom(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{From: "shop@example.com"})
	if got := svc.NotifyAddress(); got != "shop@example.com" {
		t.Fatalf("NotifyAddress() = %q", got)
	}
	svc = NewEmailService(&config.EmailConfig{From: "shop@example.com", NotifyAddress: "ops@example.com"})
	if got := svc.NotifyAddress(); got != "ops@example.com" {
		t.Fatalf("NotifyAddress() = %q", got)
	}
}

func TestIsEmailRecipientRejected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "smtp_550_no_such_recipient",
			err:  errors.New("550 No such recipient here"),
			want: true,
		},
		{
			name: "smtp_user_unknown",
			err:  errors.New("SMTP 5.1.1 user unknown"),
			want: true,
		},
		{
			name: "smtp_550_mailbox_unavailable",
			err:  errors.New("550 mailbox unavailable"),
			want: true,
		},
		{
			name: "network_timeout",
			err:  errors.New("dial tcp timeout"),
			want: false,
		},
		{
			name: "nil_error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEmailRecipientRejected(tt.err); got != tt.want {
				t.Fatalf("isEmailRecipientRejected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeEmailSendError(t *testing.T) {
	rejected := errors.New("550 No such recipient here")
	if got := normalizeEmailSendError(rejected); !errors.Is(got, ErrEmailRecipientRejected) {
		t.Fatalf("normalizeEmailSendError() expected ErrEmailRecipientRejected, got %v", got)
	}

	networkErr := errors.New("dial tcp timeout")
	if got := normalizeEmailSendError(networkErr); !errors.Is(got, networkErr) {
		t.Fatalf("normalizeEmailSendError() should keep original error, got %v", got)
	}

	if got := normalizeEmailSendError(nil); got != nil {
		t.Fatalf("normalizeEmailSendError(nil) should be nil, got %v", got)
	}
}
