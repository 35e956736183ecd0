package service

import (
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/i18n"
	"github.com/petshop-next/internal/models"
)

// EmailService 邮件发送服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 是否已启用并完成配置
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled && s.cfg.Host != "" && s.cfg.Port != 0 && s.cfg.From != ""
}

// NotifyAddress 后台通知收件人
func (s *EmailService) NotifyAddress() string {
	if s == nil || s.cfg == nil {
		return ""
	}
	if addr := strings.TrimSpace(s.cfg.NotifyAddress); addr != "" {
		return addr
	}
	return strings.TrimSpace(s.cfg.From)
}

// SendOrderConfirmation 发送下单确认邮件
func (s *EmailService) SendOrderConfirmation(toEmail string, order *models.Order, locale string) error {
	subject, body := buildOrderConfirmationContent(order, locale)
	return s.sendTextEmail(toEmail, subject, body)
}

// SendOrderStatusEmail 发送订单状态通知
func (s *EmailService) SendOrderStatusEmail(toEmail string, order *models.Order, status, locale string) error {
	subject, body := buildOrderStatusContent(order, status, locale)
	return s.sendTextEmail(toEmail, subject, body)
}

// SendReturnRequested 通知后台有退货申请
func (s *EmailService) SendReturnRequested(order *models.Order, customerEmail, locale string) error {
	subject, body := buildReturnRequestedContent(order, customerEmail, locale)
	return s.sendTextEmail(s.NotifyAddress(), subject, body)
}

// PromoCodeEmailInput 优惠码邮件输入
type PromoCodeEmailInput struct {
	Code       string
	Discount   string
	ValidUntil string
}

// SendPromoCode 发送订阅欢迎优惠码
func (s *EmailService) SendPromoCode(toEmail string, input PromoCodeEmailInput, locale string) error {
	subject, body := buildPromoCodeContent(input, locale)
	return s.sendTextEmail(toEmail, subject, body)
}

// SendCampaignEmail 发送群发优惠码邮件，正文末尾附带优惠码
func (s *EmailService) SendCampaignEmail(toEmail, subject, body, code, locale string) error {
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)
	if code = strings.TrimSpace(code); code != "" {
		line := i18n.Tf(normalizeLocale(locale), "email.campaign.code_line", code)
		if !strings.Contains(body, code) {
			body = strings.TrimSpace(body + "\n\n" + line)
		}
	}
	return s.sendTextEmail(toEmail, subject, body)
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s == nil || s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	msg := buildEmailMessage(buildFromAddress(s.cfg.From, s.cfg.FromName), toEmail, subject, body)
	return normalizeEmailSendError(s.deliver(toEmail, []byte(msg)))
}

func buildOrderConfirmationContent(order *models.Order, locale string) (string, string) {
	normalized := normalizeLocale(locale)
	subject := i18n.Tf(normalized, "email.order_confirmation", order.OrderNumber)

	var lines strings.Builder
	for _, item := range order.Items {
		lines.WriteString(fmt.Sprintf("- %s x%d = %s %s\n", item.ProductName, item.Quantity, item.Subtotal.String(), order.Currency))
	}
	currency := order.Currency
	body := i18n.Tf(normalized, "email.order_confirmation.body",
		order.OrderNumber,
		strings.TrimRight(lines.String(), "\n"),
		order.Subtotal.String(), currency,
		order.ShippingCost.String(), currency,
		order.Tax.String(), currency,
		order.DiscountAmount.String(), currency,
		order.Total.String(), currency,
		order.AddressSnapshot,
	)
	return subject, body
}

func buildOrderStatusContent(order *models.Order, status, locale string) (string, string) {
	normalized := normalizeLocale(locale)
	statusLabel := orderStatusLabel(normalized, status)
	subject := i18n.Tf(normalized, "email.order_status", order.OrderNumber, statusLabel)
	body := i18n.Tf(normalized, "email.order_status.body", order.OrderNumber, statusLabel, order.Total.String(), order.Currency)
	return subject, body
}

func buildReturnRequestedContent(order *models.Order, customerEmail, locale string) (string, string) {
	normalized := normalizeLocale(locale)
	subject := i18n.Tf(normalized, "email.return_requested", order.OrderNumber)
	body := i18n.Tf(normalized, "email.return_requested.body", customerEmail, order.OrderNumber, order.Total.String(), order.Currency)
	return subject, body
}

func buildPromoCodeContent(input PromoCodeEmailInput, locale string) (string, string) {
	normalized := normalizeLocale(locale)
	validUntil := strings.TrimSpace(input.ValidUntil)
	if validUntil == "" {
		validUntil = "-"
	}
	subject := i18n.Tf(normalized, "email.promo_code", input.Code)
	body := i18n.Tf(normalized, "email.promo_code.body", input.Code, input.Discount, validUntil)
	return subject, body
}

func orderStatusLabel(locale, status string) string {
	key := "order.status." + normalizeOrderStatus(status)
	label := i18n.T(locale, key)
	if label == key {
		return status
	}
	return label
}

func normalizeLocale(locale string) string {
	return i18n.Match(locale)
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	return (&mail.Address{Name: mime.QEncoding.Encode("UTF-8", name), Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	headers := [][2]string{
		{"From", from},
		{"To", to},
		{"Subject", mime.QEncoding.Encode("UTF-8", subject)},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/plain; charset=UTF-8"},
	}
	var b strings.Builder
	for _, h := range headers {
		b.WriteString(h[0])
		b.WriteString(": ")
		b.WriteString(h[1])
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}

// dial 按配置建立 SMTP 会话：use_ssl 为隐式 TLS，use_tls 为 STARTTLS
func (s *EmailService) dial() (*smtp.Client, error) {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	tlsCfg := &tls.Config{ServerName: s.cfg.Host}

	var client *smtp.Client
	if s.cfg.UseSSL {
		conn, err := tls.Dial("tcp", addr, tlsCfg)
		if err != nil {
			return nil, err
		}
		if client, err = smtp.NewClient(conn, s.cfg.Host); err != nil {
			conn.Close()
			return nil, err
		}
	} else {
		var err error
		if client, err = smtp.Dial(addr); err != nil {
			return nil, err
		}
		if s.cfg.UseTLS {
			if err := client.StartTLS(tlsCfg); err != nil {
				client.Close()
				return nil, err
			}
		}
	}

	if s.cfg.Username != "" || s.cfg.Password != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
			if err := client.Auth(auth); err != nil {
				client.Close()
				return nil, err
			}
		}
	}
	return client, nil
}

func (s *EmailService) deliver(to string, msg []byte) error {
	client, err := s.dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		var protoErr *textproto.Error
		if errors.As(err, &protoErr) && protoErr.Code >= 550 && protoErr.Code <= 553 {
			return fmt.Errorf("%w: %v", ErrEmailRecipientRejected, err)
		}
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func normalizeEmailSendError(err error) error {
	if err == nil || errors.Is(err, ErrEmailRecipientRejected) {
		return err
	}
	if isEmailRecipientRejected(err) {
		return fmt.Errorf("%w: %v", ErrEmailRecipientRejected, err)
	}
	return err
}

// 部分服务器在 DATA 阶段才拒收，只能依靠响应文本判断
var recipientRejectHints = []string{
	"no such recipient",
	"no such user",
	"recipient not found",
	"recipient address rejected",
	"invalid recipient",
	"user unknown",
	"unknown user",
	"unknown mailbox",
	"mailbox unavailable",
}

func isEmailRecipientRejected(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(err.Error())
	for _, hint := range recipientRejectHints {
		if strings.Contains(message, hint) {
			return true
		}
	}
	return false
}
