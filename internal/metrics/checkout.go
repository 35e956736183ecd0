package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 结算结果标签
const (
	OutcomeCommitted         = "committed"
	OutcomeEmptyCart         = "empty_cart"
	OutcomeAddressNotOwned   = "address_not_owned"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeFailed            = "failed"
)

// Checkout 结算链路指标，nil 接收者上的调用均为空操作
type Checkout struct {
	commits          *prometheus.CounterVec
	commitDuration   prometheus.Histogram
	commitRetries    prometheus.Counter
	redemptions      prometheus.Counter
	promoDrops       *prometheus.CounterVec
	notifyFailures   *prometheus.CounterVec
	campaignEnqueued prometheus.Counter
}

// NewCheckout 在给定 Registerer 上注册结算指标，reg 为 nil 时返回空实现
func NewCheckout(reg prometheus.Registerer) *Checkout {
	if reg == nil {
		return &Checkout{}
	}
	c := &Checkout{
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "petshop",
			Name:      "checkout_commits_total",
			Help:      "Checkout commit attempts by outcome.",
		}, []string{"outcome"}),
		commitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "petshop",
			Name:      "checkout_commit_duration_seconds",
			Help:      "Duration of the checkout commit including retries.",
			Buckets:   prometheus.DefBuckets,
		}),
		commitRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "petshop",
			Name:      "checkout_commit_retries_total",
			Help:      "Checkout transactions retried after a persistence failure or lost promo race.",
		}),
		redemptions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "petshop",
			Name:      "promo_redemptions_total",
			Help:      "Promo codes redeemed by committed orders.",
		}),
		promoDrops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "petshop",
			Name:      "promo_dropped_total",
			Help:      "Promo codes dropped at commit time by reason.",
		}, []string{"reason"}),
		notifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "petshop",
			Name:      "notification_enqueue_failures_total",
			Help:      "Notification tasks that could not be enqueued.",
		}, []string{"task"}),
		campaignEnqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "petshop",
			Name:      "campaign_emails_enqueued_total",
			Help:      "Campaign emails handed to the queue.",
		}),
	}
	reg.MustRegister(c.commits, c.commitDuration, c.commitRetries, c.redemptions, c.promoDrops, c.notifyFailures, c.campaignEnqueued)
	return c
}

// ObserveCommit 记录一次结算提交结果与耗时
func (c *Checkout) ObserveCommit(outcome string, duration time.Duration) {
	if c == nil || c.commits == nil {
		return
	}
	c.commits.WithLabelValues(normalizeLabel(outcome)).Inc()
	c.commitDuration.Observe(duration.Seconds())
}

// IncRetry 记录一次事务重试
func (c *Checkout) IncRetry() {
	if c == nil || c.commitRetries == nil {
		return
	}
	c.commitRetries.Inc()
}

// IncRedemption 记录一次优惠码核销
func (c *Checkout) IncRedemption() {
	if c == nil || c.redemptions == nil {
		return
	}
	c.redemptions.Inc()
}

// IncPromoDropped 记录提交时被丢弃的优惠码
func (c *Checkout) IncPromoDropped(reason string) {
	if c == nil || c.promoDrops == nil {
		return
	}
	c.promoDrops.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncNotificationFailure 记录通知入队失败
func (c *Checkout) IncNotificationFailure(task string) {
	if c == nil || c.notifyFailures == nil {
		return
	}
	c.notifyFailures.WithLabelValues(normalizeLabel(task)).Inc()
}

// AddCampaignEnqueued 记录群发入队数量
func (c *Checkout) AddCampaignEnqueued(n int) {
	if c == nil || c.campaignEnqueued == nil || n <= 0 {
		return
	}
	c.campaignEnqueued.Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
