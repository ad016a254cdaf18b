package notify

import (
	"fmt"
	"strings"

	"github.com/asaskevich/EventBus"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/otjiningirua/owfarm/config"
	"github.com/otjiningirua/owfarm/internal/store"
)

// TopicInquiryCreated is published with the stored inquiry document
const TopicInquiryCreated = "inquiry:created"

// Sender delivers one plain text message
type Sender interface {
	Send(subject, body string) error
}

// MailSender sends through an SMTP relay
type MailSender struct {
	dialer *gomail.Dialer
	from   string
	to     []string
}

func NewMailSender(cfg config.NotifyConfig) *MailSender {
	from := cfg.From
	if from == "" {
		from = cfg.SmtpUser
	}
	return &MailSender{
		dialer: gomail.NewDialer(cfg.SmtpHost, cfg.SmtpPort, cfg.SmtpUser, cfg.SmtpPwd),
		from:   from,
		to:     strings.Split(cfg.To, ","),
	}
}

func (s *MailSender) Send(subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

// Notifier turns inquiry events into mails. Delivery runs on a bounded
// worker pool; when the pool is saturated the mail is dropped.
type Notifier struct {
	bus    EventBus.Bus
	pool   *ants.Pool
	sender Sender
}

func NewNotifier(bus EventBus.Bus, sender Sender, workers int) (*Notifier, error) {
	if workers <= 0 {
		workers = 2
	}
	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, errors.Wrap(err, "create notify pool")
	}
	n := &Notifier{bus: bus, pool: pool, sender: sender}
	if err := bus.Subscribe(TopicInquiryCreated, n.onInquiry); err != nil {
		pool.Release()
		return nil, errors.Wrap(err, "subscribe inquiry events")
	}
	return n, nil
}

// InquiryMail renders the subject and body for one inquiry
func InquiryMail(doc store.Document) (string, string) {
	field := func(k string) string {
		return cast.ToString(doc[k])
	}
	subject := fmt.Sprintf("New inquiry from %s", field("name"))
	if p := field("product"); p != "" {
		subject += " about " + p
	}
	var b strings.Builder
	for _, k := range []string{"name", "email", "phone", "product", "quantity", "message", "createdAt"} {
		fmt.Fprintf(&b, "%-10s %s\n", k+":", field(k))
	}
	return subject, b.String()
}

func (n *Notifier) onInquiry(doc store.Document) {
	subject, body := InquiryMail(doc)
	err := n.pool.Submit(func() {
		if err := n.sender.Send(subject, body); err != nil {
			zap.L().Warn("inquiry mail failed",
				zap.String("namespace", "notify"),
				zap.String("inquiry_id", doc.ID()),
				zap.Error(err))
		}
	})
	if err != nil {
		zap.L().Warn("inquiry mail dropped",
			zap.String("namespace", "notify"),
			zap.String("inquiry_id", doc.ID()),
			zap.Error(err))
	}
}

// Close unsubscribes and releases the pool
func (n *Notifier) Close() {
	_ = n.bus.Unsubscribe(TopicInquiryCreated, n.onInquiry)
	n.pool.Release()
}
