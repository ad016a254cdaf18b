package notify

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otjiningirua/owfarm/config"
	"github.com/otjiningirua/owfarm/internal/store"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
	err  error
	done chan struct{}
}

func (f *fakeSender) Send(subject, _ string) error {
	f.mu.Lock()
	f.sent = append(f.sent, subject)
	f.mu.Unlock()
	f.done <- struct{}{}
	return f.err
}

func TestInquiryMail(t *testing.T) {
	subject, body := InquiryMail(store.Document{
		"id":      "1",
		"name":    "Maria",
		"email":   "maria@example.com",
		"product": "Dorper Ram A",
		"message": "Is it still available?",
	})
	assert.Equal(t, "New inquiry from Maria about Dorper Ram A", subject)
	assert.Contains(t, body, "email:     maria@example.com")
	assert.Contains(t, body, "message:   Is it still available?")

	subject, _ = InquiryMail(store.Document{"name": "Jo"})
	assert.Equal(t, "New inquiry from Jo", subject)
}

func TestNotifierDeliversPublishedInquiry(t *testing.T) {
	for name, sendErr := range map[string]error{"ok": nil, "smtp failure": errors.New("dial tcp: refused")} {
		t.Run(name, func(t *testing.T) {
			bus := EventBus.New()
			sender := &fakeSender{err: sendErr, done: make(chan struct{}, 1)}
			n, err := NewNotifier(bus, sender, 1)
			require.NoError(t, err)
			defer n.Close()

			bus.Publish(TopicInquiryCreated, store.Document{"id": "9", "name": "Petrus"})

			select {
			case <-sender.done:
			case <-time.After(2 * time.Second):
				t.Fatal("mail was not sent")
			}
			sender.mu.Lock()
			defer sender.mu.Unlock()
			assert.Equal(t, []string{"New inquiry from Petrus"}, sender.sent)
		})
	}
}

func TestNotifierClosedStopsListening(t *testing.T) {
	bus := EventBus.New()
	sender := &fakeSender{done: make(chan struct{}, 1)}
	n, err := NewNotifier(bus, sender, 1)
	require.NoError(t, err)
	n.Close()

	assert.False(t, bus.HasCallback(TopicInquiryCreated))
}

func TestNewMailSender(t *testing.T) {
	s := NewMailSender(config.NotifyConfig{
		SmtpHost: "smtp.example.com",
		SmtpPort: 587,
		SmtpUser: "farm@example.com",
		To:       "a@example.com,b@example.com",
	})
	assert.Equal(t, "farm@example.com", s.from)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, s.to)
}
