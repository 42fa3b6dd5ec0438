package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-tools/ecard-notify/pkg/config"
	"github.com/campus-tools/ecard-notify/pkg/system"
)

func TestNewSender(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Mail
	}{
		{
			name: "basic configuration",
			cfg: config.Mail{
				Host:     "smtp.example.com",
				Port:     587,
				User:     "notify@example.com",
				Password: "password123",
				To:       "me@example.com",
			},
		},
		{
			name: "with InsecureSkipVerify",
			cfg: config.Mail{
				Host:               "smtp.internal",
				Port:               25,
				User:               "internal@company.com",
				Password:           "internal123",
				To:                 "ops@company.com",
				InsecureSkipVerify: true,
			},
		},
		{
			name: "with sender name",
			cfg: config.Mail{
				Host:       "smtp.example.com",
				Port:       465,
				User:       "notify@example.com",
				Password:   "apppassword",
				To:         "me@example.com",
				SenderName: "Card Watcher",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSender(tt.cfg, system.NewTestLogger())

			assert.NotNil(t, s)
			assert.Implements(t, (*Sender)(nil), s)
			assert.Equal(t, tt.cfg.Host, s.GetHost())
			assert.Equal(t, tt.cfg.Port, s.GetPort())
		})
	}
}

func TestSenderSendNoServer(t *testing.T) {
	s := NewSender(config.Mail{
		Host:     "127.0.0.1",
		Port:     1, // nothing listens here
		User:     "notify@example.com",
		Password: "pw",
		To:       "me@example.com",
	}, system.NewTestLogger())

	err := s.Send("subject", "<p>body</p>")
	assert.Error(t, err)
}
