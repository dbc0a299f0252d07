package mailingservices

import (
	"testing"

	"github.com/jisetihq/jiseti/config"
	"github.com/stretchr/testify/assert"
)

func TestMailgunInitFromConfig(t *testing.T) {
	t.Run("configured client picks up domain, key and sender", func(t *testing.T) {
		m := &Mailgun{}
		m.Init(&config.Config{
			MgDomain:      "mg.jiseti.go.ke",
			MailgunApiKey: "key-test",
			MgEmailFrom:   "Jiseti Reports <reports@mg.jiseti.go.ke>",
		})
		assert.NotNil(t, m.Client)
		assert.Equal(t, "mg.jiseti.go.ke", m.Domain)
		assert.Equal(t, "Jiseti Reports <reports@mg.jiseti.go.ke>", m.From)
	})

	t.Run("default sender is derived from the domain", func(t *testing.T) {
		m := &Mailgun{}
		m.Init(&config.Config{MgDomain: "mg.jiseti.go.ke", MailgunApiKey: "key-test"})
		assert.Equal(t, "Jiseti <no-reply@mg.jiseti.go.ke>", m.From)
	})

	t.Run("missing domain leaves the mailer disabled", func(t *testing.T) {
		m := &Mailgun{}
		m.Init(&config.Config{MailgunApiKey: "key-test"})
		assert.Nil(t, m.Client)

		// Disabled sends are logged no-ops, not errors.
		id, err := m.SendStatusUpdate("owner@gmail.com", "subject", "body")
		assert.NoError(t, err)
		assert.Empty(t, id)
	})
}
