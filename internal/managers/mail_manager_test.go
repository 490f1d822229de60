package managers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMailManagerSkipsDeliveryOutsideProduction(t *testing.T) {
	mailMgr := NewMailManager(false, "mail.example.com", "key")

	assert.NoError(t, mailMgr.SendClaimNotification("dana@example.com", "Dana", "Vic", "Rice", "1234"))
	assert.NoError(t, mailMgr.SendPickupConfirmation("dana@example.com", "Dana", "Rice"))

	mm := mailMgr.(*MailManager)
	assert.False(t, mm.deliver)
	assert.Equal(t, "FoodConnect <team@mail.example.com>", mm.from)
}
