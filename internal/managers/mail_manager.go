// Package managers holds the business logic: the donation state machine, identity, statistics,
// and the token, mail and database services it depends on.
package managers

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	log "github.com/sirupsen/logrus"
)

// MailMgr notifies donors about the handoff of their donations.
type MailMgr interface {
	SendClaimNotification(email, donorName, volunteerName, foodType, otp string) error
	SendPickupConfirmation(email, donorName, foodType string) error
}

// MailManager formats mails with Hermes and sends them through Mailgun.
type MailManager struct {
	Hermes      *hermes.Hermes
	Mailgun     *mailgun.MailgunImpl
	from        string
	deliver     bool
}

const mailTimeout = 2 * time.Second

// SendClaimNotification tells the donor who claimed the donation and which code to hand over at pickup.
func (mm *MailManager) SendClaimNotification(email, donorName, volunteerName, foodType, otp string) error {
	if !mm.deliver {
		log.Info("Skipping claim notification in development mode")
		return nil
	}

	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: donorName,
			Intros: []string{
				fmt.Sprintf("Good news! %s claimed your donation \"%s\" and is on the way.", volunteerName, foodType),
			},
			Actions: []hermes.Action{
				{
					Instructions: "Give the volunteer this pickup code once the food has been handed over:",
					InviteCode:   otp,
				},
			},
			Outros: []string{
				"Thank you for sharing your food instead of throwing it away.",
			},
		},
	}
	return mm.send(email, "Your donation has been claimed", mailBody)
}

// SendPickupConfirmation tells the donor that the handoff was verified.
func (mm *MailManager) SendPickupConfirmation(email, donorName, foodType string) error {
	if !mm.deliver {
		log.Info("Skipping pickup confirmation in development mode")
		return nil
	}

	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: donorName,
			Intros: []string{
				fmt.Sprintf("Your donation \"%s\" has been picked up.", foodType),
			},
			Outros: []string{
				"Thank you for helping people in your neighbourhood.",
			},
		},
	}
	return mm.send(email, "Your donation has been picked up", mailBody)
}

func (mm *MailManager) send(email, subject string, mailBody hermes.Email) error {
	emailBody, err := mm.Hermes.GenerateHTML(mailBody)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
	defer cancel()

	message := mm.Mailgun.NewMessage(mm.from, subject, "", email)
	message.SetHtml(emailBody)
	if _, _, err = mm.Mailgun.Send(ctx, message); err != nil {
		log.Warning("Error sending mail: " + err.Error())
		return err
	}
	log.Debug("Mail sent to ", email)
	return nil
}

// NewMailManager initializes a MailManager. Unless deliver is set, mails are only logged.
func NewMailManager(deliver bool, domain, apiKey string) MailMgr {
	log.Info("Initializing mail manager")
	if !deliver {
		log.Info("Running in development mode, email will not be sent to users")
	}

	mailgunInstance := mailgun.NewMailgun(domain, apiKey)
	mailgunInstance.SetAPIBase(mailgun.APIBaseEU)

	mm := &MailManager{
		Hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name:      "FoodConnect",
				Link:      "https://" + domain + "/",
				Copyright: "FoodConnect, sharing surplus food with the community",
			},
		},
		Mailgun:     mailgunInstance,
		from:        "FoodConnect <team@" + domain + ">",
		deliver:     deliver,
	}
	log.Info("Initialized mail manager")
	return mm
}
