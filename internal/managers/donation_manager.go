package managers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"foodconnect/internal/repositories"
	"foodconnect/internal/schemas"
	"foodconnect/internal/utils"
)

// DonationMgr is the claim/handoff state machine. It is the only writer of a donation's status
// and the fields that depend on it.
type DonationMgr interface {
	Create(ctx context.Context, donorID uuid.UUID, details schemas.DonationDetails) (*schemas.Donation, error)
	Claim(ctx context.Context, donationID, volunteerID uuid.UUID) (*schemas.Donation, error)
	VerifyPickup(ctx context.Context, donationID, callerID uuid.UUID, otp string) (*schemas.Donation, error)
	Remove(ctx context.Context, donationID, callerID uuid.UUID) error
	ListAvailable(ctx context.Context) ([]*schemas.Donation, error)
	ListClaimedBy(ctx context.Context, volunteerID uuid.UUID) ([]*schemas.Donation, error)
	ListOwnedBy(ctx context.Context, donorID uuid.UUID) ([]*schemas.Donation, error)
}

// DonationManager implements DonationMgr on top of a DonationRepository.
type DonationManager struct {
	donations repositories.DonationRepository
	users     repositories.UserRepository
	mailMgr   MailMgr
	clock     Clock
	newOTP    OTPGenerator
}

// DonationManagerOption customizes a DonationManager.
type DonationManagerOption func(*DonationManager)

// WithClock replaces the system clock.
func WithClock(clock Clock) DonationManagerOption {
	return func(dm *DonationManager) {
		dm.clock = clock
	}
}

// WithOTPGenerator replaces the crypto/rand pickup code generator.
func WithOTPGenerator(generator OTPGenerator) DonationManagerOption {
	return func(dm *DonationManager) {
		dm.newOTP = generator
	}
}

// NewDonationManager creates the state machine. users and mailMgr are used for donor notifications
// and may be nil, in which case no mail is sent.
func NewDonationManager(donations repositories.DonationRepository, users repositories.UserRepository,
	mailMgr MailMgr, opts ...DonationManagerOption) DonationMgr {
	utils.LogMessage("info", "Initializing donation manager")
	dm := &DonationManager{
		donations: donations,
		users:     users,
		mailMgr:   mailMgr,
		clock:     SystemClock{},
		newOTP:    GenerateOTP,
	}
	for _, opt := range opts {
		opt(dm)
	}
	return dm
}

// Create stores a new available donation owned by donorID.
func (dm *DonationManager) Create(ctx context.Context, donorID uuid.UUID, details schemas.DonationDetails) (*schemas.Donation, error) {
	if strings.TrimSpace(details.FoodType) == "" {
		return nil, &ValidationError{Field: "foodType", Reason: "required"}
	}
	if strings.TrimSpace(details.Quantity) == "" {
		return nil, &ValidationError{Field: "quantity", Reason: "required"}
	}
	if details.ExpiryTime.IsZero() {
		return nil, &ValidationError{Field: "expiryTime", Reason: "required"}
	}

	address := strings.TrimSpace(details.Address)
	if address == "" {
		address = schemas.DefaultAddress
	}

	donation := &schemas.Donation{
		ID:         uuid.New(),
		DonorID:    donorID,
		FoodType:   strings.TrimSpace(details.FoodType),
		Quantity:   strings.TrimSpace(details.Quantity),
		ExpiryTime: details.ExpiryTime.UTC(),
		Address:    address,
		ImageURL:   details.ImageURL,
		Notes:      details.Notes,
		Status:     schemas.StatusAvailable,
		CreatedAt:  dm.clock.Now(),
	}
	if err := dm.donations.Create(ctx, donation); err != nil {
		return nil, err
	}

	utils.LogMessageWithFields(ctx, "info", "Donation "+donation.ID.String()+" created")
	return donation, nil
}

// Claim moves an available donation to claimed in one compare-and-set and returns it with its fresh OTP.
// Of several concurrent claimants exactly one succeeds; the others get an InvalidStateError.
func (dm *DonationManager) Claim(ctx context.Context, donationID, volunteerID uuid.UUID) (*schemas.Donation, error) {
	otp, err := dm.newOTP()
	if err != nil {
		return nil, err
	}

	now := dm.clock.Now()
	claimedBy := volunteerID
	donation, err := dm.donations.Transition(ctx, donationID,
		repositories.Guard{Status: schemas.StatusAvailable},
		repositories.Lifecycle{
			Status:    schemas.StatusClaimed,
			ClaimedBy: &claimedBy,
			ClaimedAt: &now,
			OTP:       &otp,
		})
	if err != nil {
		return nil, translateStoreError(err)
	}

	utils.LogMessageWithFields(ctx, "info", "Donation "+donationID.String()+" claimed by "+volunteerID.String())
	dm.notifyClaim(ctx, donation, volunteerID)
	return donation, nil
}

// VerifyPickup completes the handoff when otp equals the code stored at claim time.
// The code is cleared on success so it cannot be replayed.
func (dm *DonationManager) VerifyPickup(ctx context.Context, donationID, callerID uuid.UUID, otp string) (*schemas.Donation, error) {
	current, err := dm.donations.Get(ctx, donationID)
	if err != nil {
		return nil, translateStoreError(err)
	}
	if current.Status != schemas.StatusClaimed || current.OTP == nil {
		return nil, &InvalidStateError{Current: current.Status}
	}
	if !otpEqual(*current.OTP, otp) {
		utils.LogMessageWithFields(ctx, "warn", "Pickup code mismatch for donation "+donationID.String()+
			" by "+callerID.String())
		return nil, ErrOtpMismatch
	}

	now := dm.clock.Now()
	stored := *current.OTP
	donation, err := dm.donations.Transition(ctx, donationID,
		repositories.Guard{Status: schemas.StatusClaimed, OTP: &stored},
		repositories.Lifecycle{
			Status:     schemas.StatusPickedUp,
			ClaimedBy:  current.ClaimedBy,
			ClaimedAt:  current.ClaimedAt,
			PickedUpAt: &now,
		})
	if err != nil {
		return nil, translateStoreError(err)
	}

	utils.LogMessageWithFields(ctx, "info", "Donation "+donationID.String()+" picked up")
	dm.notifyPickup(ctx, donation)
	return donation, nil
}

// Remove deletes an available donation on behalf of its donor.
func (dm *DonationManager) Remove(ctx context.Context, donationID, callerID uuid.UUID) error {
	current, err := dm.donations.Get(ctx, donationID)
	if err != nil {
		return translateStoreError(err)
	}
	if current.DonorID != callerID {
		return ErrForbidden
	}
	if current.Status != schemas.StatusAvailable {
		return &InvalidStateError{Current: current.Status}
	}

	// A claim landing between the read and the delete wins.
	if err := dm.donations.DeleteIf(ctx, donationID, schemas.StatusAvailable); err != nil {
		return translateStoreError(err)
	}

	utils.LogMessageWithFields(ctx, "info", "Donation "+donationID.String()+" removed")
	return nil
}

// ListAvailable returns every donation that can still be claimed, newest first.
func (dm *DonationManager) ListAvailable(ctx context.Context) ([]*schemas.Donation, error) {
	return dm.donations.Find(ctx, repositories.DonationFilter{Status: schemas.StatusAvailable})
}

// ListClaimedBy returns every donation the volunteer has claimed, picked up ones included, newest first.
func (dm *DonationManager) ListClaimedBy(ctx context.Context, volunteerID uuid.UUID) ([]*schemas.Donation, error) {
	return dm.donations.Find(ctx, repositories.DonationFilter{ClaimedBy: volunteerID})
}

// ListOwnedBy returns all donations of the donor in any state, newest first.
func (dm *DonationManager) ListOwnedBy(ctx context.Context, donorID uuid.UUID) ([]*schemas.Donation, error) {
	return dm.donations.Find(ctx, repositories.DonationFilter{DonorID: donorID})
}

func translateStoreError(err error) error {
	var conflict *repositories.ConflictError
	switch {
	case errors.Is(err, repositories.ErrNoRecord):
		return ErrNotFound
	case errors.As(err, &conflict):
		return &InvalidStateError{Current: conflict.Current}
	default:
		return err
	}
}

// notifyClaim mails the pickup code to the donor. The claim is already committed, so failures are only logged.
func (dm *DonationManager) notifyClaim(ctx context.Context, donation *schemas.Donation, volunteerID uuid.UUID) {
	if dm.mailMgr == nil || dm.users == nil || donation.OTP == nil {
		return
	}
	donor, err := dm.users.GetByID(ctx, donation.DonorID)
	if err != nil {
		utils.LogMessageWithFields(ctx, "warn", fmt.Sprintf("Cannot load donor for claim notification: %v", err))
		return
	}
	volunteerName := "A volunteer"
	if volunteer, err := dm.users.GetByID(ctx, volunteerID); err == nil {
		volunteerName = volunteer.Name
	}
	if err := dm.mailMgr.SendClaimNotification(donor.Email, donor.Name, volunteerName, donation.FoodType, *donation.OTP); err != nil {
		utils.LogMessageWithFields(ctx, "warn", "Claim notification failed: "+err.Error())
	}
}

func (dm *DonationManager) notifyPickup(ctx context.Context, donation *schemas.Donation) {
	if dm.mailMgr == nil || dm.users == nil {
		return
	}
	donor, err := dm.users.GetByID(ctx, donation.DonorID)
	if err != nil {
		utils.LogMessageWithFields(ctx, "warn", fmt.Sprintf("Cannot load donor for pickup confirmation: %v", err))
		return
	}
	if err := dm.mailMgr.SendPickupConfirmation(donor.Email, donor.Name, donation.FoodType); err != nil {
		utils.LogMessageWithFields(ctx, "warn", "Pickup confirmation failed: "+err.Error())
	}
}
