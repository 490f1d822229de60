package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodconnect/internal/managers"
	"foodconnect/internal/schemas"
	"foodconnect/internal/utils"
)

// DonationHdl defines the interface for handling donation related HTTP requests.
type DonationHdl interface {
	CreateDonation(c *gin.Context)
	ListAvailable(c *gin.Context)
	ListMine(c *gin.Context)
	ListClaimed(c *gin.Context)
	ClaimDonation(c *gin.Context)
	VerifyPickup(c *gin.Context)
	DeleteDonation(c *gin.Context)
}

// DonationHandler translates HTTP requests into calls on the donation state machine.
// Pickup codes are only ever returned to the donor owning the donation.
type DonationHandler struct {
	DonationManager managers.DonationMgr
}

func NewDonationHandler(donationManager managers.DonationMgr) DonationHdl {
	return &DonationHandler{DonationManager: donationManager}
}

func newDonationListDTO(donations []*schemas.Donation, withOtp bool) *schemas.DonationListDTO {
	records := make([]schemas.DonationDTO, 0, len(donations))
	for _, donation := range donations {
		records = append(records, schemas.NewDonationDTO(donation, withOtp))
	}
	return &schemas.DonationListDTO{Records: records, Count: len(records)}
}

// CreateDonation posts a new donation for the calling donor.
func (handler *DonationHandler) CreateDonation(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	request, ok := payload[schemas.CreateDonationRequest](c)
	if !ok {
		return
	}

	expiryTime, err := schemas.ParseTimestamp(request.ExpiryTime)
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest.WithField("expiryTime"), http.StatusBadRequest, err)
		return
	}

	donation, err := handler.DonationManager.Create(c, p.UserID, schemas.DonationDetails{
		FoodType:   request.FoodType,
		Quantity:   request.Quantity,
		ExpiryTime: expiryTime,
		Address:    request.Address,
		ImageURL:   request.ImageUrl,
		Notes:      request.Notes,
	})
	if err != nil {
		writeManagerError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, schemas.NewDonationDTO(donation, true), http.StatusCreated)
}

// ListAvailable returns every donation open for claiming.
func (handler *DonationHandler) ListAvailable(c *gin.Context) {
	donations, err := handler.DonationManager.ListAvailable(c)
	if err != nil {
		writeManagerError(c, err)
		return
	}
	utils.WriteAndLogResponse(c, newDonationListDTO(donations, false), http.StatusOK)
}

// ListMine returns the caller's own donations including the pickup codes of claimed ones.
func (handler *DonationHandler) ListMine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	donations, err := handler.DonationManager.ListOwnedBy(c, p.UserID)
	if err != nil {
		writeManagerError(c, err)
		return
	}
	utils.WriteAndLogResponse(c, newDonationListDTO(donations, true), http.StatusOK)
}

// ListClaimed returns the calling volunteer's claims in any state.
func (handler *DonationHandler) ListClaimed(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	donations, err := handler.DonationManager.ListClaimedBy(c, p.UserID)
	if err != nil {
		writeManagerError(c, err)
		return
	}
	utils.WriteAndLogResponse(c, newDonationListDTO(donations, false), http.StatusOK)
}

// ClaimDonation claims an available donation for the calling volunteer.
func (handler *DonationHandler) ClaimDonation(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := donationId(c)
	if !ok {
		return
	}

	donation, err := handler.DonationManager.Claim(c, id, p.UserID)
	if err != nil {
		writeManagerError(c, err)
		return
	}
	utils.WriteAndLogResponse(c, schemas.NewDonationDTO(donation, false), http.StatusOK)
}

// VerifyPickup checks the code the donor handed over and completes the handoff.
func (handler *DonationHandler) VerifyPickup(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := donationId(c)
	if !ok {
		return
	}
	request, ok := payload[schemas.VerifyPickupRequest](c)
	if !ok {
		return
	}

	donation, err := handler.DonationManager.VerifyPickup(c, id, p.UserID, request.Otp)
	if err != nil {
		writeManagerError(c, err)
		return
	}

	response := &schemas.VerifyPickupDTO{
		Message:  "Pickup verified. Thank you for rescuing this food!",
		Donation: schemas.NewDonationDTO(donation, false),
	}
	utils.WriteAndLogResponse(c, response, http.StatusOK)
}

// DeleteDonation withdraws an unclaimed donation of the calling donor.
func (handler *DonationHandler) DeleteDonation(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := donationId(c)
	if !ok {
		return
	}

	if err := handler.DonationManager.Remove(c, id, p.UserID); err != nil {
		writeManagerError(c, err)
		return
	}
	utils.WriteAndLogResponse(c, nil, http.StatusNoContent)
}
