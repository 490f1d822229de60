package schemas

import "time"

// ErrorDTO is a struct that represents an error response
// Error is the custom error, see CustomError
type ErrorDTO struct {
	Error CustomError `json:"error"`
}

// MetadataDTO describes the running API on the root route.
type MetadataDTO struct {
	ApiVersion string `json:"apiVersion"`
	ApiName    string `json:"apiName"`
}

// UserDTO is a struct that represents a user response
// Id is the ID of the user
// Name is the display name of the user
// Email is the email of the user
// Role is one of donor, volunteer or admin
// Contact is the optional contact string
type UserDTO struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Contact string `json:"contact,omitempty"`
}

// AuthDTO is a struct that represents a login or registration response
// Token is the JWT token used for auth
// User is the authenticated user
type AuthDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// DonationDTO is a struct that represents a donation response.
// Otp is only filled in for the donor owning the donation, who hands it to the volunteer at pickup.
type DonationDTO struct {
	Id         string  `json:"id"`
	Donor      string  `json:"donor"`
	FoodType   string  `json:"foodType"`
	Quantity   string  `json:"quantity"`
	ExpiryTime string  `json:"expiryTime"`
	Address    string  `json:"address"`
	ImageUrl   string  `json:"imageUrl,omitempty"`
	Notes      string  `json:"notes,omitempty"`
	Status     string  `json:"status"`
	ClaimedBy  *string `json:"claimedBy"`
	ClaimedAt  *string `json:"claimedAt"`
	Otp        *string `json:"otp,omitempty"`
	PickedUpAt *string `json:"pickedUpAt"`
	CreatedAt  string  `json:"createdAt"`
}

// NewDonationDTO converts a donation into its response shape. The OTP is only copied when withOtp is set.
func NewDonationDTO(d *Donation, withOtp bool) DonationDTO {
	dto := DonationDTO{
		Id:         d.ID.String(),
		Donor:      d.DonorID.String(),
		FoodType:   d.FoodType,
		Quantity:   d.Quantity,
		ExpiryTime: d.ExpiryTime.UTC().Format(time.RFC3339),
		Address:    d.Address,
		ImageUrl:   d.ImageURL,
		Notes:      d.Notes,
		Status:     string(d.Status),
		CreatedAt:  d.CreatedAt.UTC().Format(time.RFC3339),
	}
	if d.ClaimedBy != nil {
		claimedBy := d.ClaimedBy.String()
		dto.ClaimedBy = &claimedBy
	}
	dto.ClaimedAt = formatOptional(d.ClaimedAt)
	dto.PickedUpAt = formatOptional(d.PickedUpAt)
	if withOtp && d.OTP != nil {
		otp := *d.OTP
		dto.Otp = &otp
	}
	return dto
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// DonationListDTO is a struct that represents a list of donations
// Records are the donations, newest first
// Count is the number of records
type DonationListDTO struct {
	Records []DonationDTO `json:"records"`
	Count   int           `json:"count"`
}

// VerifyPickupDTO is the response to a successful OTP verification.
type VerifyPickupDTO struct {
	Message  string      `json:"message"`
	Donation DonationDTO `json:"donation"`
}

// StatsDTO is a struct that represents the platform statistics shown on the admin panel.
type StatsDTO struct {
	TotalDonations     int    `json:"totalDonations"`
	ActiveDonations    int    `json:"activeDonations"`
	ClaimedDonations   int    `json:"claimedDonations"`
	CompletedDonations int    `json:"completedDonations"`
	TotalDonors        int    `json:"totalDonors"`
	TotalVolunteers    int    `json:"totalVolunteers"`
	EstimatedMeals     int    `json:"estimatedMeals"`
	SavedKg            int    `json:"savedKg"`
	ImpactMessage      string `json:"impactMessage"`
}
