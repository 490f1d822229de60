package utils

const (
	// DonationIdParamKey is the key for donation ID used in routing parameters.
	DonationIdParamKey = "id"
)
