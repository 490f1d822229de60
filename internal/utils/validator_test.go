package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"foodconnect/internal/schemas"
)

func TestRegistrationValidation(t *testing.T) {
	v := GetValidator()

	tests := []struct {
		name    string
		request schemas.RegistrationRequest
		valid   bool
	}{
		{"valid donor", schemas.RegistrationRequest{Name: "Asha", Email: "asha@example.com", Password: "secret1", Role: "donor"}, true},
		{"valid admin", schemas.RegistrationRequest{Name: "Root", Email: "root@example.com", Password: "secret1", Role: "admin"}, true},
		{"unknown role", schemas.RegistrationRequest{Name: "Asha", Email: "asha@example.com", Password: "secret1", Role: "chef"}, false},
		{"short password", schemas.RegistrationRequest{Name: "Asha", Email: "asha@example.com", Password: "12345", Role: "donor"}, false},
		{"bad email", schemas.RegistrationRequest{Name: "Asha", Email: "asha@", Password: "secret1", Role: "donor"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate.Struct(&tc.request)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCreateDonationValidation(t *testing.T) {
	v := GetValidator()

	valid := schemas.CreateDonationRequest{FoodType: "Rice", Quantity: "5kg", ExpiryTime: "2026-05-01T18:00"}
	assert.NoError(t, v.Validate.Struct(&valid))

	badTime := schemas.CreateDonationRequest{FoodType: "Rice", Quantity: "5kg", ExpiryTime: "tomorrow"}
	assert.Error(t, v.Validate.Struct(&badTime))

	missingFood := schemas.CreateDonationRequest{Quantity: "5kg", ExpiryTime: "2026-05-01T18:00:00Z"}
	assert.Error(t, v.Validate.Struct(&missingFood))
}

func TestSanitizeData(t *testing.T) {
	v := GetValidator()

	request := &schemas.RegistrationRequest{
		Name:     "<script>alert(1)</script>Asha",
		Password: "<b>secret</b>",
	}
	v.SanitizeData(request)

	assert.Equal(t, "Asha", request.Name)
	assert.Equal(t, "<b>secret</b>", request.Password)
}
