package mocks

import "github.com/stretchr/testify/mock"

type MockMailManager struct {
	mock.Mock
}

func (m *MockMailManager) SendClaimNotification(email, donorName, volunteerName, foodType, otp string) error {
	args := m.Called(email, donorName, volunteerName, foodType, otp)
	return args.Error(0)
}

func (m *MockMailManager) SendPickupConfirmation(email, donorName, foodType string) error {
	args := m.Called(email, donorName, foodType)
	return args.Error(0)
}
