package managers_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foodconnect/internal/managers"
	"foodconnect/internal/managers/mocks"
	"foodconnect/internal/repositories"
	"foodconnect/internal/schemas"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type donationFixture struct {
	mgr       managers.DonationMgr
	donations *repositories.DonationMemoryRepository
	users     *repositories.UserMemoryRepository
	mailMgr   *mocks.MockMailManager
	donor     *schemas.User
	volunteer *schemas.User
}

func newDonationFixture(t *testing.T, otps ...string) *donationFixture {
	t.Helper()

	donations := repositories.NewDonationMemoryRepository()
	users := repositories.NewUserMemoryRepository()

	donor := &schemas.User{ID: uuid.New(), Name: "Dana", Email: "dana@example.com", Role: schemas.RoleDonor}
	volunteer := &schemas.User{ID: uuid.New(), Name: "Vic", Email: "vic@example.com", Role: schemas.RoleVolunteer}
	require.NoError(t, users.Create(context.Background(), donor))
	require.NoError(t, users.Create(context.Background(), volunteer))

	mailMgr := &mocks.MockMailManager{}
	mailMgr.On("SendClaimNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mailMgr.On("SendPickupConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	opts := []managers.DonationManagerOption{managers.WithClock(fixedClock{now: testNow})}
	if len(otps) > 0 {
		var mu sync.Mutex
		next := 0
		opts = append(opts, managers.WithOTPGenerator(func() (string, error) {
			mu.Lock()
			defer mu.Unlock()
			otp := otps[next%len(otps)]
			next++
			return otp, nil
		}))
	}

	return &donationFixture{
		mgr:       managers.NewDonationManager(donations, users, mailMgr, opts...),
		donations: donations,
		users:     users,
		mailMgr:   mailMgr,
		donor:     donor,
		volunteer: volunteer,
	}
}

func (f *donationFixture) create(t *testing.T) *schemas.Donation {
	t.Helper()
	donation, err := f.mgr.Create(context.Background(), f.donor.ID, schemas.DonationDetails{
		FoodType:   "Rice",
		Quantity:   "5kg",
		ExpiryTime: testNow.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	return donation
}

func assertFieldInvariants(t *testing.T, d *schemas.Donation) {
	t.Helper()
	switch d.Status {
	case schemas.StatusAvailable:
		assert.Nil(t, d.ClaimedBy)
		assert.Nil(t, d.ClaimedAt)
		assert.Nil(t, d.OTP)
		assert.Nil(t, d.PickedUpAt)
	case schemas.StatusClaimed:
		assert.NotNil(t, d.ClaimedBy)
		assert.NotNil(t, d.ClaimedAt)
		assert.NotNil(t, d.OTP)
		assert.Nil(t, d.PickedUpAt)
	case schemas.StatusPickedUp:
		assert.NotNil(t, d.PickedUpAt)
		assert.Nil(t, d.OTP)
	}
}

func TestCreateValidation(t *testing.T) {
	f := newDonationFixture(t)

	tests := []struct {
		name    string
		details schemas.DonationDetails
		field   string
	}{
		{"missing food type", schemas.DonationDetails{Quantity: "5kg", ExpiryTime: testNow}, "foodType"},
		{"blank quantity", schemas.DonationDetails{FoodType: "Rice", Quantity: "  ", ExpiryTime: testNow}, "quantity"},
		{"missing expiry", schemas.DonationDetails{FoodType: "Rice", Quantity: "5kg"}, "expiryTime"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.mgr.Create(context.Background(), f.donor.ID, tc.details)
			var validationErr *managers.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}
}

func TestCreateDefaults(t *testing.T) {
	f := newDonationFixture(t)
	donation := f.create(t)

	assert.Equal(t, schemas.StatusAvailable, donation.Status)
	assert.Equal(t, schemas.DefaultAddress, donation.Address)
	assert.Equal(t, f.donor.ID, donation.DonorID)
	assert.Equal(t, testNow, donation.CreatedAt)
	assertFieldInvariants(t, donation)
}

// Scenario A
func TestHandoffHappyPath(t *testing.T) {
	f := newDonationFixture(t)
	donation := f.create(t)

	claimed, err := f.mgr.Claim(context.Background(), donation.ID, f.volunteer.ID)
	require.NoError(t, err)
	assert.Equal(t, schemas.StatusClaimed, claimed.Status)
	require.NotNil(t, claimed.OTP)
	assert.Regexp(t, `^[0-9]{4}$`, *claimed.OTP)
	assert.Equal(t, f.volunteer.ID, *claimed.ClaimedBy)
	assert.Equal(t, testNow, *claimed.ClaimedAt)
	assertFieldInvariants(t, claimed)

	picked, err := f.mgr.VerifyPickup(context.Background(), donation.ID, f.volunteer.ID, *claimed.OTP)
	require.NoError(t, err)
	assert.Equal(t, schemas.StatusPickedUp, picked.Status)
	assert.Nil(t, picked.OTP)
	assert.Equal(t, testNow, *picked.PickedUpAt)
	assertFieldInvariants(t, picked)

	f.mailMgr.AssertCalled(t, "SendClaimNotification", "dana@example.com", "Dana", "Vic", "Rice", *claimed.OTP)
	f.mailMgr.AssertCalled(t, "SendPickupConfirmation", "dana@example.com", "Dana", "Rice")
}

// Scenario B
func TestVerifyPickupWrongCode(t *testing.T) {
	f := newDonationFixture(t, "1234")
	donation := f.create(t)

	_, err := f.mgr.Claim(context.Background(), donation.ID, f.volunteer.ID)
	require.NoError(t, err)

	_, err = f.mgr.VerifyPickup(context.Background(), donation.ID, f.volunteer.ID, "0000")
	assert.ErrorIs(t, err, managers.ErrOtpMismatch)

	// A mismatch is retryable
	_, err = f.mgr.VerifyPickup(context.Background(), donation.ID, f.volunteer.ID, "12345")
	assert.ErrorIs(t, err, managers.ErrOtpMismatch)

	stored, err := f.donations.Get(context.Background(), donation.ID)
	require.NoError(t, err)
	assert.Equal(t, schemas.StatusClaimed, stored.Status)
	assert.Equal(t, "1234", *stored.OTP)

	_, err = f.mgr.VerifyPickup(context.Background(), donation.ID, f.volunteer.ID, "1234")
	assert.NoError(t, err)
}

// P2: the code cannot be replayed.
func TestVerifyPickupSingleUse(t *testing.T) {
	f := newDonationFixture(t, "4821")
	donation := f.create(t)

	_, err := f.mgr.VerifyPickup(context.Background(), donation.ID, f.volunteer.ID, "4821")
	var stateErr *managers.InvalidStateError
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, schemas.StatusAvailable, stateErr.Current)

	_, err = f.mgr.Claim(context.Background(), donation.ID, f.volunteer.ID)
	require.NoError(t, err)
	_, err = f.mgr.VerifyPickup(context.Background(), donation.ID, f.volunteer.ID, "4821")
	require.NoError(t, err)

	_, err = f.mgr.VerifyPickup(context.Background(), donation.ID, f.volunteer.ID, "4821")
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, schemas.StatusPickedUp, stateErr.Current)
}

// P1 and scenario C
func TestConcurrentClaimSingleWinner(t *testing.T) {
	f := newDonationFixture(t)
	donation := f.create(t)

	const contenders = 20
	volunteers := make([]uuid.UUID, contenders)
	results := make([]*schemas.Donation, contenders)
	errs := make([]error, contenders)

	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		volunteers[i] = uuid.New()
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.mgr.Claim(context.Background(), donation.ID, volunteers[i])
		}(i)
	}
	wg.Wait()

	winners := 0
	for i := range errs {
		if errs[i] == nil {
			winners++
			assert.Equal(t, volunteers[i], *results[i].ClaimedBy)
			continue
		}
		assert.ErrorIs(t, errs[i], managers.ErrInvalidState)
	}
	assert.Equal(t, 1, winners)
}

// P3
func TestTerminalStateIsSticky(t *testing.T) {
	f := newDonationFixture(t, "7777")
	donation := f.create(t)

	_, err := f.mgr.Claim(context.Background(), donation.ID, f.volunteer.ID)
	require.NoError(t, err)
	_, err = f.mgr.VerifyPickup(context.Background(), donation.ID, f.volunteer.ID, "7777")
	require.NoError(t, err)

	_, err = f.mgr.Claim(context.Background(), donation.ID, uuid.New())
	assert.ErrorIs(t, err, managers.ErrInvalidState)
	_, err = f.mgr.VerifyPickup(context.Background(), donation.ID, f.volunteer.ID, "7777")
	assert.ErrorIs(t, err, managers.ErrInvalidState)
	err = f.mgr.Remove(context.Background(), donation.ID, f.donor.ID)
	assert.ErrorIs(t, err, managers.ErrInvalidState)
}

// P4 and scenario D
func TestRemove(t *testing.T) {
	f := newDonationFixture(t)

	t.Run("other caller", func(t *testing.T) {
		donation := f.create(t)
		err := f.mgr.Remove(context.Background(), donation.ID, f.volunteer.ID)
		assert.ErrorIs(t, err, managers.ErrForbidden)
	})

	t.Run("claimed donation", func(t *testing.T) {
		donation := f.create(t)
		claimed, err := f.mgr.Claim(context.Background(), donation.ID, f.volunteer.ID)
		require.NoError(t, err)

		err = f.mgr.Remove(context.Background(), donation.ID, f.donor.ID)
		var stateErr *managers.InvalidStateError
		require.True(t, errors.As(err, &stateErr))
		assert.Equal(t, schemas.StatusClaimed, stateErr.Current)

		unchanged, err := f.donations.Get(context.Background(), donation.ID)
		require.NoError(t, err)
		assert.Equal(t, claimed, unchanged)
	})

	t.Run("owner of available donation", func(t *testing.T) {
		donation := f.create(t)
		require.NoError(t, f.mgr.Remove(context.Background(), donation.ID, f.donor.ID))

		_, err := f.donations.Get(context.Background(), donation.ID)
		assert.ErrorIs(t, err, repositories.ErrNoRecord)
	})

	t.Run("unknown donation", func(t *testing.T) {
		err := f.mgr.Remove(context.Background(), uuid.New(), f.donor.ID)
		assert.ErrorIs(t, err, managers.ErrNotFound)
	})
}

func TestClaimUnknownDonation(t *testing.T) {
	f := newDonationFixture(t)
	_, err := f.mgr.Claim(context.Background(), uuid.New(), f.volunteer.ID)
	assert.ErrorIs(t, err, managers.ErrNotFound)

	_, err = f.mgr.VerifyPickup(context.Background(), uuid.New(), f.volunteer.ID, "1234")
	assert.ErrorIs(t, err, managers.ErrNotFound)
}

func TestListings(t *testing.T) {
	f := newDonationFixture(t, "1234")
	first := f.create(t)
	second := f.create(t)
	third := f.create(t)

	_, err := f.mgr.Claim(context.Background(), first.ID, f.volunteer.ID)
	require.NoError(t, err)
	_, err = f.mgr.Claim(context.Background(), third.ID, f.volunteer.ID)
	require.NoError(t, err)
	_, err = f.mgr.VerifyPickup(context.Background(), third.ID, f.volunteer.ID, "1234")
	require.NoError(t, err)

	available, err := f.mgr.ListAvailable(context.Background())
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, second.ID, available[0].ID)

	// Completed pickups stay in the volunteer's history.
	claimed, err := f.mgr.ListClaimedBy(context.Background(), f.volunteer.ID)
	require.NoError(t, err)
	require.Len(t, claimed, 2)
	statuses := map[uuid.UUID]schemas.DonationStatus{}
	for _, d := range claimed {
		statuses[d.ID] = d.Status
		assertFieldInvariants(t, d)
	}
	assert.Equal(t, schemas.StatusClaimed, statuses[first.ID])
	assert.Equal(t, schemas.StatusPickedUp, statuses[third.ID])

	none, err := f.mgr.ListClaimedBy(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)

	owned, err := f.mgr.ListOwnedBy(context.Background(), f.donor.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 3)
	for _, d := range owned {
		assertFieldInvariants(t, d)
	}
}

func TestMailFailureDoesNotFailClaim(t *testing.T) {
	donations := repositories.NewDonationMemoryRepository()
	users := repositories.NewUserMemoryRepository()
	donor := &schemas.User{ID: uuid.New(), Name: "Dana", Email: "dana@example.com", Role: schemas.RoleDonor}
	require.NoError(t, users.Create(context.Background(), donor))

	mailMgr := &mocks.MockMailManager{}
	mailMgr.On("SendClaimNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("mailgun unavailable"))

	mgr := managers.NewDonationManager(donations, users, mailMgr)
	donation, err := mgr.Create(context.Background(), donor.ID, schemas.DonationDetails{
		FoodType: "Bread", Quantity: "10 meals", ExpiryTime: testNow,
	})
	require.NoError(t, err)

	claimed, err := mgr.Claim(context.Background(), donation.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, schemas.StatusClaimed, claimed.Status)
	mailMgr.AssertNumberOfCalls(t, "SendClaimNotification", 1)
}
