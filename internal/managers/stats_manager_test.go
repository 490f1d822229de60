package managers_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodconnect/internal/managers"
	"foodconnect/internal/repositories"
	"foodconnect/internal/schemas"
)

func TestStatsRead(t *testing.T) {
	ctx := context.Background()
	donations := repositories.NewDonationMemoryRepository()
	users := repositories.NewUserMemoryRepository()

	for _, role := range []schemas.Role{schemas.RoleDonor, schemas.RoleDonor, schemas.RoleVolunteer, schemas.RoleAdmin} {
		require.NoError(t, users.Create(ctx, &schemas.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Role: role}))
	}

	now := time.Now()
	pickedUp := func(quantity string) *schemas.Donation {
		volunteer := uuid.New()
		return &schemas.Donation{
			ID: uuid.New(), DonorID: uuid.New(), FoodType: "Food", Quantity: quantity, ExpiryTime: now,
			Status: schemas.StatusPickedUp, ClaimedBy: &volunteer, ClaimedAt: &now, PickedUpAt: &now, CreatedAt: now,
		}
	}
	seed := []*schemas.Donation{
		pickedUp("2.5 kg"),
		pickedUp("12 meals"),
		pickedUp("3 boxes"),
		pickedUp("some bread"),
		{ID: uuid.New(), DonorID: uuid.New(), FoodType: "Soup", Quantity: "4kg", Status: schemas.StatusAvailable, CreatedAt: now},
	}
	for _, d := range seed {
		require.NoError(t, donations.Create(ctx, d))
	}

	stats, err := managers.NewStatsManager(donations, users).Read(ctx)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.TotalDonations)
	assert.Equal(t, 1, stats.ActiveDonations)
	assert.Equal(t, 0, stats.ClaimedDonations)
	assert.Equal(t, 4, stats.CompletedDonations)
	assert.Equal(t, 2, stats.TotalDonors)
	assert.Equal(t, 1, stats.TotalVolunteers)
	// 2.5kg * 4 + 12 meals + 3 * 2 + 0
	assert.Equal(t, 28, stats.EstimatedMeals)
	assert.Equal(t, 3, stats.SavedKg)
	assert.Contains(t, stats.ImpactMessage, "28 meals")
}
