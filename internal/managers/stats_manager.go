package managers

import (
	"context"
	"fmt"
	"math"

	"foodconnect/internal/repositories"
	"foodconnect/internal/schemas"
	"foodconnect/internal/utils"
)

// StatsMgr aggregates platform statistics for the admin panel.
type StatsMgr interface {
	Read(ctx context.Context) (*schemas.StatsDTO, error)
}

// StatsManager computes statistics from the stores on every call.
type StatsManager struct {
	donations repositories.DonationRepository
	users     repositories.UserRepository
}

func NewStatsManager(donations repositories.DonationRepository, users repositories.UserRepository) StatsMgr {
	utils.LogMessage("info", "Initializing stats manager")
	return &StatsManager{donations: donations, users: users}
}

// Read counts donations per state and users per role and estimates the meals rescued
// by completed handoffs.
func (sm *StatsManager) Read(ctx context.Context) (*schemas.StatsDTO, error) {
	byStatus, err := sm.donations.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byRole, err := sm.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := sm.donations.Find(ctx, repositories.DonationFilter{Status: schemas.StatusPickedUp})
	if err != nil {
		return nil, err
	}

	var meals, kilograms float64
	for _, donation := range completed {
		quantity := schemas.ParseQuantity(donation.Quantity)
		meals += quantity.Meals()
		if quantity.Unit == schemas.UnitKilogram {
			kilograms += quantity.Magnitude
		}
	}

	total := 0
	for _, count := range byStatus {
		total += count
	}

	stats := &schemas.StatsDTO{
		TotalDonations:     total,
		ActiveDonations:    byStatus[schemas.StatusAvailable],
		ClaimedDonations:   byStatus[schemas.StatusClaimed],
		CompletedDonations: byStatus[schemas.StatusPickedUp],
		TotalDonors:        byRole[schemas.RoleDonor],
		TotalVolunteers:    byRole[schemas.RoleVolunteer],
		EstimatedMeals:     int(math.Round(meals)),
		SavedKg:            int(math.Round(kilograms)),
	}
	stats.ImpactMessage = fmt.Sprintf("Together we rescued about %d meals from %d completed donations.",
		stats.EstimatedMeals, stats.CompletedDonations)
	return stats, nil
}
