package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/repository"
)

func TestProfileService_GetProfileBundlesAffinities(t *testing.T) {
	db := newServiceDB(t)
	profileRepo := repository.NewProfileRepository(db)
	require.NoError(t, profileRepo.Upsert(&models.UserProfile{
		HomePlaceID:  "place-home",
		HomeLocation: homePoint(),
		WorkPlaceID:  "place-work",
	}))
	require.NoError(t, profileRepo.ReplaceAffinities([]models.TravelModeAffinity{
		{Mode: "DRIVING", Affinity: 0.7},
		{Mode: "WALKING", Affinity: 0.2},
	}))
	svc := NewProfileService(profileRepo)

	resp, err := svc.GetProfile()
	require.NoError(t, err)
	assert.Equal(t, "place-home", resp.Profile.HomePlaceID)
	assert.Equal(t, "place-work", resp.Profile.WorkPlaceID)
	assert.Len(t, resp.Affinities, 2)
}

func TestProfileService_GetProfileMissing(t *testing.T) {
	db := newServiceDB(t)
	svc := NewProfileService(repository.NewProfileRepository(db))

	_, err := svc.GetProfile()
	assert.ErrorContains(t, err, "profile not found")
}
