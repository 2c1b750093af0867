package service

import (
	"fmt"

	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/repository"
	"github.com/jengzang/timeline-backend-go/internal/stats"
)

// StatsService computes statistics over stored trips and segments. The
// heavy lifting lives in the stats package; this layer loads the working
// set, validates filters and applies defaults.
type StatsService struct {
	tripRepo    *repository.TripRepository
	segmentRepo *repository.SegmentRepository
	placeRepo   *repository.PlaceRepository
}

// NewStatsService creates a new stats service
func NewStatsService(tripRepo *repository.TripRepository, segmentRepo *repository.SegmentRepository, placeRepo *repository.PlaceRepository) *StatsService {
	return &StatsService{
		tripRepo:    tripRepo,
		segmentRepo: segmentRepo,
		placeRepo:   placeRepo,
	}
}

// GetOverview summarizes every trip matching the filter.
func (s *StatsService) GetOverview(filter models.StatsFilter) (*models.OverviewStats, error) {
	trips, err := s.loadTrips(filter)
	if err != nil {
		return nil, err
	}
	overview := stats.Overview(trips)
	return &overview, nil
}

// GetYearlyStats rolls segments and trips up per calendar year.
func (s *StatsService) GetYearlyStats(filter models.StatsFilter) ([]models.YearlyStats, error) {
	segments, err := s.loadSegments(filter)
	if err != nil {
		return nil, err
	}
	trips, err := s.loadTrips(filter)
	if err != nil {
		return nil, err
	}
	return stats.YearlyRollups(segments, trips), nil
}

// GetMonthlyStats rolls segments and trips up per month of one year.
func (s *StatsService) GetMonthlyStats(filter models.StatsFilter) ([]models.MonthlyStats, error) {
	if filter.Year < 1 {
		return nil, fmt.Errorf("year is required")
	}
	segments, err := s.loadSegments(filter)
	if err != nil {
		return nil, err
	}
	trips, err := s.loadTrips(filter)
	if err != nil {
		return nil, err
	}
	return stats.MonthlyRollups(segments, trips, filter.Year), nil
}

// GetFrequentRoutes returns ordered place pairs travelled at least
// min_occurrences times. The threshold defaults to 2.
func (s *StatsService) GetFrequentRoutes(filter models.StatsFilter) ([]models.RoutePair, error) {
	trips, err := s.loadTrips(filter)
	if err != nil {
		return nil, err
	}
	minOccurrences := filter.MinOccurrences
	if minOccurrences < 1 {
		minOccurrences = 2
	}
	return stats.FrequentRoutes(trips, minOccurrences), nil
}

// GetPeakTimes returns the busiest hours of day and days of week.
func (s *StatsService) GetPeakTimes(filter models.StatsFilter) (*models.PeakTimes, error) {
	segments, err := s.loadSegments(filter)
	if err != nil {
		return nil, err
	}
	peaks := stats.PeakTimes(segments, filter.Top)
	return &peaks, nil
}

// GetTransportModes breaks trips down by primary transport mode.
func (s *StatsService) GetTransportModes(filter models.StatsFilter) ([]models.TransportModeStats, error) {
	trips, err := s.loadTrips(filter)
	if err != nil {
		return nil, err
	}
	return stats.TransportModes(trips), nil
}

// GetTopDestinations ranks destination places by trip count, decorated with
// cached place details where available.
func (s *StatsService) GetTopDestinations(filter models.StatsFilter) ([]models.TopDestination, error) {
	trips, err := s.loadTrips(filter)
	if err != nil {
		return nil, err
	}

	var placeIDs []string
	for i := range trips {
		placeIDs = append(placeIDs, trips[i].DestinationPlaceIDs()...)
	}
	placesByID, err := s.placeRepo.GetByIDs(placeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get places: %w", err)
	}

	return stats.TopDestinations(trips, placesByID, filter.Limit), nil
}

// GetSeasonalPatterns rolls trips up by the season of their local start
// month.
func (s *StatsService) GetSeasonalPatterns(filter models.StatsFilter) ([]models.SeasonStats, error) {
	trips, err := s.loadTrips(filter)
	if err != nil {
		return nil, err
	}
	return stats.SeasonalPatterns(trips), nil
}

// GetDistributions histograms trips by duration and distance.
func (s *StatsService) GetDistributions(filter models.StatsFilter) (*models.TripDistributions, error) {
	trips, err := s.loadTrips(filter)
	if err != nil {
		return nil, err
	}
	distributions := stats.Distributions(trips)
	return &distributions, nil
}

// GetLongestTrips returns the longest trips by distance (default) or
// duration.
func (s *StatsService) GetLongestTrips(filter models.StatsFilter) ([]models.Trip, error) {
	if filter.By != "" && filter.By != "distance" && filter.By != "duration" {
		return nil, fmt.Errorf("invalid sort key: %s", filter.By)
	}
	trips, err := s.loadTrips(filter)
	if err != nil {
		return nil, err
	}
	return stats.LongestTrips(trips, filter.Limit, filter.By), nil
}

func (s *StatsService) loadTrips(filter models.StatsFilter) ([]models.Trip, error) {
	if filter.Algorithm != "" && !models.IsValidAlgorithm(filter.Algorithm) {
		return nil, fmt.Errorf("invalid detection algorithm: %s", filter.Algorithm)
	}
	trips, err := s.tripRepo.ListForStats(filter.Algorithm, rangeOf(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to get trips: %w", err)
	}
	return trips, nil
}

func (s *StatsService) loadSegments(filter models.StatsFilter) ([]models.Segment, error) {
	segments, err := s.segmentRepo.ListByTimeRange(rangeOf(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to get segments: %w", err)
	}
	return segments, nil
}

func rangeOf(filter models.StatsFilter) models.TimeRange {
	return models.TimeRange{Start: filter.StartTime, End: filter.EndTime}
}
