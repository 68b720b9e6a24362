package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/Dosada05/seqel-esports/repositories"
)

type DashboardService interface {
	GetStats(ctx context.Context) (models.DashboardStats, error)
}

type dashboardService struct {
	statsRepo repositories.StatsRepository
}

func NewDashboardService(statsRepo repositories.StatsRepository) DashboardService {
	return &dashboardService{statsRepo: statsRepo}
}

// GetStats counts the rows of each table concurrently.
func (s *dashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	targets := []struct {
		table string
		dst   *int
	}{
		{"points", &stats.Points},
		{"games", &stats.Games},
		{"rounds", &stats.Rounds},
		{"events", &stats.Events},
		{"areas", &stats.Areas},
		{"schools", &stats.Schools},
		{"students", &stats.Students},
		{"matches", &stats.Matches},
	}

	g, gCtx := errgroup.WithContext(ctx)
	for _, target := range targets {
		target := target
		g.Go(func() error {
			n, err := s.statsRepo.Count(gCtx, target.table)
			if err != nil {
				return err
			}
			*target.dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, fmt.Errorf("failed to collect dashboard stats: %w", err)
	}
	return stats, nil
}
