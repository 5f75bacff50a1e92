package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hoopstack/hoops-manager/models"
	"github.com/hoopstack/hoops-manager/repositories"
)

const (
	defaultLeaderLimit = 5
	defaultTrendLimit  = 10
)

// ReportingService serves the aggregations behind the visualize page. All of
// them are scoped to a single tournament the caller can view.
type ReportingService interface {
	TeamStandings(ctx context.Context, tournamentID, currentUserID int) ([]models.StandingRow, error)
	PointsDistribution(ctx context.Context, tournamentID, currentUserID int) ([]models.PointsDistributionRow, error)
	TopScorers(ctx context.Context, tournamentID, currentUserID int) ([]models.PlayerAverageRow, error)
	EfficiencyLeaders(ctx context.Context, tournamentID, currentUserID int) ([]models.PlayerAverageRow, error)
	MatchTrend(ctx context.Context, tournamentID, currentUserID int) ([]models.MatchTrendPoint, error)
	DoubleLeaders(ctx context.Context, tournamentID, currentUserID int) ([]models.DoubleLeaderRow, error)
	TeamRecords(ctx context.Context, tournamentID, currentUserID int) ([]models.TeamRecordRow, error)
	// Dashboard fetches every chart series concurrently.
	Dashboard(ctx context.Context, tournamentID, currentUserID int) (*models.Dashboard, error)
}

type reportingService struct {
	reportingRepo repositories.ReportingRepository
	auth          tournamentAuthorizer
}

func NewReportingService(
	reportingRepo repositories.ReportingRepository,
	tournamentRepo repositories.TournamentRepository,
	accessRepo repositories.AccessRepository,
) ReportingService {
	return &reportingService{
		reportingRepo: reportingRepo,
		auth:          tournamentAuthorizer{tournamentRepo: tournamentRepo, accessRepo: accessRepo},
	}
}

func tournamentFilter(tournamentID int) repositories.ReportingFilter {
	return repositories.ReportingFilter{TournamentID: &tournamentID}
}

func (s *reportingService) TeamStandings(ctx context.Context, tournamentID, currentUserID int) ([]models.StandingRow, error) {
	if _, err := s.auth.canView(ctx, tournamentID, currentUserID); err != nil {
		return nil, err
	}
	return s.reportingRepo.TeamStandings(ctx, tournamentFilter(tournamentID))
}

func (s *reportingService) PointsDistribution(ctx context.Context, tournamentID, currentUserID int) ([]models.PointsDistributionRow, error) {
	if _, err := s.auth.canView(ctx, tournamentID, currentUserID); err != nil {
		return nil, err
	}
	return s.reportingRepo.PointsDistribution(ctx, tournamentFilter(tournamentID))
}

func (s *reportingService) TopScorers(ctx context.Context, tournamentID, currentUserID int) ([]models.PlayerAverageRow, error) {
	if _, err := s.auth.canView(ctx, tournamentID, currentUserID); err != nil {
		return nil, err
	}
	return s.reportingRepo.TopScorers(ctx, tournamentFilter(tournamentID), defaultLeaderLimit)
}

func (s *reportingService) EfficiencyLeaders(ctx context.Context, tournamentID, currentUserID int) ([]models.PlayerAverageRow, error) {
	if _, err := s.auth.canView(ctx, tournamentID, currentUserID); err != nil {
		return nil, err
	}
	return s.reportingRepo.EfficiencyLeaders(ctx, tournamentFilter(tournamentID), defaultLeaderLimit)
}

func (s *reportingService) MatchTrend(ctx context.Context, tournamentID, currentUserID int) ([]models.MatchTrendPoint, error) {
	if _, err := s.auth.canView(ctx, tournamentID, currentUserID); err != nil {
		return nil, err
	}
	return s.matchTrend(ctx, tournamentID)
}

// matchTrend turns the most recent scored matches into chronological trend
// points. The repository returns newest first, so the slice is reversed.
func (s *reportingService) matchTrend(ctx context.Context, tournamentID int) ([]models.MatchTrendPoint, error) {
	matches, err := s.reportingRepo.RecentScoredMatches(ctx, tournamentFilter(tournamentID), defaultTrendLimit)
	if err != nil {
		return nil, err
	}

	points := make([]models.MatchTrendPoint, 0, len(matches))
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		winning, losing := m.Score.Team1Score, m.Score.Team2Score
		if losing > winning {
			winning, losing = losing, winning
		}
		points = append(points, models.MatchTrendPoint{
			MatchID:      m.ID,
			MatchDate:    m.MatchDate,
			WinningScore: winning,
			LosingScore:  losing,
			AverageScore: float64(winning+losing) / 2,
		})
	}
	return points, nil
}

func (s *reportingService) DoubleLeaders(ctx context.Context, tournamentID, currentUserID int) ([]models.DoubleLeaderRow, error) {
	if _, err := s.auth.canView(ctx, tournamentID, currentUserID); err != nil {
		return nil, err
	}
	return s.reportingRepo.DoubleLeaders(ctx, tournamentFilter(tournamentID), defaultLeaderLimit)
}

func (s *reportingService) TeamRecords(ctx context.Context, tournamentID, currentUserID int) ([]models.TeamRecordRow, error) {
	if _, err := s.auth.canView(ctx, tournamentID, currentUserID); err != nil {
		return nil, err
	}
	return s.reportingRepo.TeamRecords(ctx, tournamentFilter(tournamentID))
}

func (s *reportingService) Dashboard(ctx context.Context, tournamentID, currentUserID int) (*models.Dashboard, error) {
	if _, err := s.auth.canView(ctx, tournamentID, currentUserID); err != nil {
		return nil, err
	}

	filter := tournamentFilter(tournamentID)
	dashboard := &models.Dashboard{}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.reportingRepo.TeamStandings(gCtx, filter)
		dashboard.Standings = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.reportingRepo.PointsDistribution(gCtx, filter)
		dashboard.PointsDistribution = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.reportingRepo.TopScorers(gCtx, filter, defaultLeaderLimit)
		dashboard.TopScorers = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.reportingRepo.EfficiencyLeaders(gCtx, filter, defaultLeaderLimit)
		dashboard.EfficiencyLeaders = rows
		return err
	})
	g.Go(func() error {
		points, err := s.matchTrend(gCtx, tournamentID)
		dashboard.MatchTrend = points
		return err
	})
	g.Go(func() error {
		rows, err := s.reportingRepo.DoubleLeaders(gCtx, filter, defaultLeaderLimit)
		dashboard.DoubleLeaders = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.reportingRepo.TeamRecords(gCtx, filter)
		dashboard.TeamRecords = rows
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dashboard, nil
}
