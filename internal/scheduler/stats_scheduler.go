package scheduler

import (
	"github.com/glowsouk/glowsouk-backend/internal/app/service"
	"github.com/glowsouk/glowsouk-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// StatsScheduler 제품 통계 야간 재계산 스케줄러
// 증분 집계가 낮에 어긋나도 (부분 실패, 누적 오차) 다음 재계산에서 복구된다.
type StatsScheduler struct {
	cron     *cron.Cron
	statsSvc service.StatsService
}

func NewStatsScheduler(statsSvc service.StatsService) *StatsScheduler {
	return &StatsScheduler{
		cron:     cron.New(),
		statsSvc: statsSvc,
	}
}

// Start 스케줄러 시작
func (s *StatsScheduler) Start() error {
	// 매일 새벽 4시에 전체 제품 통계 재계산
	_, err := s.cron.AddFunc("0 4 * * *", func() {
		logger.Info("Starting scheduled stats recomputation", nil)

		if err := s.statsSvc.RecomputeAll(); err != nil {
			logger.Error("Scheduled stats recomputation finished with errors", err)
			return
		}

		logger.Info("Scheduled stats recomputation completed", nil)
	})
	if err != nil {
		logger.Error("Failed to add cron job for stats recomputation", err)
		return err
	}

	s.cron.Start()
	logger.Info("Stats scheduler started (daily at 4:00 AM)", nil)
	return nil
}

// Stop 스케줄러 중지
func (s *StatsScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Stats scheduler stopped", nil)
}
