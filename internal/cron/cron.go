package cron

import (
	"context"
	"time"

	"staffhub/config"
	"staffhub/internal/core"
	mongoRepo "staffhub/internal/database/mongodb/repository"
	redisRepo "staffhub/internal/database/redis/repository"
	"staffhub/internal/telemetry"

	"github.com/google/wire"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(NewCron)

type Cron struct {
	logger      *zap.Logger
	trace       *telemetry.Trace
	conf        *config.Configuration
	server      *cron.Cron
	assignments *mongoRepo.ShiftAssignmentRepository
	cache       *redisRepo.RotaCacheRepository
}

// NewCron .
func NewCron(
	logger *zap.Logger,
	trace *telemetry.Trace,
	conf *config.Configuration,
	assignments *mongoRepo.ShiftAssignmentRepository,
	cache *redisRepo.RotaCacheRepository,
) *Cron {
	server := cron.New(
		cron.WithSeconds(),
	)

	return &Cron{
		logger:      logger,
		trace:       trace,
		conf:        conf,
		server:      server,
		assignments: assignments,
		cache:       cache,
	}
}

func (c *Cron) Run() error {
	// 過期掃描：截止日前仍是 Scheduled 的班次標為 Missed
	spec := c.conf.Rota.MissedSweepSpec
	if spec == "" {
		spec = "0 10 0 * * *" // 每天 00:10:00
	}
	if _, err := c.server.AddFunc(spec, c.missedSweep); err != nil {
		return err
	}

	c.server.Start()
	return nil
}

func (c *Cron) missedSweep() {
	ctx, span, end := c.trace.WithSpan(context.Background(), string(core.SpanMissedSweepJob))
	defer end(nil)

	cutoff := time.Now().UTC().Truncate(24 * time.Hour)
	count, err := c.assignments.MarkMissedBefore(ctx, cutoff)
	if err != nil {
		end(err)
		c.logger.Error("missed sweep failed", zap.Error(err))
		return
	}
	type sweepMeta struct {
		Cutoff string `trace:"sweep.cutoff"`
		Count  int64  `trace:"sweep.marked"`
	}
	c.trace.ApplyTraceAttributes(span, sweepMeta{Cutoff: cutoff.Format("2006-01-02"), Count: count})
	if count > 0 {
		_ = c.cache.Bump(ctx)
		c.logger.Info("missed sweep marked assignments",
			zap.Int64("count", count),
			zap.String("cutoff", cutoff.Format("2006-01-02")),
		)
	}
}

func (c *Cron) Stop(ctx context.Context) error {
	c.server.Stop()
	return nil
}
