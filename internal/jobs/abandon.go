package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prepmate/interview-server-go/internal/audit"
	"github.com/prepmate/interview-server-go/internal/repository"
)

// AbandonJob periodically marks stale in-progress interviews as
// abandoned. An interview whose live session expired from the cache can
// never advance again; this sweep reconciles the durable status.
type AbandonJob struct {
	interviewRepo repository.InterviewRepository
	interval      time.Duration
	maxAge        time.Duration
	done          chan struct{}
}

func NewAbandonJob(interviewRepo repository.InterviewRepository, interval, maxAge time.Duration) *AbandonJob {
	return &AbandonJob{
		interviewRepo: interviewRepo,
		interval:      interval,
		maxAge:        maxAge,
		done:          make(chan struct{}),
	}
}

func (j *AbandonJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Dur("maxAge", j.maxAge).Msg("abandon job started")
}

func (j *AbandonJob) Stop() {
	close(j.done)
	log.Info().Msg("abandon job stopped")
}

func (j *AbandonJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.sweep()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *AbandonJob) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := j.interviewRepo.MarkAbandonedBefore(ctx, time.Now().Add(-j.maxAge))
	if err != nil {
		log.Error().Err(err).Msg("failed to mark abandoned interviews")
	} else if count > 0 {
		audit.Log(ctx, audit.Event{
			Type:    audit.EventInterviewAbandon,
			Details: map[string]interface{}{"count": count},
		})
		log.Info().Int64("count", count).Msg("marked stale interviews as abandoned")
	}
}
