package properties

import (
	"time"

	"github.com/rs/zerolog"
)

// ExpirePendingJob flips Pending properties untouched for longer than
// the configured TTL to Inactive. Registered nightly; disabled when the
// TTL is zero.
type ExpirePendingJob struct {
	repo    *Repository
	ttlDays int
	log     zerolog.Logger
}

// NewExpirePendingJob creates a new pending-expiry job
func NewExpirePendingJob(repo *Repository, ttlDays int, log zerolog.Logger) *ExpirePendingJob {
	return &ExpirePendingJob{
		repo:    repo,
		ttlDays: ttlDays,
		log:     log.With().Str("job", "expire_pending").Logger(),
	}
}

// Name returns the job name
func (j *ExpirePendingJob) Name() string {
	return "expire_pending"
}

// Run expires stale pending properties
func (j *ExpirePendingJob) Run() error {
	if j.ttlDays <= 0 {
		return nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -j.ttlDays)

	expired, err := j.repo.ExpireStalePending(cutoff)
	if err != nil {
		return err
	}

	if expired > 0 {
		j.log.Info().
			Int64("expired", expired).
			Time("cutoff", cutoff).
			Msg("Expired stale pending properties")
	}
	return nil
}
