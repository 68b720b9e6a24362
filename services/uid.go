package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Dosada05/seqel-esports/repositories"
	"github.com/Dosada05/seqel-esports/scoring"
)

const maxUIDAttempts = 5

// withUIDRetry runs fn in a transaction and repeats the whole unit of work
// when a concurrent writer took the UID4 it allocated.
func withUIDRetry(ctx context.Context, tx repositories.Transactor, logger *slog.Logger, fn func(exec repositories.SQLExecutor) error) error {
	var err error
	for attempt := 1; attempt <= maxUIDAttempts; attempt++ {
		err = tx.WithinTx(ctx, fn)
		if !retryableConflict(err) {
			return err
		}
		logger.WarnContext(ctx, "uid4 collision, retrying", slog.Int("attempt", attempt))
	}
	return err
}

// retryableConflict reports a lost race on a unique column. A school name
// conflict means another request created the school first; the next attempt
// finds and reuses it.
func retryableConflict(err error) bool {
	return errors.Is(err, repositories.ErrUIDConflict) || errors.Is(err, repositories.ErrSchoolNameConflict)
}

// nextUID allocates from the public pool, keeping the guest range as a fallback.
func nextUID(used []int) (int, error) {
	uid, err := scoring.AllocateUID(used, scoring.GuestRange)
	if err != nil {
		if errors.Is(err, scoring.ErrPoolExhausted) {
			return 0, ErrUIDPoolExhausted
		}
		return 0, err
	}
	return uid, nil
}

// uidPool hands out identifiers for several inserts in one transaction.
type uidPool struct {
	used []int
}

func (p *uidPool) take() (int, error) {
	uid, err := nextUID(p.used)
	if err != nil {
		return 0, err
	}
	p.used = append(p.used, uid)
	return uid, nil
}
