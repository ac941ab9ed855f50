package sales

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const transactionNumberPrefix = "TXN-"

// numberPrefixFor returns the per-day prefix, e.g. "TXN-20260830-".
func numberPrefixFor(day time.Time) string {
	return transactionNumberPrefix + day.Format("20060102") + "-"
}

// nextTransactionNumber allocates the next number in the day's sequence by
// reading the highest persisted number for the day. The counter restarts at
// 0001 each day. Allocation must run inside the commit transaction; the
// unique index on transaction_number catches the losing side of a race and
// the caller retries.
func nextTransactionNumber(ctx context.Context, repo Repository, day time.Time) (string, error) {
	prefix := numberPrefixFor(day)
	latest, err := repo.LatestNumberForPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	next := 1
	if latest != "" {
		suffix := strings.TrimPrefix(latest, prefix)
		parsed, err := strconv.Atoi(suffix)
		if err != nil {
			return "", fmt.Errorf("malformed transaction number %q: %w", latest, err)
		}
		next = parsed + 1
	}
	return fmt.Sprintf("%s%04d", prefix, next), nil
}
