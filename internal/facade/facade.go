// Package facade implements the dual-backend persistence facades over the
// remote document backend and the local key-value store.
//
// Backend selection policy, applied per operation:
//
//  1. If a remote backend is configured and holds an authenticated session,
//     try the operation there first.
//  2. If step 1 is skipped or fails, fall back to the local store. Remote
//     failures are logged, never surfaced.
//  3. Local-store failures are the operation's failure.
//
// Data is NOT synchronized between the two backends: whichever backend served
// the most recent write is the one whose data is visible on the next read
// from that backend. This is a documented limitation, not a bug to fix here.
package facade

import (
	"errors"

	"go.uber.org/zap"

	"github.com/avillega/rimario/internal/errs"
)

// logFallback records a swallowed remote-backend error before the local path
// runs. An unavailable backend (not configured for this session, token
// expired) is routine and logged at debug; real failures at warn.
func logFallback(log *zap.Logger, op string, err error) {
	if errors.Is(err, errs.ErrBackendUnavailable) {
		log.Debug("remote backend unavailable, using local store", zap.String("op", op))
		return
	}
	log.Warn("remote backend failed, falling back to local store",
		zap.String("op", op), zap.Error(err))
}
