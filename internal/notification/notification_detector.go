package notification

import (
	"bytes"
	"encoding/json"
	"time"

	"go-otta/internal/domain"
)

// DefaultRecency is how old a change may be and still be announced.
const DefaultRecency = 5 * time.Second

// DetectChangedLog guesses which entry a whole-collection write changed:
// the entry in newRaw with the latest checkOut (or checkIn when open). It
// reports false when newRaw is malformed or empty, or when that timestamp
// is more than threshold before now, or when the write did not change the
// collection at all. A back-dated edit saved alongside a
// live one can be missed; the snapshots carry no diff to do better.
func DetectChangedLog(oldRaw, newRaw []byte, now time.Time, threshold time.Duration) (domain.TimeLog, bool) {
	if oldRaw != nil && bytes.Equal(oldRaw, newRaw) {
		return domain.TimeLog{}, false
	}

	var logs []domain.TimeLog
	if err := json.Unmarshal(newRaw, &logs); err != nil || len(logs) == 0 {
		return domain.TimeLog{}, false
	}

	latest := 0
	for i := 1; i < len(logs); i++ {
		if logs[i].LatestAt().After(logs[latest].LatestAt()) {
			latest = i
		}
	}

	if now.Sub(logs[latest].LatestAt()) > threshold {
		return domain.TimeLog{}, false
	}
	return logs[latest], true
}
