package utils

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	idMu     sync.Mutex
	lastUnit int64
)

// GenerateReleaseID returns an opaque, time-based id for a new release version.
// The millisecond prefix keeps ids roughly monotonic; the uuid fragment breaks
// ties between instances.
func GenerateReleaseID() string {
	idMu.Lock()
	unit := time.Now().UnixMilli()
	if unit <= lastUnit {
		unit = lastUnit + 1
	}
	lastUnit = unit
	idMu.Unlock()

	return fmt.Sprintf("%s-%s", strconv.FormatInt(unit, 36), uuid.New().String()[:8])
}
