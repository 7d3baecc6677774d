package helpers

import (
	"runtime/debug"

	"stock-board/src/logger"
)

const (
	minMemoryLimitMB = 512
	mb               = 1024 * 1024
)

// recommendedLimit returns 75% of totalMB, never less than 512MB unless the
// machine itself has less. Unknown RAM yields 512MB.
func recommendedLimit(totalMB int) int {
	if totalMB <= 0 {
		return minMemoryLimitMB
	}
	limit := int(float64(totalMB) * 0.75)
	if limit < minMemoryLimitMB {
		if totalMB < minMemoryLimitMB {
			return totalMB
		}
		return minMemoryLimitMB
	}
	return limit
}

// ApplyMemoryLimit sets the runtime soft memory limit so the resident
// datasets trigger GC before the host starts swapping. It returns the limit
// in MB.
func ApplyMemoryLimit(log *logger.Logger) int {
	total := GetTotalSystemMemoryMB()
	if total == 0 {
		log.Warning("Could not determine system memory. Defaulting to %dMB.", minMemoryLimitMB)
	}
	limit := recommendedLimit(total)
	debug.SetMemoryLimit(int64(limit) * mb)
	log.Info("Memory limit set to %dMB (system %dMB)", limit, total)
	return limit
}
