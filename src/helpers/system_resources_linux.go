//go:build linux

package helpers

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// GetTotalSystemMemoryMB returns physical memory in MB, capped by the cgroup
// v2 memory limit when running inside a container.
func GetTotalSystemMemoryMB() int {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	total := uint64(info.Totalram) * uint64(info.Unit) / mb

	if limit, ok := cgroupLimitMB("/sys/fs/cgroup/memory.max"); ok && limit < total {
		total = limit
	}
	return int(total)
}

func cgroupLimitMB(path string) (uint64, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	v := strings.TrimSpace(string(raw))
	if v == "" || v == "max" {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n / mb, true
}
