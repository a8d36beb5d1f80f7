package docker

import "github.com/docker/docker/api/types/container"

// CPUPercent derives the container's CPU usage between the current and the
// previous sample: container delta over system delta, times 100. It is 0 when
// the system delta is not positive.
func CPUPercent(s *container.StatsResponse) float64 {
	if s == nil {
		return 0
	}
	cpuDelta := float64(s.CPUStats.CPUUsage.TotalUsage) - float64(s.PreCPUStats.CPUUsage.TotalUsage)
	systemDelta := float64(s.CPUStats.SystemUsage) - float64(s.PreCPUStats.SystemUsage)
	if systemDelta <= 0 {
		return 0
	}
	return cpuDelta / systemDelta * 100.0
}
