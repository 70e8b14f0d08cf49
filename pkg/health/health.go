package health

import (
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// ComponentHealth represents the health status of a single component
type ComponentHealth struct {
	Name        string    `json:"name"`
	Status      Status    `json:"status"`
	Description string    `json:"description,omitempty"`
	LastChecked time.Time `json:"last_checked"`
}

// Snapshot represents overall server health
type Snapshot struct {
	Status        Status            `json:"status"`
	Uptime        int64             `json:"uptime_seconds"`
	Timestamp     time.Time         `json:"timestamp"`
	ActiveUsers   int               `json:"active_users"`
	HistoryLength int               `json:"history_length"`
	Goroutines    int               `json:"goroutines"`
	HeapMB        uint64            `json:"heap_mb"`
	HostMemPct    float64           `json:"host_mem_pct"`
	HostCPUPct    float64           `json:"host_cpu_pct"`
	Components    []ComponentHealth `json:"components"`
}

// Monitor tracks server health
type Monitor struct {
	startTime  time.Time
	mu         sync.RWMutex
	components map[string]*ComponentHealth
}

// NewMonitor creates a new health monitor
func NewMonitor() *Monitor {
	return &Monitor{
		startTime:  time.Now(),
		components: make(map[string]*ComponentHealth),
	}
}

// SetComponentStatus updates the status of a component
func (m *Monitor) SetComponentStatus(name string, status Status, description string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components[name] = &ComponentHealth{
		Name:        name,
		Status:      status,
		Description: description,
		LastChecked: time.Now(),
	}
}

// GetSnapshot returns the current server health. Host-level readings are
// best effort; a probe failure leaves the field at zero.
func (m *Monitor) GetSnapshot(activeUsers, historyLength int) *Snapshot {
	m.mu.RLock()
	components := make([]ComponentHealth, 0, len(m.components))
	overallStatus := StatusHealthy
	for _, comp := range m.components {
		components = append(components, *comp)
		if comp.Status == StatusUnhealthy {
			overallStatus = StatusUnhealthy
		} else if comp.Status == StatusDegraded && overallStatus == StatusHealthy {
			overallStatus = StatusDegraded
		}
	}
	m.mu.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	snapshot := &Snapshot{
		Status:        overallStatus,
		Uptime:        int64(time.Since(m.startTime).Seconds()),
		Timestamp:     time.Now(),
		ActiveUsers:   activeUsers,
		HistoryLength: historyLength,
		Goroutines:    runtime.NumGoroutine(),
		HeapMB:        memStats.Alloc / 1024 / 1024,
		Components:    components,
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		snapshot.HostMemPct = vm.UsedPercent
	}
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		snapshot.HostCPUPct = pcts[0]
	}

	return snapshot
}
