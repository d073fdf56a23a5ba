package telemetry

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/process"
)

// Hooks implements mcp-go server lifecycle callbacks for basic telemetry
// and logging. It is intentionally minimal; metrics backends can be added
// later under this package.
type Hooks struct {
	logger zerolog.Logger
}

// NewHooks constructs a Hooks instance with the provided logger.
func NewHooks(logger zerolog.Logger) *Hooks {
	return &Hooks{logger: logger}
}

// OnServerStart is called when the server begins accepting connections.
func (h *Hooks) OnServerStart() {
	h.logger.Info().Msg("comparison server starting")
}

// OnServerStop is called during server shutdown.
func (h *Hooks) OnServerStop() {
	h.logger.Info().Msg("comparison server stopping")
}

// OnSessionStart records the start of a client session.
func (h *Hooks) OnSessionStart(sessionID string) {
	h.logger.Info().Str("session_id", sessionID).Msg("session started")
}

// OnSessionEnd records the end of a client session.
func (h *Hooks) OnSessionEnd(sessionID string) {
	h.logger.Info().Str("session_id", sessionID).Msg("session ended")
}

// OnToolCall logs tool invocations and their outcomes.
func (h *Hooks) OnToolCall(sessionID, toolName string, duration time.Duration, err error) {
	evt := h.logger.Info().Str("session_id", sessionID).Str("tool", toolName).Dur("duration", duration)
	if err != nil {
		h.logger.Error().Str("session_id", sessionID).Str("tool", toolName).Dur("duration", duration).Err(err).Msg("tool call error")
		return
	}
	evt.Msg("tool call completed")
}

// LogResourceUsage samples process RSS and CPU percent via gopsutil and
// logs them alongside a comparison's row/column volume. Intended to be
// called around large comparisons so operators can correlate memory
// growth with input size; sampling failures are logged, not fatal.
func (h *Hooks) LogResourceUsage(comparisonID string, refRows, refCols, candRows, candCols int) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		h.logger.Warn().Str("comparison_id", comparisonID).Err(err).Msg("resource telemetry unavailable")
		return
	}
	memInfo, memErr := proc.MemoryInfo()
	cpuPercent, cpuErr := proc.CPUPercent()

	evt := h.logger.Info().
		Str("comparison_id", comparisonID).
		Int("reference_rows", refRows).
		Int("reference_cols", refCols).
		Int("candidate_rows", candRows).
		Int("candidate_cols", candCols)

	if memErr == nil && memInfo != nil {
		evt = evt.Uint64("rss_bytes", memInfo.RSS)
	}
	if cpuErr == nil {
		evt = evt.Float64("cpu_percent", cpuPercent)
	}
	evt.Msg("comparison resource usage")
}
