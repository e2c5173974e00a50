package tempo

// MsToTicks converts an elapsed millisecond count to ticks at the given
// bpm and ppqn: ticks-per-minute is bpm*ppqn, so ticks-per-ms is
// bpm*ppqn/60000.
func MsToTicks(ms int64, bpm float64, ppqn int64) int64 {
	return int64(float64(ms) * bpm * float64(ppqn) / 60000.0)
}

// TicksToMs is the inverse of MsToTicks: it converts a tick duration
// into milliseconds at the given bpm and ppqn.
func TicksToMs(ticks int64, bpm float64, ppqn int64) int64 {
	return int64(float64(ticks) * 60000.0 / (bpm * float64(ppqn)))
}

// MsToNS converts milliseconds to nanoseconds.
func MsToNS(ms int64) int64 {
	return ms * 1_000_000
}

// TicksToNS converts a tick duration directly to nanoseconds at the
// given bpm/ppqn, matching scenario-level "ms_to_ns(d_ticks)" reasoning
// without an intermediate rounding step through milliseconds.
func TicksToNS(ticks int64, bpm float64, ppqn int64) int64 {
	return int64(float64(ticks) * 60_000_000_000.0 / (bpm * float64(ppqn)))
}
