package ui

import (
	"strings"
	"time"
)

var bootLines = []string{
	"MATRIX_TASKS_SYS v2.0",
	"========================",
	"",
	"[INIT] Loading kernel modules...",
	"[OK] Core systems online",
	"[INIT] Establishing neural link...",
	"[OK] Connection secured",
	"[INIT] Loading task database...",
	"[OK] Data integrity verified",
	"[INIT] Initializing UI renderer...",
	"[OK] Display matrix active",
	"",
	"SYSTEM READY.",
	"Entering main interface...",
}

const (
	bootStartDelay  = 300 * time.Millisecond
	bootFinishDelay = 600 * time.Millisecond
)

// bootDelay is the pause after revealing line. intn returns a value in
// [0,n).
func bootDelay(line string, intn func(int) int) time.Duration {
	lo, hi := 80, 200
	if strings.Contains(line, "[OK]") {
		lo, hi = 150, 300
	}
	return time.Duration(lo+intn(hi-lo+1)) * time.Millisecond
}
