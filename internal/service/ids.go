package service

import (
	"fmt"
	"math/rand"
	"time"
)

// newCode builds short prefixed business codes ("HD…" invoices, "VE…"
// tickets, "LC…" trips, "YC…" cancellation requests): millisecond clock
// tail plus a random suffix, unique enough for human-facing identifiers.
func newCode(prefix string) string {
	timestamp := time.Now().UnixMilli() % 100000
	return fmt.Sprintf("%s%05d%04d", prefix, timestamp, 1000+rand.Intn(9000))
}
