package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const numberPrefix = "ORD"

// NewNumber returns a human-readable order number, ORD-YYYYMMDD-XXXXXXXX.
// The suffix is random; the orders.order_number UNIQUE constraint settles
// the rare collision and placement retries with a fresh number.
func NewNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return numberPrefix + "-" + now.UTC().Format("20060102") + "-" + suffix
}
