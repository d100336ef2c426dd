// Package formatter produces log line text: a cached wall-clock timestamp,
// severity labels, and the fixed "<timestamp> [<LEVEL>] <message>" line layout.
package formatter

import (
	"fmt"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"
)

// DefaultTimestampFormat renders as YYYY-MM-DD HH:MM:SS
const DefaultTimestampFormat = "2006-01-02 15:04:05"

// Clock caches the formatted timestamp for the current wall-clock second.
// The cache has its own lock so unrelated streams never contend on the logger lock for it.
type Clock struct {
	mu        sync.Mutex
	layout    string
	now       func() time.Time
	cachedSec int64
	cached    string
}

// NewClock creates a clock formatting with the given layout
func NewClock(layout string) *Clock {
	if layout == "" {
		layout = DefaultTimestampFormat
	}
	return &Clock{
		layout:    layout,
		now:       time.Now,
		cachedSec: -1,
	}
}

// Now returns the current instant
func (c *Clock) Now() time.Time {
	return c.now()
}

// Timestamp returns the formatted current time, recomputed at most once per second
func (c *Clock) Timestamp() string {
	now := c.now()
	sec := now.Unix()

	c.mu.Lock()
	defer c.mu.Unlock()

	if sec != c.cachedSec {
		c.cached = now.Format(c.layout)
		c.cachedSec = sec
	}
	return c.cached
}

// LevelToString converts integer level values to string
func LevelToString(level int64) string {
	switch level {
	case 1:
		return "ERROR"
	case 2:
		return "WARN"
	case 3:
		return "INFO"
	case 4:
		return "DEBUG"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}

// AppendLine appends one complete log line to buf
func AppendLine(buf []byte, timestamp, label, message string) []byte {
	buf = append(buf, timestamp...)
	buf = append(buf, " ["...)
	buf = append(buf, label...)
	buf = append(buf, "] "...)
	buf = append(buf, message...)
	return append(buf, '\n')
}

// LineLen returns the byte length AppendLine would produce
func LineLen(timestamp, label, message string) int {
	return len(timestamp) + len(label) + len(message) + 5
}

// dumper renders values without a native representation on a single line
var dumper = &spew.ConfigState{
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	MaxDepth:                10,
}

// FormatArgs formats multiple arguments as space-separated values
func FormatArgs(args ...any) string {
	buf := make([]byte, 0, 64)
	for i, arg := range args {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = appendValue(buf, arg)
	}
	return string(buf)
}

// appendValue provides unified type conversion
func appendValue(buf []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		return append(buf, val...)
	case []byte:
		return append(buf, val...)
	case rune:
		return utf8.AppendRune(buf, val)
	case int:
		return strconv.AppendInt(buf, int64(val), 10)
	case int64:
		return strconv.AppendInt(buf, val, 10)
	case uint:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(buf, val, 10)
	case float32:
		return strconv.AppendFloat(buf, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(buf, val, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(buf, val)
	case nil:
		return append(buf, "nil"...)
	case time.Time:
		return val.AppendFormat(buf, DefaultTimestampFormat)
	case error:
		return append(buf, val.Error()...)
	case fmt.Stringer:
		return append(buf, val.String()...)
	default:
		return append(buf, dumper.Sprintf("%+v", val)...)
	}
}
