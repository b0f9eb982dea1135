// Package protocol builds sender line-protocol records. One record per
// (entity, metric, value): <hostPrefix>_<entityID> <key> "<value>"\n.
package protocol

import (
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/miosbridge/internal/metric"
)

// Encode builds one sanitized, newline-terminated record. The observed
// timestamp is accepted for interface symmetry but not embedded: the
// collector assigns its own receipt time.
func Encode(hostPrefix string, entityID int, class, attribute, value string, _ time.Time) []byte {
	var b strings.Builder
	b.Grow(len(hostPrefix) + len(class) + len(attribute) + len(value) + 32)

	b.WriteString(HostName(hostPrefix, entityID))
	b.WriteByte(' ')
	b.WriteString(metric.BuildKey(class, attribute))
	b.WriteString(` "`)
	b.WriteString(Sanitize(value))
	b.WriteString("\"\n")

	return []byte(b.String())
}

// Sanitize makes a raw value safe for the line protocol: double quotes
// become single quotes, control characters become spaces. The output
// can never break a record boundary or the quoting.
func Sanitize(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '"':
			return '\''
		case r < 0x20 || r == 0x7f:
			return ' '
		default:
			return r
		}
	}, value)
}

// HostName names the collector host for an entity
func HostName(hostPrefix string, entityID int) string {
	return hostPrefix + "_" + strconv.Itoa(entityID)
}
