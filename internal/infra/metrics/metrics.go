// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strings"
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func boolLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
