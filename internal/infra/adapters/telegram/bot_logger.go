package telegram

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// Bot API paths look like /bot<id>:<secret>/method and /file/bot<id>:<secret>/path.
var tokenPattern = regexp.MustCompile(`bot\d+:[A-Za-z0-9_-]+`)

// redactToken masks any bot token embedded in s.
func redactToken(s string) string {
	return tokenPattern.ReplaceAllString(s, "bot<redacted>")
}

// botLogger routes tgbotapi's internal log lines into zerolog with tokens masked.
type botLogger struct {
	log *zerolog.Logger
}

func newBotLogger(base *zerolog.Logger) *botLogger {
	l := base.With().Str("component", "tgbotapi").Logger()
	return &botLogger{log: &l}
}

func (b *botLogger) Println(v ...interface{}) {
	b.write(strings.TrimSuffix(fmt.Sprintln(scrubArgs(v)...), "\n"))
}

func (b *botLogger) Printf(format string, v ...interface{}) {
	b.write(fmt.Sprintf(format, scrubArgs(v)...))
}

func (b *botLogger) write(msg string) {
	b.log.Warn().Msg(redactToken(msg))
}

func scrubArgs(v []interface{}) []interface{} {
	out := make([]interface{}, len(v))
	for i, a := range v {
		if err, ok := a.(error); ok {
			a = scrubToken(err)
		}
		out[i] = a
	}
	return out
}
