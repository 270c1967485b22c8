package logging

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

type gormWriter struct {
	logger zerolog.Logger
}

func (writer gormWriter) Printf(format string, args ...any) {
	message := strings.TrimSpace(fmt.Sprintf(format, args...))
	writer.logger.Warn().Str("component", "gorm").Msg(message)
}

// GormLogger routes slow-query and error output of GORM through zerolog.
func GormLogger(logger zerolog.Logger) gormlogger.Interface {
	return gormlogger.New(gormWriter{logger: logger}, gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
