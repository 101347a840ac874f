//go:build xridebug

package interaction

import (
	"go.uber.org/zap"

	"github.com/Faultbox/xri/internal/logger"
)

func violation(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
	panic("interaction: " + msg)
}
