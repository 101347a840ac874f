//go:build !xridebug

package interaction

import (
	"go.uber.org/zap"

	"github.com/Faultbox/xri/internal/logger"
)

// violation reports a broken relation invariant. Release builds log and
// carry on; build with -tags xridebug to panic instead.
func violation(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}
