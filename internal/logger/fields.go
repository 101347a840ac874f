package logger

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Entity renders a named entity as "name#shortid".
func Entity(key, name string, id uuid.UUID) zap.Field {
	short := id.String()
	if len(short) > 8 {
		short = short[:8]
	}
	if name == "" {
		return zap.String(key, short)
	}
	return zap.String(key, name+"#"+short)
}

// Tick tags an entry with the simulation tick number.
func Tick(n uint64) zap.Field {
	return zap.Uint64("tick", n)
}
