package logger

import (
	"time"

	"go.uber.org/zap"
)

func String(key, value string) zap.Field {
	return zap.String(key, value)
}

func Int(key string, value int) zap.Field {
	return zap.Int(key, value)
}

func Duration(key string, value time.Duration) zap.Field {
	return zap.Duration(key, value)
}

func Bool(key string, value bool) zap.Field {
	return zap.Bool(key, value)
}

// Resource names the feed a line is about.
func Resource(name string) zap.Field {
	return zap.String(FieldResource, name)
}

// View names the dashboard view a node-scoped feed belongs to.
func View(name string) zap.Field {
	return zap.String(FieldView, name)
}

func NodeID(id int64) zap.Field {
	return zap.Int64(FieldNodeID, id)
}

func Visible(visible bool) zap.Field {
	return zap.Bool(FieldVisible, visible)
}

// Enabled records a feed toggle.
func Enabled(enabled bool) zap.Field {
	return zap.Bool("enabled", enabled)
}
