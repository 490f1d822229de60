package utils

import (
	"context"
	"os"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func GenerateTraceId() string {
	return uuid.New().String()
}

// ExtractServiceName names the running deployment, "main" unless SERVICE_NAME is set.
func ExtractServiceName() string {
	if service := os.Getenv("SERVICE_NAME"); service != "" {
		return service
	}
	return "main"
}

func LogEntry(entry *log.Entry, level, message string) {
	switch level {
	case "debug":
		entry.Debug(message)
	case "info":
		entry.Info(message)
	case "warn":
		entry.Warn(message)
	case "error":
		entry.Error(message)
	case "fatal":
		entry.Fatal(message)
	case "panic":
		entry.Panic(message)
	default:
		entry.Info(message)
	}
}

func LogMessage(level, message string) {
	entry := log.WithFields(log.Fields{
		"service": ExtractServiceName(),
	})

	LogEntry(entry, level, message)
}

// LogMessageWithFields logs with the request's trace id when ctx carries one.
func LogMessageWithFields(ctx context.Context, level, message string) {
	fields := log.Fields{
		"service": ExtractServiceName(),
	}
	if traceId, ok := ctx.Value(TraceIdKey.String()).(string); ok {
		fields["traceId"] = traceId
	}

	LogEntry(log.WithFields(fields), level, message)
}
