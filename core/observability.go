package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// Observer fans a finished operation out to the logger, the metrics recorder
// and the activity sink. A zero Observer only logs to a nop logger.
type Observer struct {
	Logger   Logger
	Metrics  MetricsRecorder
	Activity ActivitySink
}

func NewObserver(name string, provider LoggerProvider, logger Logger) Observer {
	resolvedProvider, resolved := glog.Resolve(name, provider, logger)
	resolved = glog.Ensure(resolved)
	if resolvedProvider != nil {
		if named := resolvedProvider.GetLogger(name); named != nil {
			resolved = glog.Ensure(named)
		}
	}
	return Observer{
		Logger:  resolved,
		Metrics: NopMetricsRecorder{},
	}
}

type Observation struct {
	ProviderID string
	SessionID  string
	Operation  string
	StartedAt  time.Time
	Err        error
	Fields     map[string]any
}

func (o Observer) Observe(ctx context.Context, obs Observation) {
	if ctx == nil {
		ctx = context.Background()
	}
	operation := normalizeOperation(obs.Operation)
	if operation == "" {
		operation = "unknown"
	}
	status := ActivityStatusOK
	if obs.Err != nil {
		status = ActivityStatusError
	}
	startedAt := obs.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}
	duration := time.Since(startedAt)

	fields := copyAnyMap(obs.Fields)
	fields["event_type"] = operation
	fields["status"] = string(status)
	fields["duration_ms"] = duration.Milliseconds()
	if obs.ProviderID != "" {
		fields["provider_id"] = obs.ProviderID
	}
	if obs.SessionID != "" {
		fields["session_id"] = obs.SessionID
	}
	errorCode := ""
	if obs.Err != nil {
		fields["error"] = obs.Err.Error()
		if mapped := MapError(obs.Err); mapped != nil {
			errorCode = mapped.TextCode
			fields["error_code"] = errorCode
		}
	}

	if o.Metrics != nil {
		tags := map[string]string{
			"operation": operation,
			"status":    string(status),
		}
		if obs.ProviderID != "" {
			tags["provider_id"] = obs.ProviderID
		}
		o.Metrics.IncCounter(ctx, "socialauth."+operation+".total", 1, tags)
		o.Metrics.ObserveHistogram(ctx, "socialauth."+operation+".duration_ms", float64(duration.Milliseconds()), tags)
	}

	if o.Activity != nil {
		entry := ActivityEntry{
			ProviderID: obs.ProviderID,
			SessionID:  obs.SessionID,
			Action:     operation,
			Status:     status,
			ErrorCode:  errorCode,
			Metadata:   activityMetadata(obs.Fields),
		}
		if obs.Err != nil {
			entry.Message = obs.Err.Error()
		}
		if err := o.Activity.Record(ctx, entry); err != nil {
			o.log(ctx, "warn", "activity record failed", map[string]any{
				"event_type": operation,
				"error":      err.Error(),
			})
		}
	}

	if obs.Err != nil {
		o.log(ctx, "error", operation+" failed", fields)
		return
	}
	o.log(ctx, "info", operation+" succeeded", fields)
}

func (o Observer) Debug(ctx context.Context, message string, fields map[string]any) {
	o.log(ctx, "debug", message, fields)
}

func (o Observer) log(ctx context.Context, level string, message string, fields map[string]any) {
	if o.Logger == nil {
		return
	}
	logger := o.Logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	fields = RedactSensitiveMap(fields)
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(copyAnyMap(fields))
	}
	args := flattenFields(fields)
	switch level {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	case "debug":
		logger.Debug(message, args...)
	default:
		logger.Info(message, args...)
	}
}

// activityMetadata keeps only scalar fields; token material never reaches the
// activity log.
func activityMetadata(fields map[string]any) map[string]any {
	out := map[string]any{}
	for key, value := range fields {
		if IsSensitiveKey(key) {
			continue
		}
		switch value.(type) {
		case string, bool, int, int64, float64:
			out[key] = value
		default:
			if value != nil {
				out[key] = fmt.Sprint(value)
			}
		}
	}
	return out
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

func normalizeOperation(operation string) string {
	operation = strings.TrimSpace(strings.ToLower(operation))
	operation = strings.ReplaceAll(operation, " ", "_")
	operation = strings.ReplaceAll(operation, "-", "_")
	return operation
}
