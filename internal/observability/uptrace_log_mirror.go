package observability

import (
	"context"
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/football-query/internal/domain/fault"
	"github.com/riskibarqy/football-query/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap/zapcore"
)

const uptraceLogInstrumentation = "football-query/internal/platform/logging"

// Routes whose request logs are noise in Uptrace.
var quietPaths = map[string]struct{}{
	"/healthz": {},
	"/metrics": {},
}

// logAttributeKeys renames the key/value pairs the query pipeline logs so
// records line up with the span attributes set by the query service.
var logAttributeKeys = map[string]string{
	"language":    "query.language",
	"intent":      "query.intent",
	"league":      "query.league",
	"season":      "query.season",
	"team":        "query.team",
	"records":     "query.records",
	"code":        "query.outcome",
	"duration":    "duration_ms",
	"endpoint":    "upstream.endpoint",
	"params":      "upstream.params",
	"request_id":  "http.request_id",
	"http_method": "http.method",
	"http_path":   "http.route",
	"http_status": "http.status_code",
}

func newUptraceLogMirror(serviceVersion string) logging.MirrorFunc {
	otelLogger := otelglobal.Logger(
		uptraceLogInstrumentation,
		otellog.WithInstrumentationVersion(serviceVersion),
	)

	return func(ctx context.Context, level logging.Level, msg string, args ...any) {
		if quietRequest(msg, args) {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}

		attrs, outcome := queryLogAttributes(args)
		severity := querySeverity(level, outcome)
		if !otelLogger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
			return
		}

		now := time.Now().UTC()
		var record otellog.Record
		record.SetTimestamp(now)
		record.SetObservedTimestamp(now)
		record.SetSeverity(severity)
		record.SetSeverityText(strings.ToUpper(level.String()))
		record.SetEventName(msg)
		record.SetBody(otellog.StringValue(msg))
		record.AddAttributes(attrs...)
		otelLogger.Emit(ctx, record)
	}
}

func quietRequest(msg string, args []any) bool {
	if msg != "http_request" {
		return false
	}
	for i := 0; i+1 < len(args); i += 2 {
		if key, _ := args[i].(string); key == "http_path" {
			path, _ := args[i+1].(string)
			_, quiet := quietPaths[path]
			return quiet
		}
	}
	return false
}

// queryLogAttributes converts logger key/value pairs and reports the fault
// code of the line, taken from the code field or the logged error.
func queryLogAttributes(args []any) ([]otellog.KeyValue, fault.Code) {
	var outcome fault.Code
	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2+1)
	for i := 0; i < len(args); i += 2 {
		key, _ := args[i].(string)
		if strings.TrimSpace(key) == "" {
			key = fmt.Sprintf("arg_%d", i/2)
		}
		if mapped, ok := logAttributeKeys[key]; ok {
			key = mapped
		}
		if i+1 >= len(args) {
			attrs = append(attrs, otellog.Empty(key))
			continue
		}

		value := args[i+1]
		switch v := value.(type) {
		case error:
			var ferr *fault.Error
			if crerr.As(v, &ferr) && ferr != nil {
				outcome = ferr.Code
				attrs = append(attrs, otellog.String("query.outcome", string(ferr.Code)))
			}
		case string:
			if key == "query.outcome" && fault.Code(v).Valid() {
				outcome = fault.Code(v)
			}
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: logValue(value)})
	}
	return dedupeOutcome(attrs), outcome
}

// dedupeOutcome keeps the first query.outcome attribute.
func dedupeOutcome(attrs []otellog.KeyValue) []otellog.KeyValue {
	seen := false
	out := attrs[:0]
	for _, kv := range attrs {
		if kv.Key == "query.outcome" {
			if seen {
				continue
			}
			seen = true
		}
		out = append(out, kv)
	}
	return out
}

// querySeverity lowers failures the caller caused (bad input, nothing found)
// to info; upstream and internal failures keep the logged level.
func querySeverity(level zapcore.Level, outcome fault.Code) otellog.Severity {
	if outcome != "" && (outcome.IsInput() || outcome.IsNotFound()) && level > zapcore.InfoLevel {
		return otellog.SeverityInfo
	}
	switch {
	case level <= zapcore.DebugLevel:
		return otellog.SeverityDebug
	case level == zapcore.InfoLevel:
		return otellog.SeverityInfo
	case level == zapcore.WarnLevel:
		return otellog.SeverityWarn
	case level >= zapcore.DPanicLevel:
		return otellog.SeverityFatal
	default:
		return otellog.SeverityError
	}
}

// logValue covers the value types the service logs. Anything else is
// rendered with fmt.
func logValue(value any) otellog.Value {
	switch v := value.(type) {
	case nil:
		return otellog.Value{}
	case string:
		return otellog.StringValue(v)
	case bool:
		return otellog.BoolValue(v)
	case int:
		return otellog.IntValue(v)
	case int32:
		return otellog.Int64Value(int64(v))
	case int64:
		return otellog.Int64Value(v)
	case float64:
		return otellog.Float64Value(v)
	case time.Duration:
		return otellog.Float64Value(float64(v) / float64(time.Millisecond))
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case error:
		return otellog.StringValue(v.Error())
	case []string:
		items := make([]otellog.Value, 0, len(v))
		for _, item := range v {
			items = append(items, otellog.StringValue(item))
		}
		return otellog.SliceValue(items...)
	case map[string]any:
		kvs := make([]otellog.KeyValue, 0, len(v))
		for key, item := range v {
			kvs = append(kvs, otellog.KeyValue{Key: key, Value: logValue(item)})
		}
		return otellog.MapValue(kvs...)
	default:
		return otellog.StringValue(fmt.Sprint(v))
	}
}
