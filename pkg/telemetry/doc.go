// Package telemetry provides the ambient observability stack other
// packages wrap their operations in: structured logging (zerolog),
// request metrics (Prometheus), and distributed tracing
// (OpenTelemetry).
//
// # Usage
//
//	cfg := telemetry.DefaultConfig()
//	logger, err := telemetry.NewLogger(cfg.Logging)
//	metrics, err := telemetry.NewMetrics(cfg.Metrics)
//	tracer, err := telemetry.NewTracer(cfg.Tracing, "froyoctl", version, env)
//
// Component loggers carry fields across calls:
//
//	reqLogger := logger.NewComponentLogger("dispatcher").WithField("method", "plan")
//	reqLogger.Info("dispatching request")
//
// # Exporters
//
// Tracing supports two exporters: "stdout" (development) and "none"
// (generate spans, export nothing). There is no remote-collector
// exporter in this package; see DESIGN.md for why the OTLP/gRPC
// exporter is not wired here.
package telemetry
