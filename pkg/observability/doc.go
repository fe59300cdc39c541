/*
Package observability turns engine lifecycle hooks into Prometheus metrics and
structured log lines.

Both are plain domain.RunHooks values, so the engine itself stays free of any
metrics dependency:

	metrics, _ := observability.NewMetrics(prometheus.DefaultRegisterer)
	engine := busybeaver.New(busybeaver.WithHooks(metrics.Hooks()))
*/
package observability
