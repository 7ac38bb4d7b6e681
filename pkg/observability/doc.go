/*
Package observability turns sequencer lifecycle events into logs and metrics.

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.Compose(metrics.Hooks(), observability.LogHooks(logger))
	router := bloom.New(surface, bloom.WithLifecycleHooks(hooks))
*/
package observability
