/*
Package observability turns session lifecycle hooks into metrics and logs.

Both Metrics.Hooks and LogHooks return a session.Hooks value; combine them
with Hooks.Chain and install the result with session.WithHooks.

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := metrics.Hooks().Chain(observability.LogHooks(logger))
	s := session.New(state, transport, author, session.WithHooks(hooks))
*/
package observability
