/*
Package monitoring provides Prometheus metrics for the backend.

# Overview

Each Metrics value owns a private registry, exposed through Handler at
/metrics. It tracks HTTP requests, command invocations by error kind,
save dialog outcomes and folder-watch traffic.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(monitoring.Handler(metrics)))

	timer := monitoring.NewTimer(metrics, "notes", "read_note")
	// ... run the command ...
	timer.Stop("") // or timer.Stop("not_found")
*/
package monitoring
