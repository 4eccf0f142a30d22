// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - Submission pipeline metrics (outcomes, anti-bot rejections, word counts)
//   - Moderation metrics (decisions, latency per provider)
//   - Identity provider metrics (auth calls per operation)
//   - Reaper metrics (runs, deleted accounts)
//   - Database query metrics
//
// All metrics are registered via promauto at package init and exposed through
// the /metrics endpoint.
package metrics
