// Package hostbridge is a reference host for route shells.
//
// It serves three endpoints on a chi router:
//
//   - GET /*: server-side render of the requested path. The page title
//     and breadcrumb trail are captured through the shell's Host sinks.
//     Unknown paths answer 404 and redirects answer 302.
//   - GET /_shell/ws: a live channel. Each connection mounts its own
//     shell; the client sends navigate messages and receives title,
//     breadcrumbs and html messages. Lazy content that settles later is
//     pushed as another html message.
//   - GET /metrics: Prometheus metrics, when a metrics handler is set.
//
// Lazy load failures are logged and, when a Reporter is configured,
// reported (see SentryReporter).
package hostbridge
