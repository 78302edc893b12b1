// Package requestid correlates HTTP requests with the log records and
// notifications they cause. Middleware accepts a well-formed inbound
// X-Request-ID or generates a UUIDv7, and LoggerExtractor plugs the ID into
// the logger's context extractors.
package requestid
