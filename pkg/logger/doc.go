// Package logger builds *slog.Logger values for entityhub services.
//
// New takes functional options for format, level, output and static
// attributes, and wraps the handler in LogHandlerDecorator so that
// ContextExtractor callbacks can add request-scoped attributes to every
// record. The decorator is how the active transaction depth and request IDs
// reach the logs:
//
//	log := logger.New(
//		logger.WithEnvironment(logger.Production, "entityhubd"),
//		logger.WithContextExtractors(transaction.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
// Services normally load a Config from the environment (APP_ENV,
// SERVICE_NAME, LOG_LEVEL, LOG_FORMAT) and call NewFromConfig.
//
// # Attributes
//
// attr.go holds constructors that keep attribute keys consistent across
// packages: Error and Errors (empty when nil, so no nil check is needed at the
// call site), Component, Duration, and the notification attributes EntityType,
// Kind, Method, GroupName, ConnectionID and TxDepth.
//
//	log.ErrorContext(ctx, "notification send failed",
//		logger.GroupName(dst),
//		logger.Method(method),
//		logger.Error(err),
//	)
package logger
