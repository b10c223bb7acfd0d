// Package observability builds the process logger.
//
// Every component receives a *zap.Logger from here; request scoped fields
// such as request_id are added by the HTTP middleware.
package observability
