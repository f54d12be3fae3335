// Package middleware provides HTTP middleware that applies
// request-driven field selection to rendered JSON responses.
//
// # Components
//
//   - FieldSelection: net/http middleware filtering JSON response
//     bodies by the fields/omit query parameters
//   - GinFieldSelection: the same behavior as a gin.HandlerFunc
//   - RequestID / GinRequestID: unique request identifier injection
//
// # Usage
//
// Middleware functions follow the standard Go pattern:
//
//	handler := middleware.RequestID()(
//	    middleware.FieldSelection(middleware.Config{Filter: filter})(yourHandler),
//	)
//
// Field selection operates on the rendered document: the top-level
// object, or each immediate item of a top-level array, has its keys
// filtered; deeper objects are never touched. Non-JSON bodies, bodies
// above the configured size limit, and any processing failure all pass
// the original response through unchanged.
package middleware
