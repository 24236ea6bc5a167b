// Package server provides HTTP routing, middleware, and a local upload
// receiver used to exercise the client end to end.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Upload Receiver
//
// [ReceiverHandler] accepts multipart POSTs the way the production photo
// calendar form endpoint does: it parses the form, drains every uploaded file,
// and answers with a navigation target. The response shape is configurable so
// the client's completion handling can be tested against a JSON redirect
// payload, an HTTP redirect, or a plain HTML page.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
