/*
Package router defines what an HTTP server routes and a default implementation of it.

[*Router] utilizes [mux.Router] for its implementation,
and so functions as thin wrapper around that package.

A [Router] leverages a standardized data model - a [Route] -
when registering how requests should be routed.
A path and an HTTP method comprise a [Route].
An implementation of [http.Handler] is the function called when a request matches a Route.
Before a request gets to a handler, though,
any middlewares added to the Route are called in the order they appear.

A Route carrying a Binding has its request converted into an object by the Router's converters,
after every other middleware and right before the handler.
Binding failures are answered through the Router's [resp.Responder]
and never reach the handler.

Every route is guarded by a recovery handler from gorilla/handlers,
so a panicking handler answers 500 Internal Server Error.
*/
package router
