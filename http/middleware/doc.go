/*
The middleware package defines what a middleware is in paramconv and a set of basic middlewares.

The available middlewares are:
- Attributes
- Bind
- InjectIPAddress
- LogRequest
- RateLimit
- RequestID

Bind is where requests get converted into objects; it installs the request's Attributes if none exist yet,
so Attributes is only needed for handlers reading Attributes on routes without a binding.

A typical chain looks like this:

	vs := middleware.NewVisitors()
	adpts := []middleware.Adapter{
		middleware.RateLimit(vs),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(log),
		middleware.Attributes(),
	}
*/
package middleware
