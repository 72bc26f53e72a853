/*
The resp package provides a high-level API for responding to HTTP requests
with JSON, configured application-wide through a Responder.

Errors map onto status codes with StatusCode: a *req.Error carries its own code,
req.ValidationErrors answer 422, and anything unexpected answers 500 without leaking its message.
*/
package resp
