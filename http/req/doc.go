/*
Package req provides ergonomics for handling an HTTP request.

# Binder

A [Binder] is a request-parameter converter.
Given an *http.Request and a [Configuration], [*Binder.Apply]
deserializes the request's body parameters into a new instance of the configured type,
in the format its Content-Type names,
and stores the result in the request's [paramconv.Attributes].
If the Binder has a [Validator], the object's [ValidationErrors] are stored too,
under [paramconv.ValidationErrorsAttr].
Deciding what to do about an invalid object is left to the handler.

	b := req.NewBinder(
		serializer.New(),
		req.WithType[Job]("job"),
		req.WithDefaultContext(map[string]any{"version": "2.0"}),
		req.WithValidator(req.NewValidator()),
	)

	ok, err := b.Apply(r, req.Configuration{
		Name:  "job",
		Class: "job",
		Options: map[string]any{
			"deserializationContext": map[string]any{"groups": []string{"create"}},
			"validator":              map[string]any{"groups": []string{"create"}},
		},
	})

Bound objects and validation results come back out with [Bound] and [ValidationErrorsFromContext].

Failures to bind are an [*Error] carrying the status code to respond with:
415 when no codec handles the Content-Type, 400 for any other problem with the payload.

# QueryBinder

A [QueryBinder] does the same from the URL query string,
for Configurations setting [QueryKey] to true.
Values that fail to convert are a 400 wrapping [ValidationErrors].
*/
package req
