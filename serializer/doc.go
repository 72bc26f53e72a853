/*
Package serializer turns request body parameters into typed objects.

A [Codec] decodes one wire format (JSON, url-encoded forms, XML, MessagePack, YAML)
into a flat mapping of body parameters.
[Canonical] renders those parameters as sorted, compact JSON,
and [*Serializer.Deserialize] sets a struct's fields from that text.

# Context

A [Context] scopes what deserialization may touch.
Groups restrict fields by their "groups" tag, fields without one belonging to [DefaultGroup].
Version restricts fields by their "since" and "until" tags.
Any other option is kept in Attributes for a [PostDeserializer] to read.

	type Job struct {
		Type     string `json:"type"`
		Priority int    `json:"priority" groups:"admin"`
		Timeout  int    `json:"timeout" since:"2.0"`
	}

Field names come from the "json" tag for every format.
*/
package serializer
