package paramconv

type Key string

const (
	// AttributesKey stashes the Attributes bag of an HTTP request.
	AttributesKey Key = "AttributesKey"

	// IpAddrKey stashes the IP address of an HTTP request being handled.
	IpAddrKey Key = "IpAddrKey"

	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "paramconv context key: " + string(k)
}
