package serializer

import (
	"fmt"

	"github.com/hashicorp/go-version"
	"github.com/xy-planning-network/paramconv"
)

// parseVersion reads dotted versions such as "1.0", "1.10.2" or "v2".
// Anything else fails with [paramconv.ErrBadConfig].
func parseVersion(s string) (*version.Version, error) {
	v, err := version.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", paramconv.ErrBadConfig, err)
	}

	return v, nil
}
