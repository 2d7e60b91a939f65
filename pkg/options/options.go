// Package options holds what every option group has in common.
package options

import (
	"strings"

	"github.com/spf13/pflag"
)

// IOptions is implemented by reusable option groups that can be mounted
// under any flag prefix.
type IOptions interface {
	Validate() []error
	AddFlags(fs *pflag.FlagSet, prefixes ...string)
}

// Join builds a flag prefix: Join("store") is "store.", Join() is "".
// Empty segments are dropped.
func Join(prefixes ...string) string {
	var b strings.Builder
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		b.WriteString(p)
		b.WriteByte('.')
	}
	return b.String()
}
