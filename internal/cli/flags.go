// internal/cli/flags.go
package cli

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// mustBind ties a config key to a flag; it only fails on programmer error.
func mustBind(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %q: %v", key, err))
	}
}
