// Package env fills command flags from DESCENT_* environment variables.
package env

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const globalPrefix = "descent"

// Apply sets every flag of command that was not given on the command line
// but has a matching environment variable. The root command reads
// DESCENT_<FLAG>; subcommands read DESCENT_<COMMAND>_<FLAG>. Dashes in flag
// names become underscores.
func Apply(command *cobra.Command) error {
	var errs []string
	v := viper.New()
	v.AutomaticEnv()
	if command.Name() == globalPrefix || !command.HasParent() {
		v.SetEnvPrefix(globalPrefix)
	} else {
		v.SetEnvPrefix(fmt.Sprintf("%s_%s", globalPrefix, command.Name()))
	}
	command.Flags().VisitAll(func(f *pflag.Flag) {
		configName := strings.ReplaceAll(f.Name, "-", "_")
		if !f.Changed && v.IsSet(configName) {
			if err := command.Flags().Set(f.Name, v.GetString(configName)); err != nil {
				errs = append(errs, err.Error())
			}
		}
	})

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("error mapping environment variables to command flags: %s", strings.Join(errs, "; "))
}
