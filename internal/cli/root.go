// Package cli implements the rate command, an offline scorer for schedule files.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/huddlesocial/huddle/internal/rater"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config file names looked up in the working directory, then in $HOME.
var configNames = []string{".huddlerc.yaml", ".huddlerc.yml"}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewRootCommand builds the rate command tree around its own viper instance.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	var configFile string

	root := &cobra.Command{
		Use:   "rate",
		Short: "Score class schedules offline",
		Long: `rate scores a ScheduleRaterJson document the same way the Huddle API does.

Weights default to an even 33/33/34 split. They can be set in .huddlerc.yaml,
through HUDDLE_RATE_* environment variables, or with flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v, configFile)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default .huddlerc.yaml in the working directory or $HOME)")
	flags.Int("rmp", 33, "RateMyProfessor weight")
	flags.Int("boiler-grades", 33, "BoilerGrades weight")
	flags.Int("hecticness", 34, "Hecticness weight")
	flags.StringP("format", "f", FormatText, "Output format (text|json)")

	_ = v.BindPFlag("weightage.rmp", flags.Lookup("rmp"))
	_ = v.BindPFlag("weightage.boilerGrades", flags.Lookup("boiler-grades"))
	_ = v.BindPFlag("weightage.hecticness", flags.Lookup("hecticness"))
	_ = v.BindPFlag("format", flags.Lookup("format"))

	v.SetEnvPrefix("HUDDLE_RATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	root.AddCommand(newScoreCommand(v), newComposeCommand(v), newCoursesCommand(v))
	return root
}

// Execute runs the rate command and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		return 1
	}
	return 0
}

func loadConfig(v *viper.Viper, explicit string) error {
	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
		return nil
	}

	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	for _, dir := range dirs {
		for _, name := range configNames {
			path := dir + string(os.PathSeparator) + name
			if _, err := os.Stat(path); err != nil {
				continue
			}
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("error reading config file %s: %w", path, err)
			}
			return nil
		}
	}
	return nil
}

// weightage reads and validates the configured weights.
func weightage(v *viper.Viper) (rater.Weightage, error) {
	w := rater.Weightage{
		RMP:          v.GetInt("weightage.rmp"),
		BoilerGrades: v.GetInt("weightage.boilerGrades"),
		Hecticness:   v.GetInt("weightage.hecticness"),
	}
	if err := w.Validate(); err != nil {
		return rater.Weightage{}, err
	}
	return w, nil
}

var errUnknownFormat = errors.New("unknown output format")

func outputFormat(v *viper.Viper) (string, error) {
	switch f := strings.ToLower(v.GetString("format")); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q, use text or json", errUnknownFormat, f)
	}
}
