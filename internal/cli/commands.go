package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/huddlesocial/huddle/internal/pkg/schema"
	"github.com/huddlesocial/huddle/internal/rater"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newScoreCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "score FILE",
		Short: "Score a ScheduleRaterJson file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := weightage(v)
			if err != nil {
				return err
			}
			format, err := outputFormat(v)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read schedule: %w", err)
			}
			if err := schema.ValidateSchedule(data); err != nil {
				return err
			}
			ds, err := rater.Decode(data)
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), format, args[0], w, rater.Score(w, ds))
		},
	}
}

func newComposeCommand(v *viper.Viper) *cobra.Command {
	var scores rater.Scores

	cmd := &cobra.Command{
		Use:     "compose COURSE...",
		Short:   "Score a schedule built from the bundled course catalog",
		Example: `  rate compose "CS 18000" "MA 26100" --rmp-score 0.6 --boilergrades-score 0.7 --hecticness-score 0.4`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := weightage(v)
			if err != nil {
				return err
			}
			format, err := outputFormat(v)
			if err != nil {
				return err
			}
			for _, s := range []float64{scores.RMP, scores.BoilerGrades, scores.Hecticness} {
				if s < 0 || s > 1 {
					return fmt.Errorf("aggregate scores must be between 0 and 1, got %g", s)
				}
			}

			catalog := rater.NewFixtureSource(rater.DemoCourses()...)
			seen := make(map[string]bool, len(args))
			records := make([]rater.CourseRecord, 0, len(args))
			for _, name := range args {
				key := rater.NormalizeCourseName(name)
				if seen[key] {
					continue
				}
				seen[key] = true

				rec, err := catalog.FetchCourse(context.Background(), key)
				if err != nil {
					return err
				}
				records = append(records, *rec)
			}

			return render(cmd.OutOrStdout(), format, "composed schedule", w, rater.Score(w, rater.Compose(records, scores)))
		},
	}

	cmd.Flags().Float64Var(&scores.RMP, "rmp-score", 0, "RMP aggregate score in [0,1]")
	cmd.Flags().Float64Var(&scores.BoilerGrades, "boilergrades-score", 0, "BoilerGrades aggregate score in [0,1]")
	cmd.Flags().Float64Var(&scores.Hecticness, "hecticness-score", 0, "Hecticness aggregate score in [0,1]")
	return cmd
}

func newCoursesCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List the bundled course catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(v)
			if err != nil {
				return err
			}
			courses := rater.DemoCourses()
			sort.Slice(courses, func(i, j int) bool { return courses[i].Name < courses[j].Name })
			return renderCourses(cmd.OutOrStdout(), format, courses)
		},
	}
}
