package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/weatherwise/weatherwise/internal/advisory"
	"github.com/weatherwise/weatherwise/internal/api/models"
	"github.com/weatherwise/weatherwise/internal/pipeline"
	"github.com/weatherwise/weatherwise/internal/weather"
)

func reportCommand(build func(*cobra.Command) Runner) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report <place...>",
		Short: "Print the weather report for a place",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := build(cmd).Run(cmd.Context(), placeArg(args))
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(models.NewWeatherReport(report))
			}
			printReport(out, report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

func advisoriesCommand(build func(*cobra.Command) Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "advisories <place...>",
		Short: "Print only the advisories for a place",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := build(cmd).Run(cmd.Context(), placeArg(args))
			if err != nil {
				return userError(err)
			}
			printAdvisories(cmd.OutOrStdout(), report.Advisories)
			return nil
		},
	}
}

// userError keeps the sentinel for errors.Is while showing only the
// user-facing message.
func userError(err error) error {
	return fmt.Errorf("%s: %w", weather.UserMessage(err), err)
}

func printReport(w io.Writer, report *pipeline.Report) {
	snap := report.Snapshot
	cur := snap.Current
	primary := cur.Primary()

	fmt.Fprintf(w, "%s, %s (%s)\n", snap.Location.Name, snap.Location.Country, report.Source)
	fmt.Fprintf(w, "%s %.1f°C, %s (feels like %.1f°C)\n", primary.Emoji(), cur.Temperature, primary.Description, cur.FeelsLike)
	fmt.Fprintf(w, "Humidity %.0f%%, wind %.1f m/s %s\n", cur.Humidity, cur.WindSpeed, weather.WindDirection(cur.WindDirection))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Advisories:")
	printAdvisories(w, report.Advisories)

	if len(report.Hazards) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Alerts:")
		for _, h := range report.Hazards {
			fmt.Fprintf(w, "  %s %s from %s (%dh)\n", h.Icon, h.Alert.Event, h.Alert.Sender, h.DurationHours)
		}
	}

	if len(report.Historical) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "On this day:")
		for _, s := range report.Historical {
			fmt.Fprintf(w, "  %s: %.1f°C, %s\n", s.Label, s.Temperature, s.Description)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, report.Story)
	fmt.Fprintln(w, report.DidYouKnow)
}

func printAdvisories(w io.Writer, advisories []advisory.Advisory) {
	for _, a := range advisories {
		fmt.Fprintf(w, "  [%s] %s %s\n", a.Severity, a.Icon, a.Message)
	}
}
