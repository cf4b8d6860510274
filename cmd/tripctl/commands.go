package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/corey-alix/trip-planner-app/internal/kvstore"
	"github.com/corey-alix/trip-planner-app/internal/logging"
)

func newExportCmd(s *session) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the route as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			data, err := s.planner.Export()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				var f *os.File
				f, err = os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer logging.HandleDeferredError(&err, f.Close, s.logger, "close_export_file")
				w = f
			}

			if _, err := w.Write(append(data, '\n')); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (default: stdout)")
	return cmd
}

func newImportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the route with an exported JSON file",
		Long: `Replace the saved route with the waypoints in an exported JSON file.

Pass - to read from stdin. A malformed file leaves the saved route unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			if err := s.planner.Import(cmd.Context(), data); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d waypoints\n", len(s.planner.Waypoints()))
			return nil
		},
	}
}

func newShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the route with its day labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := s.planner.View()
			out := cmd.OutOrStdout()

			if len(entry.Waypoints) == 0 {
				fmt.Fprintln(out, "no waypoints")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tLABEL\tTEXT\tLAT\tLNG\tARRIVE\tDEPART")
			for i, wp := range entry.Waypoints {
				label := ""
				if i < len(entry.View.Stops) {
					label = entry.View.Stops[i].Label()
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%.5f\t%.5f\t%s\t%s\n",
					i+1, label, wp.Text, wp.Center.Lat, wp.Center.Lng,
					wp.ArrivalDate, wp.DepartureDate)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			var meters float64
			for _, leg := range entry.View.Legs {
				meters += leg.DistanceMeters
			}
			fmt.Fprintf(out, "%s\n%d stops, %.1f km\n",
				strings.Repeat("-", 40), len(entry.Waypoints), meters/1000)
			return nil
		},
	}
}

func newKeysCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the persisted keys and their sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lister, ok := s.kv.(kvstore.Lister)
			if !ok {
				return fmt.Errorf("store backend %T cannot list keys", s.kv)
			}

			ctx := cmd.Context()
			keys, err := lister.Keys(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tBYTES")
			for _, key := range keys {
				value, _, err := s.kv.Get(ctx, key)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%d\n", key, len(value))
			}
			return tw.Flush()
		},
	}
}
