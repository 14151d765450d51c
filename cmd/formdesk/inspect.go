package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"runtime"
	"slices"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/formdesk/internal/app"
	"github.com/jsamuelsen/formdesk/internal/app/router"
)

// Output formats of the inspection commands.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

var errUnknownOutput = errors.New("unknown output format")

// routeRow is one route table entry as printed by the routes command.
type routeRow struct {
	Path string `json:"path" yaml:"path"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Page string `json:"page" yaml:"page"`
}

// offlineService assembles the application for a one-shot command: logs go
// to stderr and metrics to a throwaway registry.
func offlineService(opts *globalOptions) (*app.Service, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	return newService(cfg, newLogger(cfg, os.Stderr), prometheus.NewRegistry())
}

func routesCmd(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route table in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := offlineService(opts)
			if err != nil {
				return err
			}

			defs := svc.Definitions()
			rows := make([]routeRow, 0, len(defs))
			for _, d := range defs {
				rows = append(rows, routeRow{Path: d.Path, Name: d.Name, Page: d.Page})
			}

			return printRoutes(cmd.OutOrStdout(), output, rows, svc.Fallback())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")

	return cmd
}

func printRoutes(w io.Writer, output string, rows []routeRow, fallback string) error {
	doc := struct {
		Routes   []routeRow `json:"routes" yaml:"routes"`
		Fallback string     `json:"fallback" yaml:"fallback"`
	}{Routes: rows, Fallback: fallback}

	switch output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(doc)

	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(doc); err != nil {
			return err
		}

		return enc.Close()

	case outputTable:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PATH\tNAME\tPAGE")
		for _, r := range rows {
			name := r.Name
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Path, name, r.Page)
		}
		fmt.Fprintf(tw, "\nfallback: %s\n", fallback)

		return tw.Flush()

	default:
		return fmt.Errorf("%w: %q", errUnknownOutput, output)
	}
}

func resolveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve PATH",
		Short: "Show which route a location resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := offlineService(opts)
			if err != nil {
				return err
			}

			match, err := svc.Router().Resolve(args[0])
			if errors.Is(err, router.ErrRouteNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no route matches (fallback: %s)\n", match.Path, svc.Fallback())
				return nil
			}
			if err != nil {
				return err
			}

			name := match.Route.Name
			if name == "" {
				name = "-"
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", match.Path, name, match.Route.Path)
			for _, k := range slices.Sorted(maps.Keys(match.Params)) {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s\n", k, match.Params[k])
			}

			return nil
		},
	}
}

func renderCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render PATH...",
		Short: "Render the shell document for one or more locations",
		Long: `Render navigates to each location in its own session and prints the
full host document. Locations are rendered concurrently and printed in the
order given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := offlineService(opts)
			if err != nil {
				return err
			}

			rendered, err := svc.RenderAll(cmd.Context(), args...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, r := range rendered {
				if len(rendered) > 1 {
					fmt.Fprintf(out, "<!-- %s: %d -->\n", args[i], r.Status)
				}
				fmt.Fprintln(out, r.HTML)
			}

			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()

			if short {
				fmt.Fprintln(out, Version)
				return
			}

			fmt.Fprintf(out, "Version:    %s\n", Version)
			fmt.Fprintf(out, "Commit:     %s\n", Commit)
			fmt.Fprintf(out, "Built:      %s\n", BuildTime)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the version number")

	return cmd
}
