// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	history := &cobra.Command{
		Use:   "history",
		Short: "List, delete and export stored analyses",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored analyses, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, closer, err := opts.loadHistory(cmd)
			if err != nil {
				return err
			}
			defer closer()

			items := h.List()
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No analyses found.")
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-36s  %-10s  %-20s  %s\n", "ID", "PLATFORM", "CREATED", "EMOTION")
			for _, item := range items {
				emotion := ""
				if item.Passport != nil {
					emotion = item.Passport.StyleMetrics.DominantEmotion
				}
				fmt.Fprintf(out, "%-36s  %-10s  %-20s  %s\n", item.Id, item.Platform,
					item.CreatedAt().Local().Format(time.DateTime), emotion)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, closer, err := opts.loadHistory(cmd)
			if err != nil {
				return err
			}
			defer closer()

			removed, err := h.Delete(cmd.Context(), args[0])
			if !removed {
				return fmt.Errorf("analysis %s: %w", args[0], services.ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("persisting history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	var format, output string
	export := &cobra.Command{
		Use:   "export <id>",
		Short: "Export the passport of a stored analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, closer, err := opts.loadHistory(cmd)
			if err != nil {
				return err
			}
			defer closer()

			item, err := h.Get(args[0])
			if err != nil {
				return fmt.Errorf("analysis %s: %w", args[0], err)
			}
			file, err := services.Export("passport-"+item.Id, format, item.Passport)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(file.Data)
				return err
			}
			if err := os.WriteFile(output, file.Data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
			return nil
		},
	}
	export.Flags().StringVarP(&format, "format", "f", services.FormatJSON, "txt, json or doc")
	export.Flags().StringVarP(&output, "output", "o", "", "file to write, stdout when empty")

	history.AddCommand(list, del, export)
	return history
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print aggregate statistics over the history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, closer, err := opts.loadHistory(cmd)
			if err != nil {
				return err
			}
			defer closer()

			s := services.ComputeStats(h.List())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Analyses:        %d\n", s.Total)
			for _, p := range model.Platforms {
				if n := s.PerPlatform[p]; n > 0 {
					fmt.Fprintf(out, "  %-14s %d\n", p, n)
				}
			}
			fmt.Fprintf(out, "Mean WPM:        %.1f\n", s.MeanWordsPerMinute)
			fmt.Fprintf(out, "Mean virality:   %.1f\n", s.MeanViralityScore)
			fmt.Fprintf(out, "Top emotion:     %s\n", s.TopEmotion)
			return nil
		},
	}
}
