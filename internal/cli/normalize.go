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
	"encoding/json"

	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
	"github.com/spf13/cobra"
)

func newNormalizeCmd() *cobra.Command {
	var origin string
	cmd := &cobra.Command{
		Use:   "normalize <url>",
		Short: "Print the normalized reference and embed of a video link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := services.Normalize(args[0])
			out := struct {
				Ref   any `json:"ref"`
				Embed any `json:"embed"`
			}{ref, services.EmbedFor(ref, origin)}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&origin, "origin", "", "origin passed to the YouTube player")
	return cmd
}
