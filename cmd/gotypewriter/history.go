/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	historySession string
	historyLimit   int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded playback sessions and pages",
	Long: `Without --session, list the recorded sessions, most recent first.
With --session, print the pages of that session in the order they were shown.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historySession, "session", "s", "", "Session to print")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Only the most recent N pages")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	st, err := openTranscript()
	if err != nil {
		return err
	}
	if st == nil {
		return fmt.Errorf("transcripts are disabled in the configuration")
	}
	defer st.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if historySession == "" {
		sessions, err := st.Sessions(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SESSION\tPAGES\tSTARTED\tDURATION")
		for _, s := range sessions {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.ID, s.Pages, s.Started.Local().Format(time.DateTime), s.Ended.Sub(s.Started).Round(time.Second))
		}
		return tw.Flush()
	}

	entries, err := st.List(ctx, historySession, historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no pages recorded for session %q", historySession)
	}
	for _, e := range entries {
		who := e.Speaker
		if who == "" {
			who = "-"
		}
		fmt.Fprintf(out, "[%s] turn %d page %d %s\n%s\n\n", e.ShownAt.Local().Format(time.TimeOnly), e.Turn+1, e.Page, who, e.Text)
	}
	return nil
}
