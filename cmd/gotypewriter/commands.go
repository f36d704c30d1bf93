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
	"time"

	"github.com/spf13/cobra"

	"gotypewriter/internal/transcript"
	"gotypewriter/internal/ui"
	"gotypewriter/internal/version"
)

var uiCmd = &cobra.Command{
	Use:   "ui [script]",
	Short: "Play a script in a desktop window (build with -tags fyne)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		sc, _, err := loadScript(args)
		if err != nil {
			return err
		}
		opts := ui.RunOptions{Script: sc, Config: cfg, Session: transcript.NewSessionID(time.Now())}
		st, err := openTranscript()
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
			opts.Recorder = st
		}
		return ui.Run(opts)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "Go Typewriter")
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func init() {
	rootCmd.AddCommand(uiCmd, versionCmd)
}
