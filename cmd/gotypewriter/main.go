/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Command gotypewriter plays dialogue scripts with a typewriter effect,
// paginates them headlessly and keeps a transcript of what was shown.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gotypewriter/internal/config"
	"gotypewriter/internal/crash"
	applog "gotypewriter/internal/log"
	"gotypewriter/internal/script"
	"gotypewriter/internal/version"
)

var (
	configFlag string
	textFlag   string

	cfg config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:           "gotypewriter",
	Short:         "Typewriter-style dialogue player",
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		if configFlag != "" {
			cfg, err = config.LoadFrom(configFlag)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applog.Init(cfg.LogOptions())
		applog.WithComponent("cli").Debug("start", slog.String("cmd", cmd.Name()))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default: per-user config.yaml)")
	rootCmd.PersistentFlags().StringVar(&textFlag, "text", "", `Use a single message instead of a script file (\n starts a new line)`)
}

func main() {
	defer crash.Recover(nil)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		applog.WithComponent("cli").Error("command failed", slog.Any("err", err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadScript resolves the script from --text or the single path argument.
func loadScript(args []string) (script.Script, string, error) {
	if textFlag != "" {
		return script.Script{Turns: []script.Turn{{Kind: script.Narration, Text: textFlag}}}, "text", nil
	}
	if len(args) != 1 {
		return script.Script{}, "", fmt.Errorf("expected one script file or --text")
	}
	s, err := script.LoadFile(args[0])
	if err != nil {
		return script.Script{}, "", err
	}
	if len(s.Turns) == 0 {
		return script.Script{}, "", fmt.Errorf("%s: script has no turns", args[0])
	}
	return s, args[0], nil
}

func scriptName(path string) string {
	base := path[strings.LastIndexAny(path, `/\`)+1:]
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" {
		return "dialogue"
	}
	return base
}
