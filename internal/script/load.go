/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema/script.schema.json
var schemaJSON []byte

// Schema returns the JSON schema that YAML and JSON scripts must satisfy.
func Schema() []byte { return append([]byte(nil), schemaJSON...) }

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid script: " + strings.Join(e.Problems, "; ")
}

// document is the structured (YAML/JSON) form of a script.
type document struct {
	Title string    `yaml:"title" json:"title"`
	Turns []docTurn `yaml:"turns" json:"turns"`
}

type docTurn struct {
	Speaker string `yaml:"speaker" json:"speaker"`
	Text    string `yaml:"text" json:"text"`
	Scene   string `yaml:"scene" json:"scene"`
}

func (d document) script() Script {
	s := Script{Title: d.Title}
	for _, t := range d.Turns {
		turn := Turn{Kind: Narration, Text: t.Text, Scene: t.Scene}
		if name := strings.ToUpper(strings.TrimSpace(t.Speaker)); name != "" && !narratorNames[name] {
			turn.Kind = Dialogue
			turn.Speaker = name
		}
		s.Turns = append(s.Turns, turn)
	}
	return s
}

// ParseJSON decodes and validates a JSON script.
func ParseJSON(data []byte) (Script, error) {
	if err := validate(gojsonschema.NewBytesLoader(data)); err != nil {
		return Script{}, err
	}
	var d document
	if err := json.Unmarshal(data, &d); err != nil {
		return Script{}, fmt.Errorf("decode json script: %w", err)
	}
	return d.script(), nil
}

// ParseYAML decodes and validates a YAML script against the same schema as
// JSON scripts.
func ParseYAML(data []byte) (Script, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Script{}, fmt.Errorf("decode yaml script: %w", err)
	}
	if err := validate(gojsonschema.NewGoLoader(raw)); err != nil {
		return Script{}, err
	}
	var d document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Script{}, fmt.Errorf("decode yaml script: %w", err)
	}
	return d.script(), nil
}

func validate(doc gojsonschema.JSONLoader) error {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), doc)
	if err != nil {
		return fmt.Errorf("validate script: %w", err)
	}
	if res.Valid() {
		return nil
	}
	ve := &ValidationError{}
	for _, e := range res.Errors() {
		ve.Problems = append(ve.Problems, e.String())
	}
	return ve
}

// LoadFile reads a script, choosing the format by extension: .json, .yaml
// or .yml, and plain text for anything else. Text scripts with problems
// return the parsed turns together with the joined errors.
func LoadFile(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read script %s: %w", path, err)
	}
	var parse func([]byte) (Script, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		parse = ParseJSON
	case ".yaml", ".yml":
		parse = ParseYAML
	}
	if parse != nil {
		s, err := parse(data)
		if err != nil {
			return Script{}, fmt.Errorf("%s: %w", path, err)
		}
		return s, nil
	}

	s, perrs := Parse(string(data))
	if len(perrs) == 0 {
		return s, nil
	}
	errs := make([]error, 0, len(perrs))
	for _, e := range perrs {
		errs = append(errs, e)
	}
	return s, fmt.Errorf("%s: %w", path, errors.Join(errs...))
}
