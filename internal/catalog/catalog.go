// Package catalog holds the system prompt and the declarative tool catalog
// sent to the generative backend. Both are opaque configuration data: the
// pipeline passes them through unchanged and never interprets them.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed system_prompt.txt
var systemPrompt string

//go:embed tools.yaml
var toolsYAML []byte

var (
	toolsOnce sync.Once
	tools     []map[string]any
	toolsErr  error
)

// SystemPrompt returns the instruction text for the generative backend.
func SystemPrompt() string {
	return strings.TrimSpace(systemPrompt)
}

// Tools returns the declarative tool catalog, parsed once from the embedded
// YAML. The embedded asset is validated by tests, so a parse failure here is
// a build defect and panics.
func Tools() []map[string]any {
	toolsOnce.Do(func() {
		toolsErr = yaml.Unmarshal(toolsYAML, &tools)
	})
	if toolsErr != nil {
		panic(fmt.Sprintf("catalog: embedded tools.yaml is invalid: %v", toolsErr))
	}
	return tools
}
