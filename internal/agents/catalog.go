// Package agents declares the GhostWriter agent team and runs it on the
// ADK runtime.
package agents

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type AgentDef struct {
	Name          string   `yaml:"name"`
	Slug          string   `yaml:"slug"`
	Description   string   `yaml:"description"`
	Instruction   string   `yaml:"instruction"`
	DefaultPrompt string   `yaml:"default_prompt"`
	Tools         []string `yaml:"tools"`
	ImageModel    bool     `yaml:"image_model"`
}

type OrchestratorDef struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Instruction string   `yaml:"instruction"`
	SubAgents   []string `yaml:"sub_agents"`
}

type Catalog struct {
	AppName      string          `yaml:"app_name"`
	Orchestrator OrchestratorDef `yaml:"orchestrator"`
	Agents       []AgentDef      `yaml:"agents"`
}

// LoadCatalog parses the embedded agent catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse agent catalog: %w", err)
	}

	seen := map[string]bool{}
	for _, a := range c.Agents {
		if a.Name == "" || a.Slug == "" {
			return nil, fmt.Errorf("agent catalog: entry without name or slug")
		}
		if seen[a.Name] {
			return nil, fmt.Errorf("agent catalog: duplicate agent %q", a.Name)
		}
		seen[a.Name] = true
	}
	for _, name := range c.Orchestrator.SubAgents {
		if !seen[name] {
			return nil, fmt.Errorf("agent catalog: orchestrator references unknown agent %q", name)
		}
	}
	return &c, nil
}

func (c *Catalog) Agent(name string) (AgentDef, bool) {
	for _, a := range c.Agents {
		if a.Name == name {
			return a, true
		}
	}
	return AgentDef{}, false
}

func (c *Catalog) BySlug(slug string) (AgentDef, bool) {
	for _, a := range c.Agents {
		if a.Slug == slug {
			return a, true
		}
	}
	return AgentDef{}, false
}

// Prompt is the caller's prompt, else the agent's default with {topic}
// filled in.
func (a AgentDef) Prompt(prompt, topic string) string {
	if p := strings.TrimSpace(prompt); p != "" {
		return p
	}
	if strings.TrimSpace(topic) == "" {
		topic = "general"
	}
	return strings.ReplaceAll(a.DefaultPrompt, "{topic}", topic)
}
