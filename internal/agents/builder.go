package agents

import (
	"fmt"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/tool"
)

// Builder creates fresh agent instances from the catalog. ADK agents keep a
// single parent, so nothing built here is shared between runs.
type Builder struct {
	catalog    *Catalog
	textModel  model.LLM
	imageModel model.LLM
	tools      map[string]tool.Tool
}

func NewBuilder(catalog *Catalog, textModel, imageModel model.LLM, tools map[string]tool.Tool) *Builder {
	if imageModel == nil {
		imageModel = textModel
	}
	return &Builder{
		catalog:    catalog,
		textModel:  textModel,
		imageModel: imageModel,
		tools:      tools,
	}
}

func (b *Builder) Catalog() *Catalog {
	return b.catalog
}

// Agent builds a standalone agent that answers on its own.
func (b *Builder) Agent(name string) (agent.Agent, error) {
	def, ok := b.catalog.Agent(name)
	if !ok {
		return nil, fmt.Errorf("unknown agent %q", name)
	}
	return b.build(def, true)
}

// Orchestrator builds the coordinator with its sub-agents in catalog order.
func (b *Builder) Orchestrator() (agent.Agent, error) {
	o := b.catalog.Orchestrator

	subs := make([]agent.Agent, 0, len(o.SubAgents))
	for _, name := range o.SubAgents {
		def, _ := b.catalog.Agent(name)
		sub, err := b.build(def, false)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}

	return llmagent.New(llmagent.Config{
		Name:        o.Name,
		Model:       b.textModel,
		Description: o.Description,
		Instruction: o.Instruction,
		SubAgents:   subs,
	})
}

func (b *Builder) build(def AgentDef, standalone bool) (agent.Agent, error) {
	tools := make([]tool.Tool, 0, len(def.Tools))
	for _, name := range def.Tools {
		t, ok := b.tools[name]
		if !ok {
			return nil, fmt.Errorf("agent %s: unknown tool %q", def.Name, name)
		}
		tools = append(tools, t)
	}

	m := b.textModel
	if def.ImageModel {
		m = b.imageModel
	}

	a, err := llmagent.New(llmagent.Config{
		Name:                     def.Name,
		Model:                    m,
		Description:              def.Description,
		Instruction:              def.Instruction,
		Tools:                    tools,
		DisallowTransferToParent: standalone,
		DisallowTransferToPeers:  standalone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent %s: %w", def.Name, err)
	}
	return a, nil
}
