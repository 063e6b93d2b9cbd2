package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maheshrc27/ghostwriter/internal/agents"
	"github.com/maheshrc27/ghostwriter/internal/transfer"
	"golang.org/x/sync/errgroup"
)

const adaptConcurrency = 3

var adaptHints = map[string]string{
	agents.OutputFacebook:  "a Facebook post: conversational, 2-3 short paragraphs, ending with a question",
	agents.OutputWordPress: "a WordPress blog post in simple HTML (<h2>, <p>), 150-250 words",
	agents.OutputInstagram: "an Instagram caption: punchy, under 60 words, followed by 5-8 hashtags",
}

type AgentService interface {
	RunFullCycle(ctx context.Context, req transfer.RunCycleRequest) (*transfer.RunCycleResponse, error)
	// RunAgent runs one catalog agent by its route slug.
	RunAgent(ctx context.Context, slug string, req transfer.AgentRequest) (*transfer.AgentResponse, error)
	Refine(ctx context.Context, req transfer.RefineRequest) (*transfer.RefineResponse, error)
}

type agentService struct {
	builder   *agents.Builder
	runner    *agents.Runner
	generator TextGenerator
}

// NewAgentService takes a nil builder when no model is configured; the full
// cycle then answers from templates and single agents report the missing key.
func NewAgentService(builder *agents.Builder, runner *agents.Runner, generator TextGenerator) AgentService {
	return &agentService{
		builder:   builder,
		runner:    runner,
		generator: generator,
	}
}

func (s *agentService) RunFullCycle(ctx context.Context, req transfer.RunCycleRequest) (*transfer.RunCycleResponse, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: topic is required", ErrInvalidInput)
	}

	resp := &transfer.RunCycleResponse{Success: true, Topic: topic}

	if s.builder == nil {
		resp.Fallback = true
		resp.Outputs = agents.ParseCycleOutputs("", topic, req.Tone)
		return resp, nil
	}

	text, err := s.runOrchestrator(ctx, topic, req.Tone)
	if err != nil {
		slog.Info("full cycle fell back to templates", "error", err.Error())
		resp.Fallback = true
		resp.Outputs = agents.ParseCycleOutputs("", topic, req.Tone)
		return resp, nil
	}
	resp.Result = text

	found := agents.ExtractCycleOutputs(text)
	if _, ok := found[agents.OutputMaster]; !ok {
		found[agents.OutputMaster] = agents.FallbackOutput(agents.OutputMaster, topic, req.Tone)
	}
	s.adaptMissing(ctx, found, topic, req.Tone)
	resp.Outputs = agents.BuildOutputs(found)
	return resp, nil
}

func (s *agentService) runOrchestrator(ctx context.Context, topic, tone string) (string, error) {
	orchestrator, err := s.builder.Orchestrator()
	if err != nil {
		return "", err
	}
	return s.runner.Run(ctx, orchestrator, agents.CyclePrompt(topic, tone))
}

// adaptMissing fills the channels the orchestrator left out by rewriting
// the master text for each of them concurrently.
func (s *agentService) adaptMissing(ctx context.Context, found map[string]string, topic, tone string) {
	var missing []string
	for _, ch := range agents.CycleChannels {
		if _, ok := found[ch]; !ok {
			missing = append(missing, ch)
		}
	}
	if len(missing) == 0 {
		return
	}

	adapted := make([]string, len(missing))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(adaptConcurrency)
	for i, ch := range missing {
		g.Go(func() error {
			adapted[i] = agents.FallbackOutput(ch, topic, tone)
			if s.generator == nil {
				return nil
			}
			text, err := s.generator.Generate(gctx, adaptPrompt(ch, found[agents.OutputMaster], tone))
			if err != nil {
				slog.Info("channel adaptation failed", "channel", ch, "error", err.Error())
				return nil
			}
			if text = strings.TrimSpace(text); text != "" {
				adapted[i] = text
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, ch := range missing {
		found[ch] = adapted[i]
	}
}

func (s *agentService) RunAgent(ctx context.Context, slug string, req transfer.AgentRequest) (*transfer.AgentResponse, error) {
	if s.builder == nil {
		return nil, fmt.Errorf("%w: GOOGLE_API_KEY", ErrNotConfigured)
	}
	def, ok := s.builder.Catalog().BySlug(slug)
	if !ok {
		return nil, fmt.Errorf("%w: unknown agent %q", ErrInvalidInput, slug)
	}

	a, err := s.builder.Agent(def.Name)
	if err != nil {
		return nil, err
	}
	text, err := s.runner.Run(ctx, a, def.Prompt(req.Prompt, req.Topic))
	if err != nil {
		return nil, fmt.Errorf("%w: running %s: %v", ErrUpstream, def.Name, err)
	}
	return &transfer.AgentResponse{Success: true, Result: text}, nil
}

func (s *agentService) Refine(ctx context.Context, req transfer.RefineRequest) (*transfer.RefineResponse, error) {
	if strings.TrimSpace(req.CurrentContent) == "" || strings.TrimSpace(req.RefinementInstruction) == "" {
		return nil, fmt.Errorf("%w: current_content and refinement_instruction are required", ErrInvalidInput)
	}
	if s.generator == nil {
		return nil, fmt.Errorf("%w: GOOGLE_API_KEY", ErrNotConfigured)
	}

	text, err := s.generator.Generate(ctx, refinePrompt(req))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return &transfer.RefineResponse{Success: true, RefinedContent: strings.TrimSpace(text)}, nil
}

func adaptPrompt(channel, master, tone string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rewrite the following content as %s.", adaptHints[channel])
	if tone = strings.TrimSpace(tone); tone != "" {
		fmt.Fprintf(&b, " Keep a %s tone.", tone)
	}
	b.WriteString(" Return only the post text.\n\n")
	b.WriteString(master)
	return b.String()
}

func refinePrompt(req transfer.RefineRequest) string {
	var b strings.Builder
	platform := req.Platform
	if platform == "" {
		platform = "social media"
	}
	fmt.Fprintf(&b, "You are editing a %s post.", platform)
	if t := strings.TrimSpace(req.Topic); t != "" {
		fmt.Fprintf(&b, " The topic is %s.", t)
	}
	fmt.Fprintf(&b, "\n\nCurrent post:\n%s\n\nApply this change: %s\n\n", req.CurrentContent, req.RefinementInstruction)
	b.WriteString("Return only the refined post, keeping the format that suits the platform.")
	return b.String()
}
