package provider

import (
	"context"

	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/ai"
)

// Agentic wraps a single-call vendor. The vendor signals failure either by
// returning an error or by embedding the error marker in its text payload;
// both are converted to a tagged Result here so nothing raises past the
// provider boundary.
type Agentic struct {
	agent    ai.Agent
	name     string
	validate func() bool
}

var _ Provider = (*Agentic)(nil)

func NewAgentic(name string, agent ai.Agent, validate func() bool) *Agentic {
	return &Agentic{agent: agent, name: name, validate: validate}
}

func (a *Agentic) Name() string { return a.name }

func (a *Agentic) ValidateConfig() bool {
	if a.validate == nil {
		return false
	}
	return a.validate()
}

func (a *Agentic) FetchAndSummarizeNews(ctx context.Context, topic string) Result {
	text, err := a.agent.FetchAndSummarize(ctx, topic)
	if err != nil {
		return Result{Kind: Error, Text: "Error: " + err.Error(), Detail: err.Error()}
	}
	return Classify(text)
}
