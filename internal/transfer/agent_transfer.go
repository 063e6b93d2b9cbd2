package transfer

type RunCycleRequest struct {
	Topic string `json:"topic"`
	Tone  string `json:"tone"`
}

// CycleOutputs is the per-channel text a full cycle produces.
type CycleOutputs struct {
	Master    string `json:"master"`
	Facebook  string `json:"facebook"`
	WordPress string `json:"wordpress"`
	Instagram string `json:"instagram"`
}

type RunCycleResponse struct {
	Success  bool         `json:"success"`
	Topic    string       `json:"topic"`
	Result   string       `json:"result"`
	Outputs  CycleOutputs `json:"outputs"`
	Fallback bool         `json:"fallback,omitempty"`
}

type AgentRequest struct {
	Prompt string `json:"prompt"`
	Topic  string `json:"topic"`
}

type AgentResponse struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
}

type RefineRequest struct {
	Platform              string `json:"platform"`
	CurrentContent        string `json:"current_content"`
	RefinementInstruction string `json:"refinement_instruction"`
	Topic                 string `json:"topic"`
}

type RefineResponse struct {
	Success        bool   `json:"success"`
	RefinedContent string `json:"refined_content"`
}
