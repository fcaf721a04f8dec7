// Package llm holds the value types shared by internal/provider,
// internal/telemetry, and internal/finops. It exists solely to keep the
// dependency graph acyclic: internal/finops depends on internal/provider
// and internal/telemetry, so neither of those packages can import
// internal/finops back — they depend on this leaf package instead.
package llm

// Usage reports the token counts a provider attributes to a single
// completion. Mirrors models/llm_result.py's usage sub-object in the
// original_source, typed instead of passed around as a bare map.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// Total returns the sum of input and output tokens.
func (u Usage) Total() int64 {
	return u.InputTokens + u.OutputTokens
}

// LLMResult is what a Provider returns on a successful SendRequest call.
type LLMResult struct {
	Provider  string  `json:"provider"`
	Model     string  `json:"model"`
	Content   string  `json:"content"`
	Usage     Usage   `json:"usage"`
	CostUSD   float64 `json:"cost_usd"`
	LatencyMS int64   `json:"latency_ms"`
}
