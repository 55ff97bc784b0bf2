package services

import "fmt"

// ModelPricing is the USD price per million tokens.
type ModelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// modelPricing lists known models. Local models are free.
var modelPricing = map[string]ModelPricing{
	"claude-3-5-haiku-20241022":  {InputPerMillion: 1, OutputPerMillion: 5},
	"claude-3-5-sonnet-20241022": {InputPerMillion: 3, OutputPerMillion: 15},
	"claude-3-opus-20240229":     {InputPerMillion: 15, OutputPerMillion: 75},
	"gpt-4o-mini":                {InputPerMillion: 0.15, OutputPerMillion: 0.6},
	"llama2":                     {},
	"llama3":                     {},
	"llama3.1":                   {},
	"llama3.2":                   {},
}

// CalculateTokenCost returns the USD cost of a call, or false when the model
// has no known pricing.
func CalculateTokenCost(model string, inputTokens, outputTokens int) (float64, bool) {
	if model == "" {
		return 0, false
	}
	p, ok := modelPricing[model]
	if !ok {
		return 0, false
	}
	cost := float64(inputTokens)/1_000_000*p.InputPerMillion +
		float64(outputTokens)/1_000_000*p.OutputPerMillion
	return cost, true
}

// FormatCost renders a USD amount: "$0.00" for zero, "<$0.0001" for tiny
// amounts, four decimals below a cent and two otherwise.
func FormatCost(cost float64) string {
	switch {
	case cost == 0:
		return "$0.00"
	case cost < 0.0001:
		return "<$0.0001"
	case cost < 0.01:
		return fmt.Sprintf("$%.4f", cost)
	default:
		return fmt.Sprintf("$%.2f", cost)
	}
}
