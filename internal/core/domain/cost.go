package domain

import "math"

// modelPricing is USD per 1M tokens, from the Groq price sheet.
var modelPricing = map[string]struct{ input, output float64 }{
	ModelFast:      {input: 0.05, output: 0.08},
	ModelVersatile: {input: 0.59, output: 0.79},
}

// EstimateTokens approximates token count at four characters per token.
func EstimateTokens(text string) int {
	return int(math.Ceil(float64(len(text)) / 4))
}

// EstimateCost prices a token count against a model, assuming an even
// input/output split. Unknown models price as the fast tier.
func EstimateCost(tokens int, model string) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		pricing = modelPricing[ModelFast]
	}
	avgPrice := (pricing.input + pricing.output) / 2
	return float64(tokens) / 1_000_000 * avgPrice
}
