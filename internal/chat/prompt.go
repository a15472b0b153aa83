package chat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iburimskiy/edna-dashboard/internal/fixture"
)

const persona = "You are a world-class microbiome data analyst named E-DNA Bot. " +
	"Your task is to provide clear, concise, and helpful answers about the provided microbiome analysis data. " +
	"Only answer questions related to the data provided. " +
	"If asked a question unrelated to the data, politely explain that you can only analyze the provided information."

const unknown = "Unknown"

// BuildSystemPrompt grounds the model in the analysis. The headline metrics
// quote the dominant kingdom of the first sample and the Shannon diversity
// of the second, in sorted sample order.
func BuildSystemPrompt(a *fixture.Analysis) (string, error) {
	if a == nil {
		return "", ErrNoAnalysis
	}
	doc, err := a.JSON()
	if err != nil {
		return "", err
	}

	samples := a.Samples()
	firstName, dominant := unknown, unknown
	if len(samples) > 0 {
		firstName = samples[0]
		if k := a.Diversity.SampleSummary[firstName].DominantKingdom; k != "" {
			dominant = k
		}
	}
	secondName, shannon := unknown, unknown
	if len(samples) > 1 {
		secondName = samples[1]
		if v, ok := a.Diversity.Alpha.Shannon[secondName]; ok {
			shannon = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}

	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "The current analysis data is for Analysis ID: %s.\n", a.ID)
	fmt.Fprintf(&b, "The full JSON data object is: %s.\n\n", doc)
	b.WriteString("Key metrics to summarize:\n")
	fmt.Fprintf(&b, "- Total Samples Processed: %d\n", a.Overview.TotalSamplesProcessed)
	fmt.Fprintf(&b, "- Total Sequences: %d\n", a.Overview.TotalSequences)
	fmt.Fprintf(&b, "- Dominant Kingdom (%s): %s\n", firstName, dominant)
	fmt.Fprintf(&b, "- Shannon Diversity (%s): %s\n\n", secondName, shannon)
	b.WriteString("Based on this information, provide a detailed and accurate response to the user's query.")
	return b.String(), nil
}
