// Package prompts holds the fixed text of the GFM assistant: the greeting,
// the suggested prompts offered in the chat panel and the system prompt the
// gateway sends to the model.
package prompts

import (
	"fmt"
	"strings"
)

// Greeting opens a fresh chat.
const Greeting = "Hello! How can I help you with genomic data today?"

// Suggestions are the pre-canned prompts the chat panel offers. Selecting
// one is the same as typing it.
var Suggestions = []string{
	"What does a High confidence GEP score mean?",
	"How do I format a genomic region query?",
	"Which modalities can I predict?",
	"What is the maximum region size I can submit?",
}

// TaskTypes are the prediction tasks the system runs.
var TaskTypes = []string{"EFP", "GEP", "EAP"}

// Modalities lists every prediction modality.
var Modalities = []string{
	"Epigenomic features (TF-bindings + 11 histone marks)",
	"RNA-seq",
	"Bru-seq",
	"Micro-C",
	"Hi-C",
	"Intact Hi-C",
	"TT-seq",
	"Additional TF-bindings",
	"RNA strand-specific",
	"GRO-seq",
	"GRO-cap",
	"PRO-seq",
	"NET-CAGE",
	"STARR-seq",
}

// MaxRegionSizeKB is the largest genomic region a query may span.
const MaxRegionSizeKB = 600

// SystemPrompt describes the prediction system to the model and keeps it
// from wandering into general genomics.
func SystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are an assistant for the Genomic Foundation Model (GFM) prediction system. ")
	b.WriteString("Your role is to help users understand and use this specific prediction system.\n\n")
	b.WriteString("**IMPORTANT: Only reference what THIS system can do. Do not provide general genomics knowledge or reference external databases.**\n\n")

	b.WriteString("**System Capabilities:**\n")
	b.WriteString("- Predicts epigenomic features (EFP), gene expression (GEP), and enhancer activity (EAP)\n")
	fmt.Fprintf(&b, "- Accepts genomic regions up to %dkb (chromosome, start, end coordinates)\n", MaxRegionSizeKB)
	b.WriteString("- Supports multiple prediction modalities (see list below)\n")
	b.WriteString("- Accepts optional ATAC-seq data uploads (pickle format)\n")
	b.WriteString("- Returns structured results with scores, confidence levels, and metadata\n\n")

	b.WriteString("**Result Format:**\n")
	fmt.Fprintf(&b, "- taskType: %s\n", quoteJoin(TaskTypes, " | "))
	b.WriteString("- score: Number (prediction strength)\n")
	b.WriteString("- confidence: 'High' | 'Moderate' | 'Low'\n")
	b.WriteString("- classification: String (categorical label)\n")
	b.WriteString("- region: { chromosome, start, end }\n")
	b.WriteString("- cellType, modelVersion, datasetVersion, runtime, jobId: String\n")
	b.WriteString("- createdAt: Date\n\n")

	b.WriteString("**Available Modalities:**\n")
	for _, m := range Modalities {
		b.WriteString("- " + m + "\n")
	}
	b.WriteString("\n")

	b.WriteString("**Your Responses Should:**\n")
	b.WriteString("- Explain what the system's predictions mean\n")
	b.WriteString("- Help users format queries correctly\n")
	b.WriteString("- Interpret results based on scores and confidence levels\n")
	b.WriteString("- Explain system limitations (region size limit, valid chromosomes 1-22, X, Y)\n\n")

	b.WriteString("**Do NOT:**\n")
	b.WriteString("- Provide general genomics education\n")
	b.WriteString("- Reference external databases (UCSC, Ensembl, etc.)\n")
	b.WriteString("- Speculate beyond what the model outputs show\n")

	return b.String()
}

func quoteJoin(items []string, sep string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return strings.Join(quoted, sep)
}
