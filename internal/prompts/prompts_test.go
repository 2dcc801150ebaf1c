package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemPrompt(t *testing.T) {
	p := SystemPrompt()
	assert.Contains(t, p, "Genomic Foundation Model")
	assert.Contains(t, p, "up to 600kb")
	assert.Contains(t, p, "'EFP' | 'GEP' | 'EAP'")
	for _, m := range Modalities {
		assert.Contains(t, p, "- "+m+"\n")
	}
}
