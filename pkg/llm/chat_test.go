package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/types"
	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/pkg/llm"
)

func TestNewWithConfig(t *testing.T) {
	config := types.GeneratorConfig{
		Model:       "testmodel",
		Temperature: 0.5,
		MaxTokens:   1000,
		BaseURL:     "http://localhost:1234",
	}
	engine, err := llm.NewWithConfig(config)
	assert.NoError(t, err)
	assert.NotNil(t, engine)
}

func TestNewWithConfigDefaults(t *testing.T) {
	engine, err := llm.NewWithConfig(types.GeneratorConfig{})
	assert.NoError(t, err)
	assert.NotNil(t, engine)
}

func TestNewWithConfigInvalidTemperature(t *testing.T) {
	_, err := llm.NewWithConfig(types.GeneratorConfig{Temperature: 3.0})
	assert.Error(t, err)
}

func TestNewWithConfigNegativeMaxTokens(t *testing.T) {
	_, err := llm.NewWithConfig(types.GeneratorConfig{MaxTokens: -1})
	assert.Error(t, err)
}
