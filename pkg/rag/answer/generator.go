package answer

import (
	"context"
	"fmt"
	"log"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"website-chatbot-be/pkg/llm"
)

const DefaultCacheSize = 300

// Small instruction-tuned models pad and loop without tight decoding
// bounds; these mirror what works for flan-t5-class models.
const (
	maxNewTokens  = 160
	minNewTokens  = 40
	repeatPenalty = 1.35
	noRepeatNgram = 3
)

const promptTemplate = `You are a website support chatbot.

Rules:
- Answer ONLY using the context below
- Do not repeat sentences or guess
- If the answer is missing, say: "Information not available on this website."
- Keep the answer short (1-2 sentences)

Context:
%s

Question:
%s

Answer:`

// Generator produces grounded answers deterministically and memoizes them
// in a bounded LRU keyed by the exact prompt string. Identical prompts
// invoke the model at most once per cache residency.
type Generator struct {
	provider llm.LLMProvider
	cache    *lru.Cache[string, string]
	logger   *log.Logger
}

func NewGenerator(provider llm.LLMProvider, cacheSize int, logger *log.Logger) (*Generator, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create answer cache: %w", err)
	}
	return &Generator{
		provider: provider,
		cache:    cache,
		logger:   logger,
	}, nil
}

// Answer builds the grounded prompt and returns the generated reply,
// serving repeats from cache. Empty model output is returned as-is; a
// caller needing a non-empty guarantee must check the result itself.
func (g *Generator) Answer(ctx context.Context, contextText, question string) (string, error) {
	prompt := BuildPrompt(contextText, question)

	if cached, ok := g.cache.Get(prompt); ok {
		if g.logger != nil {
			g.logger.Printf("[ANSWER] cache hit (%d entries)", g.cache.Len())
		}
		return cached, nil
	}

	result, err := g.provider.Generate(ctx, prompt,
		llm.WithTemperature(0), // greedy decoding, no sampling
		llm.WithMaxTokens(maxNewTokens),
		llm.WithMinTokens(minNewTokens),
		llm.WithRepeatPenalty(repeatPenalty),
		llm.WithNoRepeatNgram(noRepeatNgram),
	)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	result = strings.TrimSpace(result)
	g.cache.Add(prompt, result)
	return result, nil
}

// BuildPrompt renders the fixed grounding template. Exported because the
// cache key is the exact prompt text.
func BuildPrompt(contextText, question string) string {
	return fmt.Sprintf(promptTemplate, contextText, question)
}
