// Package orchestrator composes the pluggable text-completion capability
// with response extraction, bounded retries and the deterministic fallback
// classifier. The fallback is always computed first: no AI or extraction
// failure can ever leave a request without a complete mapping.
package orchestrator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jmylchreest/webtint/internal/classifier"
	"github.com/jmylchreest/webtint/internal/extract"
	"github.com/jmylchreest/webtint/internal/mapping"
	"github.com/jmylchreest/webtint/internal/provider"
	"github.com/jmylchreest/webtint/internal/signal"
)

// requiredKeys is the response shape contract shared with the prompts.
var requiredKeys = []string{"mappings", "summary"}

// Config tunes the AI side of the engine. The zero value disables nothing;
// defaults are filled in by New.
type Config struct {
	// Model is the completion model for the first attempt.
	Model string
	// SimpleModel, if set, replaces Model on the strict second attempt. Use
	// it to swap a reasoning model for one that emits plain JSON.
	SimpleModel string
	Temperature float64
	MaxTokens   int
	// Timeout bounds each individual completion call.
	Timeout time.Duration
	Retry   provider.RetryPolicy
	// CacheSize is the number of completion responses kept in the LRU cache.
	CacheSize int
}

// Engine runs mapping requests. A nil provider disables AI assistance
// entirely; the engine then returns pure fallback results.
type Engine struct {
	provider provider.Provider
	cfg      Config
	log      hclog.Logger
	cache    *lru.Cache[string, string]
}

// New creates an engine. prov may be nil to run without AI assistance.
func New(prov provider.Provider, cfg Config, logger hclog.Logger) (*Engine, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Retry.Backoff == nil && cfg.Retry.MaxRetries == 0 {
		cfg.Retry = provider.DefaultRetryPolicy()
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 32
	}

	cache, err := lru.New[string, string](cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Engine{
		provider: prov,
		cfg:      cfg,
		log:      logger,
		cache:    cache,
	}, nil
}

// MapAll maps every category of the document. The three categories share no
// mutable state and run concurrently; each degrades independently.
func (e *Engine) MapAll(ctx context.Context, sess signal.Session, doc *signal.Document) map[signal.Category]mapping.Result {
	categories := signal.Categories()
	results := make([]mapping.Result, len(categories))

	var wg sync.WaitGroup
	for i, cat := range categories {
		wg.Add(1)
		go func(i int, cat signal.Category) {
			defer wg.Done()
			results[i] = e.MapCategory(ctx, sess, cat, doc)
		}(i, cat)
	}
	wg.Wait()

	out := make(map[signal.Category]mapping.Result, len(categories))
	for i, cat := range categories {
		out[cat] = results[i]
	}
	return out
}

// MapCategory runs one category's pipeline: fallback classification, then an
// AI refinement pass that is merged in only if it survives extraction and
// palette validation.
func (e *Engine) MapCategory(ctx context.Context, sess signal.Session, category signal.Category, doc *signal.Document) mapping.Result {
	fallback := classifier.Classify(sess, category, doc)

	if e.provider == nil || len(fallback) == 0 {
		return mapping.NewResult(category, fallback, sess.Accents, false)
	}

	suggestions, ok := e.suggest(ctx, sess, category, doc)
	if !ok {
		e.log.Warn("falling back to deterministic mapping", "category", category)
		return mapping.NewResult(category, fallback, sess.Accents, true)
	}

	merged := mapping.Merge(fallback, suggestions, sess.Flavour)
	return mapping.NewResult(category, merged, sess.Accents, false)
}

// suggest runs the completion/extraction state machine for one category.
// Returns ok=false on any unrecoverable failure; the caller degrades.
func (e *Engine) suggest(ctx context.Context, sess signal.Session, category signal.Category, doc *signal.Document) ([]mapping.Suggestion, bool) {
	system := buildSystemPrompt(sess, category)
	user, err := buildUserPrompt(category, doc)
	if err != nil {
		e.log.Error("failed to build prompt", "category", category, "error", err)
		return nil, false
	}

	// First attempt: the configured model, raw prompt.
	raw, err := e.complete(ctx, system, user, e.cfg.Model)
	if err != nil {
		e.log.Warn("completion failed", "category", category, "model", e.cfg.Model, "error", err)
		return nil, false
	}

	suggestions, err := parseSuggestions(raw)
	if err == nil {
		return suggestions, true
	}
	e.log.Debug("extraction failed, retrying with strict instruction", "category", category, "error", err)

	// Second attempt: explicit output-only instruction, optionally a
	// simpler model. One re-extraction, then we give up.
	model := e.cfg.Model
	if e.cfg.SimpleModel != "" {
		model = e.cfg.SimpleModel
	}
	raw, err = e.complete(ctx, system+strictInstruction, user, model)
	if err != nil {
		e.log.Warn("strict completion failed", "category", category, "model", model, "error", err)
		return nil, false
	}

	suggestions, err = parseSuggestions(raw)
	if err != nil {
		e.log.Warn("extraction failed on second attempt", "category", category, "error", err)
		return nil, false
	}
	return suggestions, true
}

// complete invokes the provider through the retry policy, consulting the
// response cache first.
func (e *Engine) complete(ctx context.Context, system, user, model string) (string, error) {
	key := cacheKey(system, user, model)
	if cached, ok := e.cache.Get(key); ok {
		e.log.Debug("completion cache hit", "model", model)
		return cached, nil
	}

	req := provider.Request{
		System:      system,
		User:        user,
		Model:       model,
		Temperature: e.cfg.Temperature,
		MaxTokens:   e.cfg.MaxTokens,
		Timeout:     e.cfg.Timeout,
	}

	start := time.Now()
	text, err := e.cfg.Retry.Complete(ctx, e.provider, req)
	if err != nil {
		return "", err
	}
	e.log.Debug("completion succeeded", "model", model, "elapsed", time.Since(start))

	e.cache.Add(key, text)
	return text, nil
}

// parseSuggestions extracts the mapping payload from raw model text.
func parseSuggestions(raw string) ([]mapping.Suggestion, error) {
	obj, err := extract.Object(raw, requiredKeys...)
	if err != nil {
		return nil, err
	}

	var suggestions []mapping.Suggestion
	if err := json.Unmarshal(obj["mappings"], &suggestions); err != nil {
		return nil, &extract.Error{Kind: extract.KindInvalidShape, Msg: err.Error()}
	}
	return suggestions, nil
}

func cacheKey(system, user, model string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(system))
	h.Write([]byte{0})
	h.Write([]byte(user))
	return hex.EncodeToString(h.Sum(nil))
}
