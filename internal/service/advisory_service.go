package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Issaqsk/farm2market/internal/adapter/advisory"
	"github.com/Issaqsk/farm2market/internal/platform/logger"
	"github.com/Issaqsk/farm2market/internal/repository"
)

// Fallback values returned when the advisory boundary fails. Callers never
// see an error from this service, only a degraded-but-valid value.
const (
	priceFallbackExplanation = "Could not fetch AI insights at this moment."
	qualityFallbackFeedback  = "Error analyzing image."
	chatFallbackReply        = "Error connecting to AI."
	chatEmptyReply           = "I'm not sure how to answer that."
)

// AdvisoryService wraps the raw advisor with the fallback-on-failure policy
// and a TTL cache for the text-keyed lookups. Quality checks are never
// cached; image payloads make poor cache keys.
type AdvisoryService struct {
	advisor  advisory.Advisor
	cache    repository.AdvisoryCache
	cacheTTL time.Duration
	log      logger.Logger
}

func NewAdvisoryService(advisor advisory.Advisor, cache repository.AdvisoryCache, cacheTTL time.Duration, log logger.Logger) *AdvisoryService {
	return &AdvisoryService{
		advisor:  advisor,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func (s *AdvisoryService) SuggestPrice(ctx context.Context, productName, location, category string) advisory.PriceSuggestion {
	key := cacheKey("price", productName, location, category)

	var cached advisory.PriceSuggestion
	if s.cacheGet(ctx, key, &cached) {
		return cached
	}

	suggestion, err := s.advisor.SuggestPrice(ctx, productName, location, category)
	if err != nil {
		s.log.Warnf("Price suggestion for %q failed: %v", productName, err)
		return advisory.PriceSuggestion{SuggestedPrice: 0, Explanation: priceFallbackExplanation}
	}

	s.cacheSet(ctx, key, suggestion)
	return *suggestion
}

func (s *AdvisoryService) CheckQuality(ctx context.Context, image []byte) advisory.QualityReport {
	report, err := s.advisor.CheckQuality(ctx, image)
	if err != nil {
		s.log.Warnf("Quality check failed: %v", err)
		return advisory.QualityReport{Score: 0, Feedback: qualityFallbackFeedback}
	}
	return *report
}

func (s *AdvisoryService) RecommendCrops(ctx context.Context, location string) []advisory.CropRecommendation {
	key := cacheKey("crops", location)

	var cached []advisory.CropRecommendation
	if s.cacheGet(ctx, key, &cached) {
		return cached
	}

	recommendations, err := s.advisor.RecommendCrops(ctx, location)
	if err != nil {
		s.log.Warnf("Crop recommendations for %q failed: %v", location, err)
		return []advisory.CropRecommendation{}
	}
	if recommendations == nil {
		recommendations = []advisory.CropRecommendation{}
	}

	s.cacheSet(ctx, key, recommendations)
	return recommendations
}

// Chat answers a free-form question in the context of the given role. Replies
// are conversational and never cached.
func (s *AdvisoryService) Chat(ctx context.Context, role, message string) string {
	reply, err := s.advisor.Chat(ctx, role, message)
	if err != nil {
		s.log.Warnf("Chat reply for role %s failed: %v", role, err)
		return chatFallbackReply
	}
	if strings.TrimSpace(reply) == "" {
		return chatEmptyReply
	}
	return reply
}

func (s *AdvisoryService) cacheGet(ctx context.Context, key string, v interface{}) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warnf("Corrupt advisory cache entry %s dropped: %v", key, err)
		return false
	}
	return true
}

func (s *AdvisoryService) cacheSet(ctx context.Context, key string, v interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.log.Warnf("Failed to cache advisory entry %s: %v", key, err)
	}
}

func cacheKey(kind string, parts ...string) string {
	lowered := make([]string, len(parts))
	for i, p := range parts {
		lowered[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return fmt.Sprintf("%s:%s", kind, strings.Join(lowered, "|"))
}
