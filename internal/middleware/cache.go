package middleware

import "github.com/gin-gonic/gin"

const cacheHitKey = "cache_hit"

// SetCacheHit records whether the response was served from cache so handlers
// can surface it in the response meta.
func SetCacheHit(c *gin.Context, hit bool) {
	c.Set(cacheHitKey, hit)
}

// ExtractMeta builds the response meta map from request-scoped values.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	meta := map[string]interface{}{}
	if hit, exists := c.Get(cacheHitKey); exists {
		meta[cacheHitKey] = hit
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}
