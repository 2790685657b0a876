package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ResendCooldown enforces a minimum interval between verification code
// requests per user. Each new code supersedes the previous one, so silent
// rapid reissues waste SMS spend without helping the user; the frontend
// surfaces a "resend" button gated by this cooldown. Bypassed when Redis is
// unavailable.
func ResendCooldown(redisClient *redis.Client, cooldown time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDInterface, exists := c.Get("userID")
		if !exists {
			c.Next()
			return
		}
		userID, ok := userIDInterface.(uuid.UUID)
		if !ok {
			c.Next()
			return
		}

		ctx := context.Background()
		key := fmt.Sprintf("otp_cooldown:%s", userID)

		set, err := redisClient.SetNX(ctx, key, "1", cooldown).Result()
		if err != nil {
			log.Printf("WARN: Redis not available for resend cooldown: %v", err)
			c.Next()
			return
		}
		if !set {
			ttl, _ := redisClient.TTL(ctx, key).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Please wait before requesting another code",
				"retry_after": ttl.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
