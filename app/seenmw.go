package app

import (
	"time"

	"tooltrack/db"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// TouchLastSeen stamps the caller's last-seen time at most once per throttle
// window, using Redis SetNX so the DB write is skipped on the hot path.
func TouchLastSeen(repo *db.Repo, rdb *redis.Client, throttle time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxEmail)
		if !ok {
			c.Next()
			return
		}
		email, _ := v.(string)
		if email == "" {
			c.Next()
			return
		}

		key := "user:lastseen:" + email
		if ok, _ := rdb.SetNX(c, key, "1", throttle).Result(); ok {
			_ = repo.TouchUserSeen(c, email) // best effort, never blocks the request
		}
		c.Next()
	}
}
