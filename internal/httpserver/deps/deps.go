package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scenegallery/scenegallery/internal/collection"
	"github.com/scenegallery/scenegallery/internal/logger"
	"github.com/scenegallery/scenegallery/internal/query"
	"github.com/scenegallery/scenegallery/internal/remote"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	AllowedHosts  []string      // Host headers allowed to access the server
	AllowedCIDRS  []string      // IPs allowed to access healthz/readyz endpoints
	TrustProxy    bool          // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RedisClient   *redis.Client // Redis client connection
	Collection    *collection.Store
	Channel       *remote.Channel
	Engine        *query.Engine
	PageSize      int           // videos per pagination page
	ReloadTrigger chan struct{} // Channel to trigger a manual reconcile
}
