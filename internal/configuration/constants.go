package configuration

import "time"

const AppName = "elearning-admin"

// Session cookie attributes. They are fixed and not configurable.
const (
	SessionCookieName = "auth_token"
	SessionCookiePath = "/"
	SessionMaxAge     = 7 * 24 * time.Hour
)

// BackendLogoutTimeout caps how long sign out waits for the backend to revoke the token.
const BackendLogoutTimeout = 3 * time.Second

// Browser routes the auth actions redirect to.
const (
	LoginRoute     = "/login"
	DashboardRoute = "/dashboard"
)

// Backend API paths.
const (
	BackendLoginPath         = "/auth/login"
	BackendLogoutPath        = "/auth/logout"
	BackendUsersPath         = "/users"
	BackendCoursesPath       = "/api/courses"
	BackendCarnetsPath       = "/api/carnets"
	BackendAdminUserPath     = "/api/admin/users/%s"
	BackendCreateTeacherPath = "/api/admin/create-teacher"
	BackendRejectCarnetPath  = "/api/admin/reject-carnet"
	BackendSubscriptionsPath = "/api/admin/subscriptions"
)

// ProxyPrefix is stripped from inbound paths before they are forwarded by the catch-all handler.
const ProxyPrefix = "/api"

// RequiredAdminRole is the only backend role allowed to open a session.
const RequiredAdminRole = "admin"

const (
	CacheStatsSnapshotKey  = "stats:snapshot:%s"
	CacheLoginRateLimitKey = "ratelimit:login:%s"
	// MaxMultipartMemory bounds the in-memory part of a parsed upload; the rest spills to disk.
	MaxMultipartMemory = 32 << 20
)

const (
	ProviderMemory     = "memory"
	ProviderRedis      = "redis"
	ProviderValkey     = "valkey"
	ProviderFilesystem = "filesystem"
)

const (
	EventsActivityTopic  = "activity"
	ActivitySearchLimit  = 100
	ActivityDefaultLimit = 50
	ActivityDefaultDays  = 7

	ActivityRetentionInterval = 6 * time.Hour
)

// EnvAliases maps legacy environment variables onto koanf keys.
var EnvAliases = map[string]string{
	"NEXT_PUBLIC_API_BASE_URL": "backend.base_url",
	"GOOGLE_API_KEY":           "moderation.google_api_key",
}

var ArrayConfigFields = []string{
	"app.allowed_origins",
	"cache.redis.hosts",
	"cache.valkey.hosts",
}

var ConfigFileSearchPaths = []string{
	"./config.yaml",
	"templates/config.yaml",
}
