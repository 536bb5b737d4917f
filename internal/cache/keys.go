package cache

import "strings"

const (
	GlobalKeyPrefix = "quizmaster"

	// LeaderboardKey holds the JSON-encoded global top-N leaderboard.
	LeaderboardKey = GlobalKeyPrefix + ":leaderboard:global"
)

// GenerateCacheKey generates a cache key for a given service, object type,
// and identifier. Extra params are joined by "_" and appended.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// TaskStatusKey is the cache key of one task status record.
func TaskStatusKey(taskID string) string {
	return GenerateCacheKey("scheduler", "task", taskID)
}
