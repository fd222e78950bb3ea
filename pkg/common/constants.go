package common

const (
	RedisStreamRefreshTasks = "calendar.refresh.tasks"

	RedisStreamGroup    = "sync-group"
	RedisStreamConsumer = "sync-consumer"
)
