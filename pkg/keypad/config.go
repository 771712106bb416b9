package keypad

import (
	"time"

	"github.com/antibyte/retrocalc/pkg/configuration"
)

// Websocket configuration values are read from the [Network] section
// of settings.cfg on every use so a config reload takes effect
// without reconnecting.

func getWriteWait() time.Duration {
	return configuration.GetDuration("Network", "write_wait_timeout", 10*time.Second)
}

func getPongWait() time.Duration {
	return configuration.GetDuration("Network", "pong_timeout", 90*time.Second)
}

func getPingPeriod() time.Duration {
	pongWait := getPongWait()
	return (pongWait * 9) / 10
}

func getMaxMessageSize() int64 {
	return int64(configuration.GetInt("Network", "max_message_size_kb", 4) * 1024)
}

func getMaxChannelBuffer() int {
	return configuration.GetInt("Network", "max_channel_buffer", 256)
}

func getMaxClients() int {
	return configuration.GetInt("Network", "max_clients", 100)
}

func getMaxMessagesPerSecond() int {
	return configuration.GetInt("Network", "max_messages_per_second", 30)
}

func sessionCleanupInterval() time.Duration {
	return configuration.GetDuration("Session", "session_cleanup_interval", 30*time.Minute)
}

func maxInactiveTime() time.Duration {
	return configuration.GetDuration("Session", "max_inactive_time", 30*time.Minute)
}
