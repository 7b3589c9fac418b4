package config

const (
	defaultListen    = ":8000"
	defaultUploadDir = "./uploads"

	defaultStorageDriver = StorageSQLite

	defaultChatAPIBase       = "https://api.coze.cn"
	defaultChatIdleTimeout   = "120s"
	defaultChatDefaultUserID = "web_user"

	defaultEventStreamProvider = EventStreamNop
	defaultEventStreamTopic    = "sxpeea.chat.streams"

	defaultClientServerTarget = "http://localhost:8000"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
//
// An empty storage.sqlite_path resolves to sxpeea.db inside the config
// directory.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen:    defaultListen,
			UploadDir: defaultUploadDir,
		},
		Storage: StorageConfig{
			Driver: defaultStorageDriver,
		},
		Chat: ChatConfig{
			APIBase:       defaultChatAPIBase,
			IdleTimeout:   defaultChatIdleTimeout,
			DefaultUserID: defaultChatDefaultUserID,
		},
		EventStream: EventStreamConfig{
			Provider: defaultEventStreamProvider,
			Topic:    defaultEventStreamTopic,
		},
		Client: ClientConfig{
			ServerTarget: defaultClientServerTarget,
		},
	}
}
