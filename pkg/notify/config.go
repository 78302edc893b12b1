package notify

// Config holds dispatch settings loaded from the environment.
type Config struct {
	// BestEffort attempts every group instead of stopping at the first failure.
	BestEffort bool `env:"NOTIFY_BEST_EFFORT" envDefault:"false"`
	// HubBuffer is the per-connection message buffer of the in-process hub.
	HubBuffer int `env:"NOTIFY_HUB_BUFFER" envDefault:"64"`
}
