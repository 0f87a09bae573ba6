package planner

// Config holds the tunable thresholds for depletion planning. All values can
// be set from the planner block of the YAML config file; zero values are
// replaced with defaults so a partial config stays usable.
type Config struct {
	LookbackWindowDays        int `yaml:"lookback_window_days"`
	MinimumSampleCount        int `yaml:"minimum_sample_count"`
	CriticalThresholdDays     int `yaml:"critical_threshold_days"`
	LowThresholdDays          int `yaml:"low_threshold_days"`
	ReorderTargetHorizonDays  int `yaml:"reorder_target_horizon_days"`
	PendingOrderLookaheadDays int `yaml:"pending_order_lookahead_days"`
	// PackSize rounds reorder suggestions up to seller pack multiples.
	// Zero disables rounding.
	PackSize int `yaml:"pack_size"`
}

// DefaultConfig returns the stock planning thresholds
func DefaultConfig() Config {
	return Config{
		LookbackWindowDays:        14,
		MinimumSampleCount:        3,
		CriticalThresholdDays:     3,
		LowThresholdDays:          7,
		ReorderTargetHorizonDays:  30,
		PendingOrderLookaheadDays: 5,
		PackSize:                  0,
	}
}

// withDefaults fills unset fields from DefaultConfig
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.LookbackWindowDays <= 0 {
		c.LookbackWindowDays = def.LookbackWindowDays
	}
	if c.MinimumSampleCount <= 0 {
		c.MinimumSampleCount = def.MinimumSampleCount
	}
	if c.CriticalThresholdDays <= 0 {
		c.CriticalThresholdDays = def.CriticalThresholdDays
	}
	if c.LowThresholdDays <= 0 {
		c.LowThresholdDays = def.LowThresholdDays
	}
	if c.ReorderTargetHorizonDays <= 0 {
		c.ReorderTargetHorizonDays = def.ReorderTargetHorizonDays
	}
	if c.PendingOrderLookaheadDays <= 0 {
		c.PendingOrderLookaheadDays = def.PendingOrderLookaheadDays
	}
	if c.PackSize < 0 {
		c.PackSize = 0
	}
	return c
}
