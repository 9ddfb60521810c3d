package config

// PlanConfig holds the defaults offered when a participant is added.
type PlanConfig struct {
	Budget   float64 `toml:"budget"`
	Balance  float64 `toml:"balance"`
	Hours    float64 `toml:"hours"`
	PlanDays int     `toml:"plan_days"`
	Level    string  `toml:"level"`
}

// DefaultPlan returns the stock add-participant defaults.
func DefaultPlan() PlanConfig {
	return PlanConfig{
		Budget:   18000,
		Balance:  15000,
		Hours:    1.5,
		PlanDays: 280,
		Level:    "Level 2",
	}
}
