package schedule

import "dominion/internal/domain/civ"

// Config is the plain-data tuning surface of the scheduler. Unset values are
// replaced by defaults, so an empty Config is usable.
type Config struct {
	MaxQueueSize   int `json:"max_queue_size" yaml:"max_queue_size"`
	ActionsPerTurn int `json:"actions_per_turn" yaml:"actions_per_turn"`

	// MaxRetries is a pointer so an explicit zero (fail once, never retry)
	// is distinguishable from an absent field.
	MaxRetries *uint8 `json:"max_retries" yaml:"max_retries"`

	// RetryDelayTurns postpones a requeued action so it does not burn the
	// remaining budget of the turn it just failed in.
	RetryDelayTurns int `json:"retry_delay_turns" yaml:"retry_delay_turns"`
	// RetryPriorityBoost is added on requeue so a retried action is not
	// starved forever by equally scored newcomers. A pointer for the same
	// reason as MaxRetries: zero means no boost, nil means the default.
	RetryPriorityBoost *float64 `json:"retry_priority_boost" yaml:"retry_priority_boost"`

	// StrictPriorities makes a NaN priority panic instead of being normalized
	// to zero. Meant for tests and debug builds.
	StrictPriorities bool `json:"strict_priorities" yaml:"strict_priorities"`

	// PlannerWorkers bounds the goroutines used by the Populate phase.
	PlannerWorkers int `json:"planner_workers" yaml:"planner_workers"`

	BaseWeights map[civ.ActionKind]float64 `json:"base_weights" yaml:"base_weights"`
}

const (
	defaultMaxQueueSize       = 20
	defaultActionsPerTurn     = 3
	defaultMaxRetries         = 2
	defaultRetryDelayTurns    = 1
	defaultRetryPriorityBoost = 0.5
	defaultPlannerWorkers     = 4
)

func DefaultConfig() Config {
	return Config{
		MaxQueueSize:       defaultMaxQueueSize,
		ActionsPerTurn:     defaultActionsPerTurn,
		MaxRetries:         Retries(defaultMaxRetries),
		RetryDelayTurns:    defaultRetryDelayTurns,
		RetryPriorityBoost: Boost(defaultRetryPriorityBoost),
		PlannerWorkers:     defaultPlannerWorkers,
		BaseWeights:        civ.DefaultBaseWeights(),
	}
}

// Retries and Boost wrap literals for the optional Config fields.
func Retries(n uint8) *uint8   { return &n }
func Boost(v float64) *float64 { return &v }

func (c Config) withDefaults() Config {
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = defaultMaxQueueSize
	}
	if c.ActionsPerTurn <= 0 {
		c.ActionsPerTurn = defaultActionsPerTurn
	}
	if c.MaxRetries == nil {
		c.MaxRetries = Retries(defaultMaxRetries)
	}
	if c.RetryDelayTurns < 0 {
		c.RetryDelayTurns = defaultRetryDelayTurns
	}
	if c.RetryPriorityBoost == nil {
		c.RetryPriorityBoost = Boost(defaultRetryPriorityBoost)
	}
	if c.PlannerWorkers <= 0 {
		c.PlannerWorkers = defaultPlannerWorkers
	}
	if len(c.BaseWeights) == 0 {
		c.BaseWeights = civ.DefaultBaseWeights()
	}
	return c
}
