// Package config holds the simulation settings that the physics world reads
// on every step, plus loaders for JSON, YAML and TOML files.
package config

import (
	"errors"
	"fmt"
)

// SimulationConfig replaces the process-wide switches of the physics world.
// A copy is held by each world; change it through the world's setters.
type SimulationConfig struct {
	Mode                  PhysicsMode `json:"mode" yaml:"mode" toml:"mode"`
	PhysicsEnabled        bool        `json:"physics_enabled" yaml:"physics_enabled" toml:"physics_enabled"`
	CollisionCheckEnabled bool        `json:"collision_check_enabled" yaml:"collision_check_enabled" toml:"collision_check_enabled"`

	// TimeStep is the fixed dt used by callers that do not pass their own.
	TimeStep float32 `json:"time_step" yaml:"time_step" toml:"time_step"`

	HandSpringStiffness   float32 `json:"hand_spring_stiffness" yaml:"hand_spring_stiffness" toml:"hand_spring_stiffness"`
	CollisionForce        float32 `json:"collision_force" yaml:"collision_force" toml:"collision_force"`
	// GrabDistanceThreshold is compared against the signed distance outside an
	// object's box, so the default 0 means the tracker must be inside it.
	GrabDistanceThreshold float32 `json:"grab_distance_threshold" yaml:"grab_distance_threshold" toml:"grab_distance_threshold"`
	ConnectorGrabDistance float32 `json:"connector_grab_distance" yaml:"connector_grab_distance" toml:"connector_grab_distance"`

	// LogSteps enables a log line for every step outcome.
	LogSteps bool `json:"log_steps" yaml:"log_steps" toml:"log_steps"`
}

const (
	DefaultTimeStep              = 1.0 / 60.0
	DefaultHandSpringStiffness   = 2.0
	DefaultCollisionForce        = 5.0
	DefaultGrabDistanceThreshold = 0.0
	DefaultConnectorGrabDistance = 40.0
)

// Default returns pose mode with physics and collision checks on.
func Default() SimulationConfig {
	return SimulationConfig{
		Mode:                  ModePoseTryOne,
		PhysicsEnabled:        true,
		CollisionCheckEnabled: true,
		TimeStep:              DefaultTimeStep,
		HandSpringStiffness:   DefaultHandSpringStiffness,
		CollisionForce:        DefaultCollisionForce,
		GrabDistanceThreshold: DefaultGrabDistanceThreshold,
		ConnectorGrabDistance: DefaultConnectorGrabDistance,
	}
}

// Validate reports every invalid field at once.
func (c SimulationConfig) Validate() error {
	var errs []error
	if !c.Mode.Valid() {
		errs = append(errs, fmt.Errorf("mode: %v is not a known mode", c.Mode))
	}
	if !(c.TimeStep > 0) {
		errs = append(errs, fmt.Errorf("time_step: must be positive, got %v", c.TimeStep))
	}
	if c.HandSpringStiffness < 0 {
		errs = append(errs, fmt.Errorf("hand_spring_stiffness: must not be negative, got %v", c.HandSpringStiffness))
	}
	if c.CollisionForce < 0 {
		errs = append(errs, fmt.Errorf("collision_force: must not be negative, got %v", c.CollisionForce))
	}
	if c.ConnectorGrabDistance < 0 {
		errs = append(errs, fmt.Errorf("connector_grab_distance: must not be negative, got %v", c.ConnectorGrabDistance))
	}
	return errors.Join(errs...)
}
