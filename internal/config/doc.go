// Package config provides configuration management for the ad-policy auditor.
//
// Configuration comes from three places, resolved once at startup:
//   - Named constants holding safe defaults
//   - CLI flags populating the Config struct
//   - An optional YAML profile file overriding analysis thresholds
//
// The resolved Config is passed explicitly into components via dependency
// injection rather than read as ambient global state.
package config
