// Package config loads typed configuration structs from environment
// variables using caarlos0/env struct tags, with optional .env file support
// via godotenv.
//
// Each configuration type is parsed at most once per process; subsequent
// Load calls for the same type return a cached copy, which makes it safe to
// call Load from multiple constructors without coordination.
package config
