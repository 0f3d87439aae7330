// Package statemachine implements a small, thread-safe finite state machine.
//
// States and events are interfaces with string-based convenience
// implementations (StringState, StringEvent). Transitions carry optional
// guards (all must pass) and actions (run in order before the state change;
// an action error aborts the transition).
//
// The auth logout orchestrator drives its fixed progression from local
// invalidation through token revocation and provider notification to
// completion through this package.
package statemachine
