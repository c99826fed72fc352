// Package zlog wraps github.com/rs/zerolog behind the same leveled,
// field-based logging contract the rest of the codebase was written
// against: Debug/Info/Warn/Error(msg, args...), WithField/WithFields/
// WithComponent for structured context, and a process-wide default
// logger reachable via Get/SetDefault. Call sites read exactly like
// they would against a hand-rolled logger; zerolog supplies the
// zero-allocation leveled core underneath.
package zlog
