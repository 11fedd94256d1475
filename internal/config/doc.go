// Package config defines the configuration of the frameexec command.
//
// Values come from, in increasing priority: struct defaults, FRAMEEXEC_*
// environment variables and command-line flags.
//
//	┌──────────────┬─────────┬──────────────────────────────────────────┐
//	│ Key          │ Default │ Description                              │
//	├──────────────┼─────────┼──────────────────────────────────────────┤
//	│ threads      │ 0       │ Worker count, 0 = available parallelism  │
//	│ pin-threads  │ true    │ Pin workers to usable CPUs               │
//	│ frames       │ 600     │ Frames to simulate, 0 = until signalled  │
//	│ frame-rate   │ 60      │ Frames per second, 0 = unpaced, max 1000 │
//	│ entities     │ 100000  │ Entities integrated per frame            │
//	│ chunk-size   │ 1024    │ Entities per parallel chunk              │
//	│ stats-window │ 120     │ Frames kept for rolling statistics       │
//	│ log-level    │ "info"  │ zap level                                │
//	│ log-format   │ "json"  │ "json" or "console"                      │
//	└──────────────┴─────────┴──────────────────────────────────────────┘
//
// The environment variable for a key is its upper-cased name with dashes
// replaced by underscores, e.g. FRAMEEXEC_CHUNK_SIZE.
package config
