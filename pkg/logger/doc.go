/*
Package logger wraps uber-go/zap behind a small interface so the scanner, the
parser and the CLI can log without depending on zap directly.

Verbosity levels:

	0: Info, Warn, Error (default)
	1: Debug + Level 0
	2: Trace + Level 1

Structured logging:

	log.WithFields(logger.Fields{
	    "dir":     "/usr/share/applications",
	    "entries": 42,
	}).Info("Directory scanned")

JSON output:

	{"level":"info","ts":"2024-01-20T15:04:05.000Z","message":"Directory scanned","dir":"/usr/share/applications","entries":42}

Libraries that have no logger to hand can use NewNop.
*/
package logger
