package main

import "time"

// GlobalFlags Flag structs to decouple cobra from logic for testing.
// Only ConfigPath and NoColor are read directly; the rest are bound to viper
// keys so that they override file and environment values when set.
type GlobalFlags struct {
	ConfigPath string
	Interval   time.Duration
	Capacity   int
	Source     string
	ProcRoot   string
	QuitOnEOF  bool
	NoColor    bool
	HTTPListen string
	LogLevel   string
	LogFile    string
}

type SnapshotFlags struct {
	JSON bool
}

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"interval":    "monitor.interval",
	"capacity":    "monitor.capacity",
	"source":      "monitor.source",
	"proc-root":   "monitor.proc_root",
	"quit-on-eof": "monitor.quit_on_eof",
	"http-listen": "http.listen",
	"log-level":   "log.level",
	"log-file":    "log.file",
}
