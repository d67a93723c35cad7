package container

import (
	"io"
	"time"
)

// Options configures the command line client. Every option is also read from
// SERVICE_<NAME> environment variables.
type Options struct {
	BaseURL     string `default:"http://localhost:8888/" help:"Base URL of the short URL API"                        short:"u"`
	Timeout     int    `default:"10"                     help:"HTTP timeout in seconds"                              short:"t"`
	Fingerprint string `default:""                       help:"Use this visitor fingerprint instead of computing one" short:"f"`
	LogFormat   string `default:"console"                help:"Log format: console or json"`
	LogLevel    string `default:"warn"                   help:"Log level: debug, info, warn or error"`
	RedisAddr   string `default:""                       help:"Redis address; shares the throttle and streams notifications" short:"r"`
	WriteLimit  int    `default:"10"                     help:"Maximum writes per minute, 0 disables the throttle"`
	PageSize    int    `default:"5"                      help:"Links per page in the list view"`
	Yes         bool   `default:"false"                  help:"Answer yes to every confirmation"                     short:"y"`
}

// HTTPTimeout returns Timeout as a duration.
func (o *Options) HTTPTimeout() time.Duration {
	return time.Duration(o.Timeout) * time.Second
}

// LogConfig returns the logging part of the options.
func (o *Options) LogConfig() LogConfig {
	return LogConfig{Format: o.LogFormat, Level: o.LogLevel}
}

// StubOptions configures the local stub API server.
type StubOptions struct {
	Port       int    `default:"8888"    help:"Port to listen on"               short:"p"`
	CodeLength int    `default:"8"       help:"Length of generated short codes" short:"c"`
	LogFormat  string `default:"console" help:"Log format: console or json"`
	LogLevel   string `default:"info"    help:"Log level: debug, info, warn or error"`
}

// LogConfig returns the logging part of the options.
func (o *StubOptions) LogConfig() LogConfig {
	return LogConfig{Format: o.LogFormat, Level: o.LogLevel}
}

// Console holds the streams commands read from and write to.
type Console struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}
