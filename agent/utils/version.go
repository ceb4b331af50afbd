package utils

import (
	"flag"
	"os"
	"strings"
)

// Version is the version number of this build. It is set at build time with
// ldflags.
var Version = "dev"

// ParseLoggingArgs parses a startup argument string and feeds it to the
// standard flag package where glog reads its settings.
func ParseLoggingArgs(s string) {
	args := make([]string, 1, 12)
	args[0] = os.Args[0]
	args = append(args, strings.Split(s, " ")...)
	orgArgs := os.Args
	os.Args = args
	flag.Parse()
	os.Args = orgArgs
}
