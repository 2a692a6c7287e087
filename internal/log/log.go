package log

import (
	"fmt"
	"io"
	"os"
	"time"
)

const (
	reset  = "\033[0m"
	dim    = "\033[2m"
	red    = "\033[31m"
	yellow = "\033[33m"
)

var out io.Writer = os.Stdout

// SetOutput redirects log lines, for tests.
func SetOutput(w io.Writer) {
	out = w
}

func Info(format string, args ...interface{}) {
	fmt.Fprintf(out, "%s %s\n", stamp(), fmt.Sprintf(format, args...))
}

func Warn(format string, args ...interface{}) {
	fmt.Fprintf(out, "%s %s%s%s\n", stamp(), yellow, fmt.Sprintf(format, args...), reset)
}

func Error(format string, args ...interface{}) {
	fmt.Fprintf(out, "%s %s%s%s\n", stamp(), red, fmt.Sprintf(format, args...), reset)
}

func stamp() string {
	return dim + time.Now().Format("15:04:05") + reset
}
