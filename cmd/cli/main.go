package main

import (
	"fmt"
	"os"

	"github.com/AryanCoding77/muscle-ai-waitlist/internal/log"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	if err := newRootCmd(logger).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
