// Command careerpath runs the Career Path Builder web application.
//
// Usage:
//
//	careerpath [serve]   start the web server
//	careerpath migrate   apply SQL migrations
//	careerpath catalog   print the career path catalog
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/careerpath-hub/career-path-builder/internal/interface/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.NewRootCmd(version).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
