package main

import (
	"github.com/runward/runward/internal/cli"
	"github.com/runward/runward/internal/metrics"
)

func main() {
	metrics.EmitBuildInfo()
	cli.Execute()
}
