package main

import (
	"github.com/Jean-StephaneCote/UART/pkg/cli/sh"

	_ "github.com/Jean-StephaneCote/UART/pkg/cli/cmds/bench"
)

//go-build: CGO_ENABLED=0

func main() {
	sh.Main()
}
