package main

import (
	"quizsolver/cmd/quizsolver/commands"
	"quizsolver/lib/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()
	commands.ExecuteContext(ctx)
}
