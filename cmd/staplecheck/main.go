package main

import (
	"context"
	"staplecheck/cmd/staplecheck/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
