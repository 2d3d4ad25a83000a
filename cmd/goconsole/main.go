// Command goconsole drives the admin console backend from a terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/MrEthical07/goConsole/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "goconsole:", err)
		os.Exit(1)
	}
}
