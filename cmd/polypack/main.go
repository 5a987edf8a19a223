// PolyPack: decide which rectangular regions can hold their required
// polyomino pieces.
//
// Build:
//   go build -o polypack ./cmd/polypack
//
// Usage:
//   polypack [solve|compare] [flags] PUZZLE
//
// The last line of output is the number of packable regions.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/piwi3910/PolyPack/internal/cli"
)

func main() {
	inv, err := cli.ParseInvocation(os.Args[1:])
	if err != nil {
		var invErr *cli.InvocationError
		if errors.As(err, &invErr) {
			fmt.Fprintln(os.Stderr, invErr.Message)
			fmt.Fprint(os.Stderr, cli.Usage)
			os.Exit(invErr.ExitCode)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitInternalError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code, err := cli.Execute(ctx, inv, cli.StdStreams())
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "polypack:", err)
	}
	os.Exit(code)
}
