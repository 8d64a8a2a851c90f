package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"fjacquet/finrecon/cmd/ask"
	"fjacquet/finrecon/cmd/classify"
	"fjacquet/finrecon/cmd/collection"
	"fjacquet/finrecon/cmd/expense"
	"fjacquet/finrecon/cmd/ingest"
	"fjacquet/finrecon/cmd/root"
	"fjacquet/finrecon/cmd/summary"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(expense.Cmd)
	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(ask.Cmd)
	root.Cmd.AddCommand(collection.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := root.Cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
