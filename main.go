package main

import (
	"fmt"
	"os"

	"fjacquet/ia-financiera/cmd/batch"
	"fjacquet/ia-financiera/cmd/categories"
	"fjacquet/ia-financiera/cmd/classify"
	"fjacquet/ia-financiera/cmd/moderate"
	"fjacquet/ia-financiera/cmd/root"
)

func init() {
	// Environment and log level are resolved by the root command's pre-run,
	// once flags are parsed.
	root.Init()

	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(moderate.Cmd)
	root.Cmd.AddCommand(categories.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
