package main

import (
	"fmt"
	"os"

	"finledger/cmd/categorize"
	"finledger/cmd/root"
	"finledger/cmd/run"
)

func init() {
	root.Cmd.AddCommand(run.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
