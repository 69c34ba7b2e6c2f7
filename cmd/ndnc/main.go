package main

import (
	"os"

	"github.com/named-data/ndnc/cmd"
)

func main() {
	if err := cmd.CmdNDNc.Execute(); err != nil {
		os.Exit(1)
	}
}
