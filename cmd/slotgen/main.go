package main

import (
	"os"

	"github.com/unicornultrafoundation/go-slotinit/cmd/slotgen/launcher"
	"github.com/unicornultrafoundation/go-slotinit/cmd/utils"
)

func main() {
	if err := launcher.Launch(os.Args); err != nil {
		utils.Fatalf("%v", err)
	}
}
