package main

import (
	"github.com/findy-network/findy-wallet/cmd"
)

func main() {
	cmd.Execute()
}
