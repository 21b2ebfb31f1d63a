package main

import "github.com/solochain/solochain/app/wallet/cmd"

func main() {
	cmd.Execute()
}
