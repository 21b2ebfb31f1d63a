package cmd

import (
	"fmt"
	"log"

	"github.com/solochain/solochain/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

// addressCmd represents the address command.
var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the address for the wallet",
	Run: func(cmd *cobra.Command, args []string) {
		w, err := wallet.LoadSecp256k1(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(w.Address())
	},
}

func init() {
	rootCmd.AddCommand(addressCmd)
}
