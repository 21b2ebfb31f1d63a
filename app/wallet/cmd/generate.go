package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/solochain/solochain/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

// generateCmd represents the generate command.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new key pair",
	Run: func(cmd *cobra.Command, args []string) {
		scheme, err := wallet.SchemeByName(wallet.SchemeSecp256k1)
		if err != nil {
			log.Fatal(err)
		}

		w, err := wallet.Generate(scheme)
		if err != nil {
			log.Fatal(err)
		}

		if err := os.MkdirAll(walletPath, 0755); err != nil {
			log.Fatal(err)
		}

		path := getPrivateKeyPath()
		if err := wallet.SaveSecp256k1(path, w); err != nil {
			log.Fatal(err)
		}

		fmt.Println("wallet:", path)
		fmt.Println("address:", w.Address())
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
