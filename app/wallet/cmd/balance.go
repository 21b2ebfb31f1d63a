package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/solochain/solochain/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

// balanceCmd represents the balance command.
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print the balance for the wallet",
	Run: func(cmd *cobra.Command, args []string) {
		w, err := wallet.LoadSecp256k1(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("for account:", w.Address())

		resp, err := http.Get(fmt.Sprintf("%s/v1/accounts/list/%s", url, w.Address()))
		if err != nil {
			log.Fatal(err)
		}
		defer resp.Body.Close()

		var accounts struct {
			Accounts []struct {
				Account string `json:"account"`
				Balance uint64 `json:"balance"`
				Nonce   uint64 `json:"nonce"`
			} `json:"accounts"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&accounts); err != nil {
			log.Fatal(err)
		}

		if len(accounts.Accounts) == 0 {
			fmt.Println("balance: 0")
			return
		}
		fmt.Println("balance:", accounts.Accounts[0].Balance)
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
