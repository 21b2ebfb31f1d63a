package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/solochain/solochain/foundation/blockchain/database"
	"github.com/solochain/solochain/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var (
	to     string
	amount uint64
)

// sendCmd represents the send command.
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign and send a transaction to the node",
	Run: func(cmd *cobra.Command, args []string) {
		w, err := wallet.LoadSecp256k1(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}

		nonce, err := nextNonce(w.Address())
		if err != nil {
			log.Fatal(err)
		}

		tx, err := database.NewTx(w, database.Address(to), amount, nonce)
		if err != nil {
			log.Fatal(err)
		}

		data, err := json.Marshal(tx)
		if err != nil {
			log.Fatal(err)
		}

		resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(data))
		if err != nil {
			log.Fatal(err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(body))
	},
}

// nextNonce asks the node for the next usable nonce, taking pending
// mempool transactions into account.
func nextNonce(account string) (uint64, error) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/accounts/nonce/%s", url, account))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var ni struct {
		Account string `json:"account"`
		Nonce   uint64 `json:"nonce"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ni); err != nil {
		return 0, err
	}

	return ni.Nonce, nil
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the recipient.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "a", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("amount")
}
