// Demo runs the full ledger workflow against an in-memory chain: mint
// via genesis, transfer, mine, prove inclusion, tamper with storage,
// and reload from disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/pterm/pterm"
	"github.com/solochain/solochain/foundation/blockchain/database"
	"github.com/solochain/solochain/foundation/blockchain/database/storage/memory"
	"github.com/solochain/solochain/foundation/blockchain/genesis"
	"github.com/solochain/solochain/foundation/blockchain/merkle"
	"github.com/solochain/solochain/foundation/blockchain/state"
	"github.com/solochain/solochain/foundation/blockchain/wallet"
)

func main() {
	if err := run(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run() error {
	difficulty := flag.Uint("difficulty", 2, "leading zero hex digits required of a block hash")
	schemeName := flag.String("scheme", wallet.SchemeSecp256k1, "signature scheme: secp256k1, schnorr or digest")
	flag.Parse()

	ctx := context.Background()

	scheme, err := wallet.SchemeByName(*schemeName)
	if err != nil {
		return err
	}

	alice, err := wallet.Generate(scheme)
	if err != nil {
		return err
	}
	bob, err := wallet.Generate(scheme)
	if err != nil {
		return err
	}
	miner, err := wallet.Generate(scheme)
	if err != nil {
		return err
	}
	names := map[string]string{
		alice.Address(): "alice",
		bob.Address():   "bob",
		miner.Address(): "miner",
	}

	storage, err := memory.New()
	if err != nil {
		return err
	}

	gen := genesis.Genesis{
		Difficulty:    *difficulty,
		MiningReward:  25,
		TransPerBlock: 100,
		Allocations: map[string]uint64{
			alice.Address(): 200,
			bob.Address():   150,
		},
	}

	st, err := state.New(state.Config{
		BeneficiaryID: database.Address(miner.Address()),
		Genesis:       gen,
		Storage:       storage,
		Scheme:        scheme,
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	// =========================================================================
	// Genesis

	pterm.DefaultSection.Println("Genesis")

	block, err := st.MineGenesis(ctx)
	if err != nil {
		return err
	}
	pterm.Success.Printfln("genesis block mined: %s", block.Hash())
	printAccounts(st, names)

	// =========================================================================
	// Transfer and mine

	pterm.DefaultSection.Println("Transfer")

	nonce := st.NextNonceWithMempool(database.Address(alice.Address()))
	tx, err := database.NewTx(alice, database.Address(bob.Address()), 60, nonce)
	if err != nil {
		return err
	}
	if err := st.SubmitWalletTransaction(tx); err != nil {
		return err
	}
	pterm.Info.Printfln("alice -> bob 60 admitted to mempool: %s", tx.TxID())

	if err := st.SubmitWalletTransaction(tx); err != nil {
		pterm.Success.Printfln("duplicate submission rejected: %v", err)
	}

	block, err = st.MineNextBlock(ctx)
	if err != nil {
		return err
	}
	pterm.Success.Printfln("block %d mined with %d transactions: %s", block.Header.Height, len(block.Trans), block.Hash())
	printAccounts(st, names)

	// A replayed nonce must bounce at admission.
	replay, err := database.NewTx(alice, database.Address(bob.Address()), 10, 0)
	if err != nil {
		return err
	}
	if err := st.SubmitWalletTransaction(replay); err != nil {
		pterm.Success.Printfln("replayed nonce rejected: %v", err)
	}

	// =========================================================================
	// Inclusion proof

	pterm.DefaultSection.Println("Inclusion proof")

	proof, root, err := st.TransactionProof(block.Header.Height, tx.TxID())
	if err != nil {
		return err
	}
	pterm.Info.Printfln("proof steps: %d, committed root: %s", len(proof), root)

	if merkle.VerifyProof(tx.TxID(), proof, root) {
		pterm.Success.Println("proof verifies against the committed merkle root")
	}

	// =========================================================================
	// Full chain validation and reload

	pterm.DefaultSection.Println("Validation")

	if err := st.Validate(); err != nil {
		return err
	}
	pterm.Success.Printfln("full replay of %d blocks checks out", st.RetrieveChainLength())

	reloaded, err := state.New(state.Config{
		BeneficiaryID: database.Address(miner.Address()),
		Genesis:       gen,
		Storage:       storage,
		Scheme:        scheme,
	})
	if err != nil {
		return err
	}
	defer reloaded.Shutdown()
	pterm.Success.Println("reload from storage reproduces the ledger")
	printAccounts(reloaded, names)

	// =========================================================================
	// Tampering

	pterm.DefaultSection.Println("Tampering")

	blockData, err := storage.GetBlock(1)
	if err != nil {
		return err
	}
	blockData.Trans[1].Amount += 1000
	if err := storage.Corrupt(1, blockData); err != nil {
		return err
	}

	if _, err := state.New(state.Config{
		BeneficiaryID: database.Address(miner.Address()),
		Genesis:       gen,
		Storage:       storage,
		Scheme:        scheme,
	}); err != nil {
		pterm.Success.Printfln("tampered chain refused on load: %v", err)
		return nil
	}

	return fmt.Errorf("tampered chain was accepted")
}

func printAccounts(st *state.State, names map[string]string) {
	accounts := st.RetrieveAccounts()

	rows := pterm.TableData{{"Account", "Name", "Balance", "Nonce"}}

	addrs := make([]string, 0, len(accounts))
	for addr := range accounts {
		addrs = append(addrs, string(addr))
	}
	sort.Strings(addrs)

	for _, addr := range addrs {
		act := accounts[database.Address(addr)]
		rows = append(rows, []string{
			addr[:8] + "...",
			names[addr],
			fmt.Sprintf("%d", act.Balance),
			fmt.Sprintf("%d", act.Nonce),
		})
	}

	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
