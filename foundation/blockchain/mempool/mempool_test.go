package mempool_test

import (
	"testing"

	"github.com/solochain/solochain/foundation/blockchain/database"
	"github.com/solochain/solochain/foundation/blockchain/mempool"
	"github.com/solochain/solochain/foundation/blockchain/wallet"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func newTxs(t *testing.T, count int) []database.Tx {
	t.Helper()

	scheme, err := wallet.SchemeByName(wallet.SchemeDigest)
	if err != nil {
		t.Fatalf("unable to look up scheme: %v", err)
	}

	sender, err := wallet.Generate(scheme)
	if err != nil {
		t.Fatalf("unable to generate wallet: %v", err)
	}
	recipient, err := wallet.Generate(scheme)
	if err != nil {
		t.Fatalf("unable to generate wallet: %v", err)
	}

	txs := make([]database.Tx, count)
	for i := range txs {
		tx, err := database.NewTx(sender, database.Address(recipient.Address()), uint64(10+i), uint64(i))
		if err != nil {
			t.Fatalf("unable to construct transaction: %v", err)
		}
		txs[i] = tx
	}

	return txs
}

func Test_MempoolOrderAndDedupe(t *testing.T) {
	txs := newTxs(t, 4)

	t.Log("Given the need to manage pending transactions in admission order.")
	{
		mp := mempool.New()

		for _, tx := range txs {
			if err := mp.Add(tx); err != nil {
				t.Fatalf("\t%s\tShould be able to add a transaction: %v", failed, err)
			}
		}
		t.Logf("\t%s\tShould be able to add transactions.", success)

		if err := mp.Add(txs[1]); err == nil {
			t.Fatalf("\t%s\tShould reject a duplicate txid.", failed)
		}
		t.Logf("\t%s\tShould reject a duplicate txid.", success)

		if mp.Count() != 4 {
			t.Fatalf("\t%s\tShould hold 4 transactions, got %d.", failed, mp.Count())
		}

		picked := mp.PickOldest(2)
		if len(picked) != 2 || picked[0].TxID() != txs[0].TxID() || picked[1].TxID() != txs[1].TxID() {
			t.Fatalf("\t%s\tShould pick the oldest transactions first.", failed)
		}
		t.Logf("\t%s\tShould pick the oldest transactions first.", success)

		if got := mp.PickOldest(-1); len(got) != 4 {
			t.Fatalf("\t%s\tShould pick everything on a non-positive count, got %d.", failed, len(got))
		}
		t.Logf("\t%s\tShould pick everything on a non-positive count.", success)

		mp.Remove(database.TxIDs(picked))
		if mp.Count() != 2 {
			t.Fatalf("\t%s\tShould remove exactly the mined transactions, got %d.", failed, mp.Count())
		}

		rest := mp.All()
		if rest[0].TxID() != txs[2].TxID() || rest[1].TxID() != txs[3].TxID() {
			t.Fatalf("\t%s\tShould preserve the order of the remainder.", failed)
		}
		t.Logf("\t%s\tShould remove mined transactions and preserve order.", success)

		if mp.Contains(txs[0].TxID()) {
			t.Fatalf("\t%s\tShould no longer contain a removed txid.", failed)
		}

		mp.Truncate()
		if mp.Count() != 0 {
			t.Fatalf("\t%s\tShould be empty after truncate, got %d.", failed, mp.Count())
		}
		t.Logf("\t%s\tShould be empty after truncate.", success)

		if err := mp.Add(txs[0]); err != nil {
			t.Fatalf("\t%s\tShould accept a previously seen txid after truncate: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept a previously seen txid after truncate.", success)
	}
}
