package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/solochain/solochain/foundation/blockchain/database"
	"github.com/solochain/solochain/foundation/blockchain/signature"
	"github.com/solochain/solochain/foundation/blockchain/wallet"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// noEv silences event output in tests.
func noEv(v string, args ...any) {}

func newWallet(t *testing.T) *wallet.Wallet {
	t.Helper()

	scheme, err := wallet.SchemeByName(wallet.SchemeDigest)
	if err != nil {
		t.Fatalf("unable to look up scheme: %v", err)
	}

	w, err := wallet.Generate(scheme)
	if err != nil {
		t.Fatalf("unable to generate wallet: %v", err)
	}

	return w
}

// =============================================================================

func Test_LedgerApply(t *testing.T) {
	w1 := newWallet(t)
	w2 := newWallet(t)
	addr1 := database.Address(w1.Address())
	addr2 := database.Address(w2.Address())

	t.Log("Given the need to apply transactions to ledger state.")
	{
		t.Log("\tTest 0:\tWhen handling a coinbase mint.")
		{
			ledger := database.NewLedger()

			tx := database.NewCoinbaseTx(addr1, 200, uint64(time.Now().Unix()))
			if err := ledger.ApplyTransaction(tx); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to apply a coinbase mint: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to apply a coinbase mint.", success)

			if bal := ledger.Balance(addr1); bal != 200 {
				t.Fatalf("\t%s\tTest 0:\tShould credit the recipient: exp 200, got %d.", failed, bal)
			}
			t.Logf("\t%s\tTest 0:\tShould credit the recipient.", success)

			if nonce := ledger.NextNonce(addr1); nonce != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould not advance the nonce on a mint: got %d.", failed, nonce)
			}
			t.Logf("\t%s\tTest 0:\tShould not advance the nonce on a mint.", success)
		}

		t.Log("\tTest 1:\tWhen handling an ordinary transfer.")
		{
			ledger := database.NewLedger()
			ledger.ApplyTransaction(database.NewCoinbaseTx(addr1, 200, 0))

			tx, err := database.NewTx(w1, addr2, 60, 0)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to construct a transaction: %v", failed, err)
			}

			if err := ledger.ApplyTransaction(tx); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to apply the transfer: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to apply the transfer.", success)

			if bal := ledger.Balance(addr1); bal != 140 {
				t.Fatalf("\t%s\tTest 1:\tShould debit the sender: exp 140, got %d.", failed, bal)
			}
			if bal := ledger.Balance(addr2); bal != 60 {
				t.Fatalf("\t%s\tTest 1:\tShould credit the recipient: exp 60, got %d.", failed, bal)
			}
			t.Logf("\t%s\tTest 1:\tShould move the amount between the parties.", success)

			if nonce := ledger.NextNonce(addr1); nonce != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould advance the sender nonce by one: got %d.", failed, nonce)
			}
			t.Logf("\t%s\tTest 1:\tShould advance the sender nonce by one.", success)

			if err := ledger.ApplyTransaction(tx); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject a reused nonce.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a reused nonce.", success)
		}

		t.Log("\tTest 2:\tWhen handling rejection paths.")
		{
			ledger := database.NewLedger()
			ledger.ApplyTransaction(database.NewCoinbaseTx(addr1, 50, 0))

			overdraw, err := database.NewTx(w1, addr2, 60, 0)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to construct a transaction: %v", failed, err)
			}

			if err := ledger.ApplyTransaction(overdraw); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject an overdraw.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject an overdraw.", success)

			if bal := ledger.Balance(addr1); bal != 50 {
				t.Fatalf("\t%s\tTest 2:\tShould leave state untouched on rejection: got %d.", failed, bal)
			}
			if nonce := ledger.NextNonce(addr1); nonce != 0 {
				t.Fatalf("\t%s\tTest 2:\tShould leave the nonce untouched on rejection: got %d.", failed, nonce)
			}
			t.Logf("\t%s\tTest 2:\tShould leave state untouched on rejection.", success)

			zero := database.Tx{Sender: addr1, Recipient: addr2, Amount: 0}
			if err := ledger.ApplyTransaction(zero); !errors.Is(err, database.ErrInvalidAmount) {
				t.Fatalf("\t%s\tTest 2:\tShould reject a zero amount: got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould reject a zero amount.", success)

			skipped, err := database.NewTx(w1, addr2, 10, 2)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to construct a transaction: %v", failed, err)
			}
			if err := ledger.ApplyTransaction(skipped); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject a gapped nonce.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject a gapped nonce.", success)
		}

		t.Log("\tTest 3:\tWhen cloning for speculative replay.")
		{
			ledger := database.NewLedger()
			ledger.ApplyTransaction(database.NewCoinbaseTx(addr1, 100, 0))

			clone := ledger.Clone()

			tx, err := database.NewTx(w1, addr2, 40, 0)
			if err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to construct a transaction: %v", failed, err)
			}
			if err := clone.ApplyTransaction(tx); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to apply to the clone: %v", failed, err)
			}

			if bal := ledger.Balance(addr1); bal != 100 {
				t.Fatalf("\t%s\tTest 3:\tShould never alias live state: got %d.", failed, bal)
			}
			t.Logf("\t%s\tTest 3:\tShould never alias live state.", success)
		}
	}
}

func Test_TransactionVerify(t *testing.T) {
	w1 := newWallet(t)
	w2 := newWallet(t)
	addr2 := database.Address(w2.Address())

	scheme := w1.Scheme()

	t.Log("Given the need to verify transaction signatures.")
	{
		tx, err := database.NewTx(w1, addr2, 60, 0)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a signed transaction: %v", failed, err)
		}

		if err := tx.Verify(scheme); err != nil {
			t.Fatalf("\t%s\tShould verify a genuine transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould verify a genuine transaction.", success)

		tampered := tx
		tampered.Amount = 6000
		if err := tampered.Verify(scheme); err == nil {
			t.Fatalf("\t%s\tShould reject a transaction whose fields were altered after signing.", failed)
		}
		t.Logf("\t%s\tShould reject a transaction whose fields were altered after signing.", success)

		hijacked := tx
		hijacked.Sender = addr2
		if err := hijacked.Verify(scheme); err == nil {
			t.Fatalf("\t%s\tShould reject a sender that does not match the signing key.", failed)
		}
		t.Logf("\t%s\tShould reject a sender that does not match the signing key.", success)

		unsigned := tx
		unsigned.Sig = ""
		if err := unsigned.Verify(scheme); err == nil {
			t.Fatalf("\t%s\tShould reject missing signature material.", failed)
		}
		t.Logf("\t%s\tShould reject missing signature material.", success)

		coinbase := database.NewCoinbaseTx(addr2, 25, uint64(time.Now().Unix()))
		if err := coinbase.Verify(scheme); err != nil {
			t.Fatalf("\t%s\tShould accept a coinbase without key material: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept a coinbase without key material.", success)

		if tx.TxID() == tampered.TxID() {
			t.Fatalf("\t%s\tShould produce distinct txids for distinct content.", failed)
		}
		t.Logf("\t%s\tShould produce distinct txids for distinct content.", success)
	}
}

func Test_ProofOfWork(t *testing.T) {
	w1 := newWallet(t)
	addr1 := database.Address(w1.Address())

	t.Log("Given the need to mine blocks with proof of work.")
	{
		trans := []database.Tx{database.NewCoinbaseTx(addr1, 200, 0)}

		block, err := database.POW(context.Background(), 0, signature.ZeroHash, 1, trans, noEv)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine at difficulty 1: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine at difficulty 1.", success)

		if !database.IsHashSolved(1, block.Hash()) {
			t.Fatalf("\t%s\tShould produce a hash satisfying the difficulty: got %s.", failed, block.Hash())
		}
		t.Logf("\t%s\tShould produce a hash satisfying the difficulty.", success)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := database.POW(ctx, 0, signature.ZeroHash, 64, trans, noEv); !errors.Is(err, context.Canceled) {
			t.Fatalf("\t%s\tShould stop the search when cancelled: got %v.", failed, err)
		}
		t.Logf("\t%s\tShould stop the search when cancelled.", success)
	}
}

func Test_ValidateNextBlock(t *testing.T) {
	w1 := newWallet(t)
	miner := newWallet(t)
	addr1 := database.Address(w1.Address())
	minerAddr := database.Address(miner.Address())
	scheme := w1.Scheme()

	const difficulty = 1
	const reward = 25

	ctx := context.Background()

	t.Log("Given the need to validate candidate blocks.")
	{
		genesisTx := database.NewCoinbaseTx(addr1, 200, 0)
		genesisBlk, err := database.POW(ctx, 0, signature.ZeroHash, difficulty, []database.Tx{genesisTx}, noEv)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine genesis: %v", failed, err)
		}

		ledger := database.NewLedger()
		if err := database.ValidateNextBlock(genesisBlk, signature.ZeroHash, 0, ledger, reward, scheme); err != nil {
			t.Fatalf("\t%s\tShould validate a correct genesis block: %v", failed, err)
		}
		t.Logf("\t%s\tShould validate a correct genesis block.", success)

		tipHash := genesisBlk.Hash()

		t.Log("\tTest 0:\tWhen the block structure is correct.")
		{
			coin := database.NewCoinbaseTx(minerAddr, reward, 0)
			blk, err := database.POW(ctx, 1, tipHash, difficulty, []database.Tx{coin}, noEv)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine: %v", failed, err)
			}

			if err := database.ValidateNextBlock(blk, tipHash, 1, ledger.Clone(), reward, scheme); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould validate a correct block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould validate a correct block.", success)
		}

		t.Log("\tTest 1:\tWhen the coinbase rules are broken.")
		{
			wrongReward := database.NewCoinbaseTx(minerAddr, reward+1, 0)
			blk, err := database.POW(ctx, 1, tipHash, difficulty, []database.Tx{wrongReward}, noEv)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mine: %v", failed, err)
			}
			if err := database.ValidateNextBlock(blk, tipHash, 1, ledger.Clone(), reward, scheme); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject a coinbase amount different from the reward.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a coinbase amount different from the reward.", success)

			userTx, err := database.NewTx(w1, minerAddr, 10, 0)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to construct a transaction: %v", failed, err)
			}
			blk, err = database.POW(ctx, 1, tipHash, difficulty, []database.Tx{userTx}, noEv)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mine: %v", failed, err)
			}
			if err := database.ValidateNextBlock(blk, tipHash, 1, ledger.Clone(), reward, scheme); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject a first transaction that is not coinbase.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a first transaction that is not coinbase.", success)

			extra := []database.Tx{
				database.NewCoinbaseTx(minerAddr, reward, 0),
				database.NewCoinbaseTx(minerAddr, reward, 1),
			}
			blk, err = database.POW(ctx, 1, tipHash, difficulty, extra, noEv)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mine: %v", failed, err)
			}
			if err := database.ValidateNextBlock(blk, tipHash, 1, ledger.Clone(), reward, scheme); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject a second coinbase in the block.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a second coinbase in the block.", success)
		}

		t.Log("\tTest 2:\tWhen the linkage or commitment is broken.")
		{
			coin := database.NewCoinbaseTx(minerAddr, reward, 0)
			blk, err := database.POW(ctx, 1, tipHash, difficulty, []database.Tx{coin}, noEv)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to mine: %v", failed, err)
			}

			if err := database.ValidateNextBlock(blk, tipHash, 2, ledger.Clone(), reward, scheme); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject a block at the wrong height.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject a block at the wrong height.", success)

			if err := database.ValidateNextBlock(blk, signature.ZeroHash, 1, ledger.Clone(), reward, scheme); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject a block with the wrong prev hash.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject a block with the wrong prev hash.", success)

			tampered := blk
			tampered.Trans = []database.Tx{database.NewCoinbaseTx(addr1, reward, 0)}
			if err := database.ValidateNextBlock(tampered, tipHash, 1, ledger.Clone(), reward, scheme); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject transactions that do not match the merkle root.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject transactions that do not match the merkle root.", success)
		}
	}
}
