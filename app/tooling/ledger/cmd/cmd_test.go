package cmd

import (
	"bytes"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/enset/powledger/app/services/node/handlers"
	"github.com/enset/powledger/foundation/blockchain/state"
	"github.com/enset/powledger/foundation/blockchain/worker"
	"github.com/enset/powledger/foundation/events"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func startNode(t *testing.T) string {
	st, err := state.New(state.Config{Difficulty: 1})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}
	worker.Run(st, nil)

	evts := events.New()
	srv := httptest.NewServer(handlers.PublicMux(handlers.MuxConfig{
		Shutdown:      make(chan os.Signal, 1),
		Log:           zap.NewNop().Sugar(),
		State:         st,
		Evts:          evts,
		MiningTimeout: 5 * time.Second,
	}))

	t.Cleanup(func() {
		srv.Close()
		evts.Shutdown()
		st.Shutdown()
	})

	return srv.URL
}

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

// =============================================================================

func Test_Commands(t *testing.T) {
	nodeURL := startNode(t)

	t.Log("Given the need to drive a node from the command line.")
	{
		out, err := execute("submit", "--url", nodeURL, "--from", "alice", "--to", "bob", "--amount", "7")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to submit a transaction: %v", failed, err)
		}
		if !strings.Contains(out, "transaction added to mempool") {
			t.Fatalf("\t%s\tShould report the transaction was added: %s", failed, out)
		}
		t.Logf("\t%s\tShould be able to submit a transaction.", success)

		out, err = execute("mine", "--url", nodeURL)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
		}
		if !strings.Contains(out, `"index": 1`) {
			t.Fatalf("\t%s\tShould print the mined block: %s", failed, out)
		}
		t.Logf("\t%s\tShould be able to mine a block.", success)

		out, err = execute("chain", "--url", nodeURL)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to list the chain: %v", failed, err)
		}
		if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 2 {
			t.Fatalf("\t%s\tShould print one line per block: %s", failed, out)
		}
		t.Logf("\t%s\tShould print one line per block.", success)

		out, err = execute("validate", "--url", nodeURL)
		if err != nil || !strings.Contains(out, "chain is valid") {
			t.Fatalf("\t%s\tShould report a valid chain: %v: %s", failed, err, out)
		}
		t.Logf("\t%s\tShould report a valid chain.", success)

		if _, err := execute("block", "--url", nodeURL, "9"); err == nil || !strings.Contains(err.Error(), "404") {
			t.Fatalf("\t%s\tShould fail for a missing block: %v", failed, err)
		}
		t.Logf("\t%s\tShould fail for a missing block.", success)

		if _, err := execute("submit", "--url", nodeURL, "--from", "alice", "--to", "bob", "--amount=-1"); err == nil || !strings.Contains(err.Error(), "amount") {
			t.Fatalf("\t%s\tShould fail for a negative amount: %v", failed, err)
		}
		t.Logf("\t%s\tShould fail for a negative amount.", success)
	}
}
