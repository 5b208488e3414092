package signature_test

import (
	"strings"
	"testing"

	"github.com/enset/powledger/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Hash(t *testing.T) {
	value := struct {
		Name  string `json:"name"`
		Value int64  `json:"value"`
		Note  string `json:"note"`
	}{
		Name:  "Bill",
		Value: 10,
		Note:  "<a&b>",
	}

	t.Log("Given the need to hash a value.")
	{
		data, err := signature.Canonicalize(value)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to canonicalize the value: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to canonicalize the value.", success)

		const expData = `{"name":"Bill","value":10,"note":"<a&b>"}`
		if string(data) != expData {
			t.Logf("\t\tgot: %s", data)
			t.Logf("\t\texp: %s", expData)
			t.Fatalf("\t%s\tShould get back the canonical form.", failed)
		}
		t.Logf("\t%s\tShould get back the canonical form.", success)

		hash := signature.Hash(value)
		if hash != signature.Digest(data) {
			t.Fatalf("\t%s\tShould get the digest of the canonical form.", failed)
		}
		t.Logf("\t%s\tShould get the digest of the canonical form.", success)

		if !signature.IsHash(hash) {
			t.Fatalf("\t%s\tShould get a well formed hash: %s", failed, hash)
		}
		t.Logf("\t%s\tShould get a well formed hash.", success)

		if hash != signature.Hash(value) {
			t.Fatalf("\t%s\tShould get the same hash for the same value.", failed)
		}
		t.Logf("\t%s\tShould get the same hash for the same value.", success)
	}
}

func Test_Digest(t *testing.T) {
	t.Log("Given the need to produce a known digest.")
	{
		const exp = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

		got := signature.Digest(nil)
		if got != exp {
			t.Logf("\t\tgot: %s", got)
			t.Logf("\t\texp: %s", exp)
			t.Fatalf("\t%s\tShould get the SHA-256 of no data.", failed)
		}
		t.Logf("\t%s\tShould get the SHA-256 of no data.", success)
	}
}

func Test_IsHash(t *testing.T) {
	tt := []struct {
		name string
		hash string
		exp  bool
	}{
		{"zero", signature.ZeroHash, true},
		{"short", "00ab", false},
		{"not-hex", strings.Repeat("zz", 32), false},
		{"prefixed", "0x" + signature.ZeroHash[2:], false},
		{"empty", "", false},
	}

	t.Log("Given the need to recognize a well formed hash.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				got := signature.IsHash(tst.hash)
				if got != tst.exp {
					t.Fatalf("\t%s\tTest %d:\tShould get %v for %q.", failed, testID, tst.exp, tst.hash)
				}
				t.Logf("\t%s\tTest %d:\tShould get %v for %q.", success, testID, tst.exp, tst.hash)
			}

			t.Run(tst.name, f)
		}
	}
}
