// Command genverifier exports a Solidity verifier contract from a
// compiled Groth16 verifying key, for either circuit this coordinator
// proves against (ProcessMessages, TallyVotes). It is deployment
// tooling only: the circuits themselves are compiled and their keys
// produced by a separate setup step outside this module (spec §1
// Non-goals — no circuit Define() bodies are authored here).
package main

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/solidity"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: genverifier <vk-path> <out.sol>")
		os.Exit(1)
	}
	vkPath, outPath := os.Args[1], os.Args[2]

	if err := run(vkPath, outPath); err != nil {
		fmt.Fprintln(os.Stderr, "genverifier:", err)
		os.Exit(1)
	}
	fmt.Println("wrote Solidity verifier:", outPath)
}

func run(vkPath, outPath string) error {
	f, err := os.Open(vkPath)
	if err != nil {
		return fmt.Errorf("open verifying key %s: %w", vkPath, err)
	}
	defer f.Close()

	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(f); err != nil {
		return fmt.Errorf("read verifying key %s: %w", vkPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(outPath), err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer out.Close()

	if err := vk.ExportSolidity(out, solidity.WithHashToFieldFunction(sha256.New())); err != nil {
		return fmt.Errorf("export solidity: %w", err)
	}
	return nil
}
