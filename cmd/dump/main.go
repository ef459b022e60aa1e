package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	bankrollHash := flag.String("bankroll", "", "Script hash of the deployed Bankroll contract (LE hex)")
	claimTokenHash := flag.String("claimtoken", "", "Script hash of the deployed Claim Token contract (LE hex)")
	vaultHash := flag.String("vault", "", "Script hash of the deployed Vault Manager contract (LE hex)")

	flag.Parse()

	if *neoRPCEndpoint == "" {
		log.Fatal("missing Neo RPC endpoint")
	}

	contracts := map[string]string{
		"bankroll":   *bankrollHash,
		"claimtoken": *claimTokenHash,
		"vault":      *vaultHash,
	}

	const rootDir = "testdata"

	err := os.MkdirAll(rootDir, 0700)
	if err != nil {
		log.Fatal(fmt.Errorf("create root dir: %w", err))
	}

	b, err := newRemoteBlockChain(*neoRPCEndpoint)
	if err != nil {
		log.Fatal(fmt.Errorf("init remote blockchain: %w", err))
	}

	defer b.close()

	for name, rawHash := range contracts {
		if rawHash == "" {
			continue
		}

		h, err := util.Uint160DecodeStringLE(rawHash)
		if err != nil {
			log.Fatal(fmt.Errorf("decode %s contract hash: %w", name, err))
		}

		err = dumpContract(b, h, filepath.Join(rootDir, name+".json"))
		if err != nil {
			log.Fatal(fmt.Errorf("dump %s contract: %w", name, err))
		}
	}

	log.Printf("contract storage is successfully dumped to '%s/'\n", rootDir)
}

type storageItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// dumpContract writes all storage items of the contract into a JSON file,
// hex-encoded, in storage iteration order.
func dumpContract(b *remoteBlockchain, contract util.Uint160, path string) error {
	var items []storageItem

	err := b.iterateContractStorage(contract, func(key, value []byte) error {
		items = append(items, storageItem{
			Key:   hex.EncodeToString(key),
			Value: hex.EncodeToString(value),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("iterate contract storage: %w", err)
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage items: %w", err)
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		return fmt.Errorf("write dump file: %w", err)
	}

	return nil
}
