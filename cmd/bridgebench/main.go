// Command bridgebench generates bridge messages and delivery proofs for
// benchmarking and prints them as JSON.
package main

import (
	"os"

	"github.com/eigerco/bridgebench/pkg/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Root.Error().Err(err).Msg("bridgebench failed")
		os.Exit(1)
	}
}
