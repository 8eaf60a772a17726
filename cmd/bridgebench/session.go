package main

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/eigerco/bridgebench/internal/benchmarking"
	"github.com/eigerco/bridgebench/internal/chain"
	"github.com/eigerco/bridgebench/internal/finality"
	"github.com/eigerco/bridgebench/internal/finality/parachains"
	"github.com/eigerco/bridgebench/internal/storageproof"
	"github.com/eigerco/bridgebench/internal/store"
	"github.com/eigerco/bridgebench/pkg/db"
	"github.com/eigerco/bridgebench/pkg/db/pebble"
	"github.com/eigerco/bridgebench/pkg/log"
)

// session is one generation run: a node store, the finality trackers
// anchored proofs are registered with and a proof builder over both.
type session struct {
	kv       db.KVStore
	cfg      benchmarking.Config
	finality *finality.Store
	builder  *benchmarking.Builder
	registry *prometheus.Registry
}

func openSession(v *viper.Viper) (*session, error) {
	cfg, err := loadChains(v)
	if err != nil {
		return nil, err
	}

	var kv *pebble.KVStore
	if dir := v.GetString("data-dir"); dir != "" {
		kv, err = pebble.NewKVStoreAt(dir)
	} else {
		kv, err = pebble.NewKVStore()
	}
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	metrics, err := benchmarking.NewMetrics(registry)
	if err != nil {
		return nil, errors.Join(err, kv.Close())
	}

	fin := finality.NewStore(kv, cfg.BridgedChain.HeaderHasher(), store.DefaultHeadersToKeep)
	proofs := storageproof.NewBuilder(store.NewTrie(kv))

	log.Root.Debug().
		Str("this", cfg.ThisChain.Name).
		Str("bridged", cfg.BridgedChain.Name).
		Str("data_dir", v.GetString("data-dir")).
		Msg("session opened")

	return &session{
		kv:       kv,
		cfg:      cfg,
		finality: fin,
		builder:  benchmarking.NewBuilder(cfg, fin, proofs, metrics),
		registry: registry,
	}, nil
}

// scheme is how the bridged chain is finalized on this chain.
func (s *session) scheme() finality.Scheme {
	if s.cfg.BridgedChain.Parachain {
		return finality.Parachain(parachains.ParaID(s.cfg.BridgedChain.ParaID))
	}
	return finality.Direct()
}

func (s *session) Close() error {
	return s.kv.Close()
}

func loadChains(v *viper.Viper) (benchmarking.Config, error) {
	this, err := chain.Known(v.GetString("this-chain"))
	if err != nil {
		return benchmarking.Config{}, fmt.Errorf("this chain: %w", err)
	}
	bridged, err := chain.Known(v.GetString("bridged-chain"))
	if err != nil {
		return benchmarking.Config{}, fmt.Errorf("bridged chain: %w", err)
	}
	if this.Name == bridged.Name {
		return benchmarking.Config{}, fmt.Errorf("chain %s bridged with itself", this.Name)
	}
	return benchmarking.Config{ThisChain: this, BridgedChain: bridged}, nil
}

func proofParams(v *viper.Viper) storageproof.Params {
	params := storageproof.Params{
		Malformed:  v.GetBool("malformed"),
		ExtraNodes: v.GetBool("extra-nodes"),
	}
	if size := v.GetUint32("db-size"); size > 0 {
		params = params.WithDBSize(size)
	}
	return params
}
