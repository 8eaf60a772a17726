package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/internal/messages"
	"github.com/eigerco/bridgebench/internal/verifier"
)

func newDeliveryCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delivery",
		Short: "Generate a proof of the inbound state of a bridged chain lane",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDelivery(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.String("lane", "L1", "lane id, up to 4 characters or 0x prefixed hex")
	flags.String("relayer", "", "hex account of the relayer that delivered the messages")
	flags.Uint64("delivered-begin", 1, "first nonce delivered by the relayer")
	flags.Uint64("delivered-end", 0, "last nonce delivered by the relayer, 0 for none")
	flags.Uint64("last-confirmed", 0, "last confirmed nonce of the lane")
	flags.Uint32("db-size", 0, "grow the stored lane state to this many bytes")
	flags.Bool("malformed", false, "duplicate a node in the proof")
	flags.Bool("extra-nodes", false, "add nodes of an unrelated key to the proof")
	flags.Bool("verify", false, "verify the generated proof")
	return cmd
}

func parseAccountID(s string) (crypto.AccountID, error) {
	var id crypto.AccountID
	if s == "" {
		return id, nil
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return id, fmt.Errorf("decode account: %w", err)
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("account must be %d bytes, got %d", len(id), len(b))
	}
	copy(id[:], b)
	return id, nil
}

func runDelivery(cmd *cobra.Command, v *viper.Viper) error {
	lane, err := messages.ParseLaneID(v.GetString("lane"))
	if err != nil {
		return err
	}
	relayer, err := parseAccountID(v.GetString("relayer"))
	if err != nil {
		return err
	}

	inbound := messages.InboundLaneData{
		LastConfirmedNonce: messages.MessageNonce(v.GetUint64("last-confirmed")),
	}
	if end := v.GetUint64("delivered-end"); end > 0 {
		begin := v.GetUint64("delivered-begin")
		if begin > end {
			return fmt.Errorf("delivered range %d..%d: %w", begin, end, messages.ErrEmptyNonceRange)
		}
		inbound.Relayers = []messages.UnrewardedRelayer{{
			Relayer: relayer,
			Messages: messages.DeliveredMessages{
				Begin: messages.MessageNonce(begin),
				End:   messages.MessageNonce(end),
			},
		}}
	}

	params := messages.MessageDeliveryProofParams{
		Lane:            lane,
		InboundLaneData: inbound,
		ProofParams:     proofParams(v),
		Relayer:         relayer,
	}

	s, err := openSession(v)
	if err != nil {
		return err
	}
	defer s.Close()

	scheme := s.scheme()
	proof, err := s.builder.PrepareMessageDeliveryProof(params, scheme)
	if err != nil {
		return err
	}
	encoded, err := proof.Encode()
	if err != nil {
		return err
	}

	root, err := s.finality.StateRoot(scheme, proof.BridgedHeaderHash)
	if err != nil {
		return fmt.Errorf("anchor lookup: %w", err)
	}
	out := deliveryOutput{
		Anchor:    anchorOf(scheme, proof.BridgedHeaderHash, root, 0),
		Lane:      proof.Lane.String(),
		Storage:   storageOf(proof.StorageProof),
		ProofSize: proof.StorageProof.Size(),
		Encoded:   toHex(encoded),
	}

	if v.GetBool("verify") {
		out.Verified = &verification{}
		pv := verifier.New(s.finality, scheme, s.cfg.ThisChain.MessagesPalletName)
		_, data, err := pv.VerifyMessagesDeliveryProof(proof)
		if err != nil {
			out.Verified.Error = err.Error()
		} else {
			last := uint64(data.LastDeliveredNonce())
			out.Verified.LastDeliveredNonce = &last
		}
	}

	logMetrics(s)
	return writeJSON(cmd.OutOrStdout(), out)
}
