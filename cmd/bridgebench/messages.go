package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eigerco/bridgebench/internal/messages"
	"github.com/eigerco/bridgebench/internal/verifier"
	"github.com/eigerco/bridgebench/internal/xcm"
	"github.com/eigerco/bridgebench/pkg/log"
)

func newMessagesCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Generate a proof of outbound messages of a bridged chain lane",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMessages(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.String("lane", "L1", "lane id, up to 4 characters or 0x prefixed hex")
	flags.Uint64("nonces-start", 1, "first message nonce")
	flags.Uint64("nonces-end", 1, "last message nonce")
	flags.Uint32("db-size", 0, "grow the first stored value to this many bytes")
	flags.Bool("malformed", false, "duplicate a node in the proof")
	flags.Bool("extra-nodes", false, "add nodes of an unrelated key to the proof")
	flags.Bool("dispatch-success", true, "generate a well formed XCM message instead of a zero blob")
	flags.String("destination", "here", "XCM destination, e.g. global:rococo/parachain:1000")
	flags.Bool("lane-state", false, "store and prove the outbound lane state")
	flags.Bool("verify", false, "verify the generated proof")
	return cmd
}

func runMessages(cmd *cobra.Command, v *viper.Viper) error {
	lane, err := messages.ParseLaneID(v.GetString("lane"))
	if err != nil {
		return err
	}
	destination, err := xcm.ParseJunctions(v.GetString("destination"))
	if err != nil {
		return err
	}

	params := messages.MessageProofParams{
		Lane: lane,
		MessageNonces: messages.NonceRange{
			Start: messages.MessageNonce(v.GetUint64("nonces-start")),
			End:   messages.MessageNonce(v.GetUint64("nonces-end")),
		},
		IsSuccessfulDispatchExpected: v.GetBool("dispatch-success"),
		ProofParams:                  proofParams(v),
	}
	if v.GetBool("lane-state") {
		state := messages.OutboundLaneData{
			OldestUnprunedNonce:  params.MessageNonces.Start,
			LatestGeneratedNonce: params.MessageNonces.End,
		}
		if params.MessageNonces.Start > 0 {
			state.LatestReceivedNonce = params.MessageNonces.Start - 1
		}
		params.OutboundLaneData = &state
	}

	s, err := openSession(v)
	if err != nil {
		return err
	}
	defer s.Close()

	scheme := s.scheme()
	proof, weight, err := s.builder.PrepareMessageProof(params, destination, scheme)
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
	out := messagesOutput{
		Anchor:      anchorOf(scheme, proof.BridgedHeaderHash, root, 0),
		Lane:        proof.Lane.String(),
		NoncesStart: uint64(proof.NoncesStart),
		NoncesEnd:   uint64(proof.NoncesEnd),
		Storage:     storageOf(proof.Storage),
		ProofSize:   proof.Storage.Size(),
		Weight:      weightOf(weight),
		Encoded:     toHex(encoded),
	}

	if v.GetBool("verify") {
		out.Verified = &verification{}
		pv := verifier.New(s.finality, scheme, s.cfg.ThisChain.MessagesPalletName)
		proved, err := pv.VerifyMessagesProof(proof, uint32(params.MessageNonces.Len()))
		if err != nil {
			out.Verified.Error = err.Error()
		} else {
			out.Verified.Messages = len(proved.Messages)
		}
	}

	logMetrics(s)
	return writeJSON(cmd.OutOrStdout(), out)
}

// logMetrics dumps the run's proof metrics at debug level.
func logMetrics(s *session) {
	families, err := s.registry.Gather()
	if err != nil {
		log.Root.Warn().Err(err).Msg("gather metrics")
		return
	}
	for _, mf := range families {
		log.Root.Debug().Str("metric", mf.GetName()).Int("series", len(mf.GetMetric())).Msg("metrics")
	}
}
