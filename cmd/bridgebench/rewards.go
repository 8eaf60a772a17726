package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eigerco/bridgebench/internal/messages"
	"github.com/eigerco/bridgebench/internal/relayers"
)

func newRewardsAccountCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewards-account",
		Short: "Print the rewards account of a lane",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lane, err := messages.ParseLaneID(v.GetString("lane"))
			if err != nil {
				return err
			}
			owner, err := parseOwner(v.GetString("owner"))
			if err != nil {
				return err
			}
			cfg, err := loadChains(v)
			if err != nil {
				return err
			}

			params := relayers.RewardsAccountParams{
				LaneID:         lane,
				BridgedChainID: cfg.BridgedChain.ID,
				Owner:          owner,
			}
			account := relayers.RewardsAccount(params)
			return writeJSON(cmd.OutOrStdout(), rewardsAccountOutput{
				Lane:         lane.String(),
				BridgedChain: cfg.BridgedChain.ID.String(),
				Owner:        strings.ToLower(v.GetString("owner")),
				Account:      toHex(account[:]),
			})
		},
	}

	cmd.Flags().String("lane", "L1", "lane id, up to 4 characters or 0x prefixed hex")
	cmd.Flags().String("owner", "this", "side of the bridge paying rewards (this or bridged)")
	return cmd
}

func parseOwner(s string) (relayers.RewardsAccountOwner, error) {
	switch strings.ToLower(s) {
	case "this", "this-chain":
		return relayers.ThisChain, nil
	case "bridged", "bridged-chain":
		return relayers.BridgedChain, nil
	default:
		return 0, fmt.Errorf("unknown rewards account owner %q", s)
	}
}
