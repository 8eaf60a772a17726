package main

import (
	"github.com/spf13/cobra"

	"github.com/eigerco/bridgebench/internal/chain"
)

type chainOutput struct {
	Name           string `json:"name"`
	ID             string `json:"id"`
	Hasher         string `json:"hasher"`
	MessagesPallet string `json:"messages_pallet"`
	ParaID         uint32 `json:"para_id,omitempty"`
}

func newChainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chains",
		Short: "List the known chains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := chain.KnownNames()
			out := make([]chainOutput, 0, len(names))
			for _, name := range names {
				c, err := chain.Known(name)
				if err != nil {
					return err
				}
				out = append(out, chainOutput{
					Name:           c.Name,
					ID:             c.ID.String(),
					Hasher:         c.HeaderHasher().String(),
					MessagesPallet: c.MessagesPalletName,
					ParaID:         c.ParaID,
				})
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}
