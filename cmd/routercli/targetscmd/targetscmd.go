/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package targetscmd

import (
	"context"
	"fmt"

	"github.com/securekey/fabric-txnrouter/cmd/routercli/clicfg"
	"github.com/securekey/fabric-txnrouter/config"
	"github.com/securekey/fabric-txnrouter/txnrouter/pkg/handler"
	"github.com/spf13/cobra"
)

// Cmd returns the targets sub-command, which prints the static
// endorsement targets that apply when no discovery service is configured
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Print the static endorsement targets from the router config",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd)
		},
	}

	flags := cmd.Flags()
	clicfg.InitExcluded(flags)

	return cmd
}

func run(cmd *cobra.Command) error {
	if err := config.Init(clicfg.ConfigPath()); err != nil {
		return err
	}

	targets, err := config.StaticTargets()
	if err != nil {
		return err
	}

	static, err := handler.NewStatic(targets, handler.WithExclusion(handler.ExcludeHosts(clicfg.Excluded()...)))
	if err != nil {
		return err
	}
	peers, err := static.Endorsers(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Channel: %s\n", config.ChannelID())
	for _, peer := range peers {
		fmt.Fprintf(cmd.OutOrStdout(), "%s [%s]\n", peer.URL(), peer.MSPID())
	}
	return nil
}
