/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"os"

	"github.com/securekey/fabric-txnrouter/cmd/routercli/clicfg"
	"github.com/securekey/fabric-txnrouter/cmd/routercli/interestscmd"
	"github.com/securekey/fabric-txnrouter/cmd/routercli/targetscmd"
	"github.com/spf13/cobra"
)

func newRouterCLICmd() *cobra.Command {
	mainCmd := &cobra.Command{
		Use: "routercli",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			clicfg.InitLogging()
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	flags := mainCmd.PersistentFlags()

	clicfg.InitLoggingLevel(flags)
	clicfg.InitConfigPath(flags)

	mainCmd.AddCommand(interestscmd.Cmd(), targetscmd.Cmd())

	return mainCmd
}

func main() {
	if newRouterCLICmd().Execute() != nil {
		os.Exit(1)
	}
}
