/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package interestscmd

import (
	"encoding/json"
	"fmt"
	"strings"

	dp "github.com/hyperledger/fabric-protos-go/discovery"
	"github.com/securekey/fabric-txnrouter/cmd/routercli/clicfg"
	"github.com/securekey/fabric-txnrouter/txnrouter/pkg/interest"
	"github.com/securekey/fabric-txnrouter/util/errors"
	"github.com/spf13/cobra"
)

// Cmd returns the interests sub-command, which prints the resolved
// discovery interest set of a contract after applying any additional
// interests given on the command line
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interests",
		Short: "Print the resolved discovery interest set of a contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd)
		},
	}

	flags := cmd.Flags()
	clicfg.InitChaincodeID(flags)
	clicfg.InitCollections(flags)
	clicfg.InitInterests(flags)

	return cmd
}

func run(cmd *cobra.Command) error {
	chaincodeID := clicfg.ChaincodeID()
	if chaincodeID == "" {
		return errors.New(errors.MissingRequiredParameterError, "ccid is required")
	}

	set := interest.New(chaincodeID, clicfg.Collections())
	for _, spec := range clicfg.Interests() {
		call, err := parseInterest(spec)
		if err != nil {
			return err
		}
		if err := set.Add(call); err != nil {
			return err
		}
	}

	out, err := json.MarshalIndent(asView(set.Interests()), "", "  ")
	if err != nil {
		return errors.Wrap(errors.SystemError, err, "error marshaling interests")
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// parseInterest parses 'chaincode' or 'chaincode:collA,collB'
func parseInterest(spec string) (*dp.ChaincodeCall, error) {
	name, collections, found := strings.Cut(spec, ":")
	if name == "" {
		return nil, errors.Errorf(errors.ValidationError, "invalid interest [%s]: chaincode name is required", spec)
	}
	call := &dp.ChaincodeCall{Name: name}
	if found && collections != "" {
		call.CollectionNames = strings.Split(collections, ",")
	}
	return call, nil
}

type interestView struct {
	Name            string   `json:"name"`
	CollectionNames []string `json:"collectionNames,omitempty"`
}

func asView(calls []*dp.ChaincodeCall) []interestView {
	views := make([]interestView, len(calls))
	for i, call := range calls {
		views[i] = interestView{Name: call.Name, CollectionNames: call.CollectionNames}
	}
	return views
}
