/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clicfg

import (
	"os"

	logging "github.com/op/go-logging"
	"github.com/spf13/pflag"
)

// Flags
const (
	loggingLevelFlag        = "logging-level"
	loggingLevelDescription = "Logging level - ERROR, WARNING, INFO, DEBUG"
	defaultLoggingLevel     = "ERROR"

	configPathFlag        = "configpath"
	configPathDescription = "The directory containing the router's config.yaml"
	defaultConfigPath     = ""

	chaincodeIDFlag        = "ccid"
	chaincodeIDDescription = "The chaincode ID of the contract"

	collectionsFlag        = "collections"
	collectionsDescription = "A comma-separated list of private data collections of the contract, e.g. 'collA,collB'"

	interestFlag        = "interest"
	interestDescription = "An additional discovery interest in the form 'chaincode' or 'chaincode:collA,collB'. May be repeated."

	excludeFlag        = "exclude"
	excludeDescription = "A comma-separated list of peer endpoints to exclude from the targets, e.g. 'localhost:7051'"
)

var logFormat = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} [%{module}] %{shortfunc} -> %{level:.4s}%{color:reset} %{message}`,
)

var (
	loggingLevel string
	configPath   string
	chaincodeID  string
	collections  []string
	interests    []string
	excluded     []string
)

// InitLoggingLevel registers the logging-level flag
func InitLoggingLevel(flags *pflag.FlagSet) {
	flags.StringVar(&loggingLevel, loggingLevelFlag, defaultLoggingLevel, loggingLevelDescription)
}

// InitConfigPath registers the configpath flag
func InitConfigPath(flags *pflag.FlagSet) {
	flags.StringVar(&configPath, configPathFlag, defaultConfigPath, configPathDescription)
}

// InitChaincodeID registers the ccid flag
func InitChaincodeID(flags *pflag.FlagSet) {
	flags.StringVar(&chaincodeID, chaincodeIDFlag, "", chaincodeIDDescription)
}

// InitCollections registers the collections flag
func InitCollections(flags *pflag.FlagSet) {
	flags.StringSliceVar(&collections, collectionsFlag, nil, collectionsDescription)
}

// InitInterests registers the interest flag
func InitInterests(flags *pflag.FlagSet) {
	flags.StringArrayVar(&interests, interestFlag, nil, interestDescription)
}

// InitExcluded registers the exclude flag
func InitExcluded(flags *pflag.FlagSet) {
	flags.StringSliceVar(&excluded, excludeFlag, nil, excludeDescription)
}

// InitLogging sets up the logging backend with the requested level
func InitLogging() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, logFormat)
	leveled := logging.AddModuleLevel(formatted)

	level, err := logging.LogLevel(loggingLevel)
	if err != nil {
		level = logging.ERROR
	}
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}

// ConfigPath returns the config directory override
func ConfigPath() string {
	return configPath
}

// ChaincodeID returns the chaincode ID of the contract
func ChaincodeID() string {
	return chaincodeID
}

// Collections returns the contract's private data collections
func Collections() []string {
	return collections
}

// Interests returns the raw additional interest specs
func Interests() []string {
	return interests
}

// Excluded returns the peer endpoints to exclude
func Excluded() []string {
	return excluded
}
