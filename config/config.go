/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/hyperledger/fabric-sdk-go/pkg/common/logging"
	"github.com/securekey/fabric-txnrouter/txnrouter/api"
	"github.com/securekey/fabric-txnrouter/txnrouter/pkg/handler"
	"github.com/securekey/fabric-txnrouter/util/errors"
	"github.com/spf13/viper"
	"github.com/xeipuuv/gojsonschema"
)

const (
	configFileName = "config"
	cmdRootPrefix  = "txnrouter"
	devConfigPath  = "./sampleconfig"

	defaultCommitTimeout = 30 * time.Second
)

var logger = logging.NewLogger("txnrouter")

var routerConfig = viper.New()

// Init configures the router from a config file. By default the file is
// looked up at the path in the environment variable FABRIC_CFG_PATH; for
// testing and development an override path can be passed in.
func Init(configPathOverride string) error {
	configPath := os.Getenv("FABRIC_CFG_PATH")
	if configPath == "" {
		configPath = configPathOverride
		if configPath == "" {
			configPath = devConfigPath
		}
	}

	routerConfig = viper.New()
	routerConfig.AddConfigPath(configPath)
	routerConfig.SetConfigName(configFileName)
	routerConfig.SetEnvPrefix(cmdRootPrefix)
	routerConfig.AutomaticEnv()
	routerConfig.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := routerConfig.ReadInConfig(); err != nil {
		return errors.Wrap(errors.MissingConfigDataError, err, "error reading router config file")
	}

	logger.Debugf("Loaded router config from [%s]", routerConfig.ConfigFileUsed())
	return nil
}

// GatewayOptions returns the gateway-level options from the loaded config
func GatewayOptions() *api.GatewayOptions {
	commitTimeout := routerConfig.GetDuration("txnrouter.eventhandler.committimeout")
	if commitTimeout == 0 {
		commitTimeout = defaultCommitTimeout
	}
	return &api.GatewayOptions{
		EventHandler: api.EventHandlerOptions{CommitTimeout: commitTimeout},
		Discovery: api.DiscoveryOptions{
			Enabled:     routerConfig.GetBool("txnrouter.discovery.enabled"),
			AsLocalhost: routerConfig.GetBool("txnrouter.discovery.aslocalhost"),
		},
	}
}

// ChannelID returns the configured channel name
func ChannelID() string {
	return routerConfig.GetString("txnrouter.channel")
}

// TargetPeer is a statically configured endorsement target
type TargetPeer struct {
	URL   string `mapstructure:"url" json:"url"`
	MSPID string `mapstructure:"mspid" json:"mspid"`
}

// StaticTargets returns the fixed endorsement targets used when discovery
// is disabled
func StaticTargets() ([]api.Peer, error) {
	var targets []TargetPeer
	if err := routerConfig.UnmarshalKey("txnrouter.targets", &targets); err != nil {
		return nil, errors.Wrap(errors.MissingConfigDataError, err, "error unmarshaling static targets")
	}
	if len(targets) == 0 {
		return nil, errors.New(errors.MissingConfigDataError, "no static targets configured")
	}

	peers := make([]api.Peer, len(targets))
	for i, target := range targets {
		if target.URL == "" || target.MSPID == "" {
			return nil, errors.New(errors.MissingConfigDataError, "static target requires url and mspid")
		}
		peers[i] = handler.NewPeer(target.URL, target.MSPID)
	}
	return peers, nil
}

// Profile is a minimal connection profile naming a channel and its
// endorsement targets
type Profile struct {
	Channel string       `json:"channel"`
	Peers   []TargetPeer `json:"peers"`
}

const profileSchema = `{
	"$schema": "http://json-schema.org/draft-04/schema#",
	"type": "object",
	"required": ["channel", "peers"],
	"properties": {
		"channel": {"type": "string", "minLength": 1},
		"peers": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["url", "mspid"],
				"properties": {
					"url": {"type": "string", "minLength": 1},
					"mspid": {"type": "string", "minLength": 1}
				}
			}
		}
	}
}`

// ValidateProfile checks the given connection profile JSON against the
// profile schema
func ValidateProfile(profileJSON []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(profileSchema),
		gojsonschema.NewBytesLoader(profileJSON),
	)
	if err != nil {
		return errors.Wrap(errors.ValidationError, err, "error validating connection profile")
	}
	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return errors.Errorf(errors.ValidationError, "invalid connection profile: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// LoadProfile validates and parses a connection profile
func LoadProfile(profileJSON []byte) (*Profile, error) {
	if err := ValidateProfile(profileJSON); err != nil {
		return nil, err
	}
	profile := &Profile{}
	if err := json.Unmarshal(profileJSON, profile); err != nil {
		return nil, errors.Wrap(errors.ValidationError, err, "error unmarshaling connection profile")
	}
	return profile, nil
}
