/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package errors

//ErrorCode error code
type ErrorCode int

const (
	// GeneralError generic error
	GeneralError ErrorCode = 0

	// ValidationError malformed caller input, never retried
	ValidationError ErrorCode = 1

	// MissingRequiredParameterError required argument absent
	MissingRequiredParameterError ErrorCode = 2

	// DiscoveryError discovery query or response processing failure
	DiscoveryError ErrorCode = 3

	// MissingConfigDataError required configuration absent or invalid
	MissingConfigDataError ErrorCode = 4

	// SystemError unexpected internal failure
	SystemError ErrorCode = 5
)

// String returns the code name used in log messages and metrics
func (c ErrorCode) String() string {
	switch c {
	case ValidationError:
		return "ValidationError"
	case MissingRequiredParameterError:
		return "MissingRequiredParameterError"
	case DiscoveryError:
		return "DiscoveryError"
	case MissingConfigDataError:
		return "MissingConfigDataError"
	case SystemError:
		return "SystemError"
	default:
		return "GeneralError"
	}
}
