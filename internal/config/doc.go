// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package config provides the configuration of the call logging.
// Values are read from the environment or from a YAML file; a Store keeps the current
// value behind an atomic pointer so it can be swapped while callers read it concurrently.
package config
