// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for partner.
//
// Supports TOML and YAML configuration files, with built-in defaults,
// environment variable overrides, validation, and hot reload.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - EndpointConfig: Answer endpoint URL, timeout and user agent
//   - StreamConfig: Typing-effect delay range
//   - AuthConfig: Local identity provider settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (PARTNER_*)
//   - ~/.partner/config.toml
//   - ~/.partner/config.yaml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	url := cfg.Endpoint.URL
package config
