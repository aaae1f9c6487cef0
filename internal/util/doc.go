// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the partner packages.
//
// # Key Functions
//
//   - WriteFileAtomic: crash-safe file writes that replace or refuse to clobber
//   - TruncateWidth: display-width aware truncation for header text
//   - Capitalize: upper-cases the first rune of a display name
//
// # Usage
//
//	err := util.WriteFileAtomic(path, data, 0600, util.NoClobber)
//	name := util.Capitalize(profile.Username)
package util
