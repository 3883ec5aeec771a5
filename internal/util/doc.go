// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions shared by the ragchat packages.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: display-width truncation with ellipsis
//   - StringWidth, PadToWidth: terminal display width helpers
//   - SanitizeText: strips escape sequences and control characters from
//     untrusted text before it reaches the terminal
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	// Answers come from the network and are rendered literally
//	safe := util.SanitizeText(resp.Answer)
//
//	// Write the config atomically
//	err := util.AtomicWriteFile(path, data, 0600)
package util
