// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color wraps strings in ANSI escape codes for the diagnostic log handler.
// Colour is enabled when stderr is a terminal, unless NO_COLOR is set.
// FORCE_COLOR enables colour regardless of the terminal check.
package color
