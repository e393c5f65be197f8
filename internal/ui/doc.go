// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ui renders everything the user sees: section headers, tagged
// status lines and the progress bar shown while a command runs.
//
// Colours follow the destination: a terminal gets them, a pipe or buffer
// does not. NO_COLOR disables and FORCE_COLOR enables them regardless.
package ui
