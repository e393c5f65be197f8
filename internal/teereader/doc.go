// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader splits streamed output into lines as it passes through.
// LineTeeReader taps a reader, LineWriter taps writes. Both remember the last
// complete line for diagnostics.
package teereader
