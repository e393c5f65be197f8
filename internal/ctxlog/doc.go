// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a *slog.Logger in a context.Context.
//
// Diagnostic logs are written to stderr so that the standard output of the
// child interpreter is never interleaved with them. The level is read from
// PMCR_LOG_LEVEL (DEBUG, INFO, WARN or ERROR, default WARN) and the format
// from PMCR_LOG_FORMAT ("json" selects the JSON handler, anything else the
// pretty console handler).
package ctxlog
