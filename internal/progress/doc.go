// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress describes what happens while a command runs. Events come
// from the Python bootstrap (started, progress, log, completed, failed ...)
// and from the child's output streams, and are delivered in order to a
// single listener which drives the terminal UI.
package progress
