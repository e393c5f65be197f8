// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package process runs a single child process in the foreground and reports its exit code.
//
// The standard streams are handed to the child as-is, so a caller that passes the
// parent's own os.Stdin, os.Stdout and os.Stderr gets inherited, unbuffered streams.
// While the child runs, termination signals are intercepted and forwarded to it.
// A second signal of the same type, or cancellation of the context, kills the child.
package process
