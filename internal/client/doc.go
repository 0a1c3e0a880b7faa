// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the field client runtime.
//
// It restores the durable operation queue, runs the sync job, the
// connectivity prober and the optional metrics listener next to the terminal
// UI, and flushes the queue on exit.
package client
