//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the checklist project using Mage.
//
// Usage:
//
//	mage build     Compile the checklist binary to bin/
//	mage test      Run all tests
//	mage testRace  Run all tests with the race detector
//	mage lint      Run golangci-lint
//	mage clean     Remove build artifacts
//	mage install   Install checklist to GOPATH/bin
package main

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "checklist"
	binaryDir  = "bin"
	cmdDir     = "./cmd/checklist"
	modulePath = "github.com/mesh-intelligence/checklist"
)
