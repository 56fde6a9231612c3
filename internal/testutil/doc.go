// Package testutil provides shared fixtures for package tests: a TestEnv
// bundling a mock filesystem, a mock executor pre-loaded with flatpak
// responses, and a prepared store on a temp config directory.
package testutil
