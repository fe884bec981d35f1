// Package testsupport builds temp-dir configurations and opened stores for
// package tests.
package testsupport
