// Package util holds small string helpers shared by configuration loading,
// the relay server and log output.
package util
