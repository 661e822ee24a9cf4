package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func Test_RootCmdVersion(t *testing.T) {
	assert.Contains(t, rootCmd.Version, version)
	assert.Contains(t, rootCmd.Version, commit)
}

func Test_WordSepNormalizeFunc(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	assert.Equal(t, pflag.NormalizedName("dynamic-toolsets"), wordSepNormalizeFunc(fs, "dynamic_toolsets"))
	assert.Equal(t, pflag.NormalizedName("read-only"), wordSepNormalizeFunc(fs, "read-only"))
}
