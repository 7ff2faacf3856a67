package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	req.NoError(os.WriteFile(path, []byte("app_name: market-test\nmongo:\n  uri: mongodb://file\nsweeper:\n  interval: 1m\n"), 0o600))

	t.Setenv("MONGO_URI", "mongodb://env")
	osArgs = func() []string { return []string{"--config", path, "--unrelated"} }
	defer func() { osArgs = func() []string { return os.Args[1:] } }()

	Load("missing.yaml")
	req.Equal("market-test", viper.GetString("app_name"))
	req.Equal("mongodb://env", viper.GetString("mongo.uri"))
	req.Equal("1m0s", viper.GetDuration("sweeper.interval").String())
}
