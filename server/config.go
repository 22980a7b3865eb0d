package server

import (
	"encoding/json"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	TcpListenAddr string `json:"TcpListenAddr"`
	WsListenAddr  string `json:"WsListenAddr"`
	Rounds        int    `json:"Rounds"`
	BarrierSec    int    `json:"BarrierSec"`
	ArchiveDir    string `json:"ArchiveDir"`
	LogLevel      string `json:"LogLevel"`
}

var DefaultConfig = &Config{
	TcpListenAddr: ":4269",
	WsListenAddr:  ":4270",
	Rounds:        0,
	BarrierSec:    30,
	ArchiveDir:    "./games",
	LogLevel:      "info",
}

func (c *Config) String() string {
	bs, _ := json.Marshal(c)
	return string(bs)
}

// ConfigInit reads a yaml/json config file on top of the defaults.
func ConfigInit(filename string) (*Config, error) {
	out := &Config{}
	*out = *DefaultConfig

	c := viper.New()

	ext := filepath.Ext(filename)
	if len(ext) > 1 {
		c.SetConfigType(ext[1:])
	}

	c.SetConfigFile(filename)
	if err := c.ReadInConfig(); err != nil {
		return nil, err
	}

	if err := c.Unmarshal(out); err != nil {
		return nil, err
	}

	return out, nil
}
