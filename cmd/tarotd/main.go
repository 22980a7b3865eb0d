package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	log "tarotserv/core/log"
	utilSignal "tarotserv/core/utils/signal"
	"tarotserv/server"
)

var Version string = "unknown"
var GitCommit string = "unknown"
var BuildAt string = "unknown"
var Name string = "tarotd"

var ConfigPath string = ""
var ListenAddr string = ""
var PrintConf bool = false

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Println("project:", Name)
		fmt.Println("version:", Version)
		fmt.Println("git commit:", GitCommit)
		fmt.Println("build at:", BuildAt)
	}

	app := cli.NewApp()
	app.Name = Name
	app.Version = Version
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Value:       "",
			Destination: &ConfigPath,
		}, &cli.StringFlag{
			Name:        "listen",
			Aliases:     []string{"l"},
			Value:       "",
			Destination: &ListenAddr,
		}, &cli.BoolFlag{
			Name:        "print-config",
			Destination: &PrintConf,
			Hidden:      true,
		},
	}

	app.Action = RealMain

	if err := app.Run(os.Args); err != nil {
		log.Error(err)
		os.Exit(-1)
	}
}

func RealMain(c *cli.Context) error {
	conf := server.DefaultConfig
	if ConfigPath != "" {
		var err error
		conf, err = server.ConfigInit(ConfigPath)
		if err != nil {
			return err
		}
	}
	if ListenAddr != "" {
		conf.TcpListenAddr = ListenAddr
	}
	if PrintConf {
		fmt.Println("the real config value is:", conf.String())
	}

	log.SetLevel(conf.LogLevel)

	svr, err := server.NewServer(conf)
	if err != nil {
		return err
	}
	if err := svr.Start(); err != nil {
		return err
	}
	defer svr.Stop()

	signal := utilSignal.WaitShutdown()
	log.Infof("recv signal: %v", signal.String())
	return nil
}
