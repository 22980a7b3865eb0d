package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"tarotserv/bot"
	log "tarotserv/core/log"
)

var Version string = "unknown"
var GitCommit string = "unknown"
var BuildAt string = "unknown"
var Name string = "tarotbot"

var ServerAddr string = ""
var NbBots int = 0
var BotName string = ""

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
			Name:        "server",
			Aliases:     []string{"s"},
			Value:       "localhost:4269",
			Destination: &ServerAddr,
		}, &cli.IntFlag{
			Name:        "bots",
			Aliases:     []string{"n"},
			Value:       4,
			Destination: &NbBots,
		}, &cli.StringFlag{
			Name:        "name",
			Value:       "bot",
			Destination: &BotName,
		},
	}

	app.Action = RealMain

	if err := app.Run(os.Args); err != nil {
		log.Error(err)
		os.Exit(-1)
	}
}

func RealMain(c *cli.Context) error {
	clients := make([]*bot.Client, 0, NbBots)
	for i := 0; i < NbBots; i++ {
		cl := bot.NewClient(fmt.Sprintf("%s-%d", BotName, i+1), ServerAddr)
		if err := cl.Start(); err != nil {
			return err
		}
		clients = append(clients, cl)
	}

	for _, cl := range clients {
		<-cl.Done()
	}
	for _, cl := range clients {
		cl.Stop()
	}
	return nil
}
