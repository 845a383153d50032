package main

import (
	"os"
	"time"

	"github.com/rommelsantor/Timeout/internal/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "timeout"
	app.Usage = "Keyed, pausable, resumable one-shot timers"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Log every timer transition",
		},
		&cli.BoolFlag{
			Name:  "plain-log",
			Usage: "Use the plain standard library console logger",
		},
		&cli.DurationFlag{
			Name:  "precision",
			Usage: "Scheduler tick, a time wheel is used from 10ms",
			Value: time.Millisecond,
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:  "demo",
			Usage: "Run the pause/resume/restart scenario once and verify every step",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "speed",
					Usage: "Divide every delay of the scenario by this factor",
					Value: 1,
				},
				&cli.StringFlag{
					Name:  "monitor",
					Usage: "Also stream events over websocket on this address, e.g. 127.0.0.1:8080",
				},
			},
			Action: runDemo,
		},
		{
			Name:  "monitor",
			Usage: "Serve the event stream over websocket and replay the scenario until interrupted",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "listen",
					Aliases: []string{"l"},
					Usage:   "Monitor listen address",
					Value:   "127.0.0.1:8080",
				},
				&cli.StringFlag{
					Name:  "serializer",
					Usage: "Event encoding, json or protobuf",
					Value: "json",
				},
				&cli.IntFlag{
					Name:  "speed",
					Usage: "Divide every delay of the scenario by this factor",
					Value: 1,
				},
			},
			Action: runMonitor,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal("Timeout command error.", err)
	}
}
