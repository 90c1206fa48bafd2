package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/cyp0633/zbxmaint/config"
	"github.com/cyp0633/zbxmaint/internal/cli"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" env:"ZBXMAINT_CONFIG"`

	Preview  cli.PreviewCmd    `cmd:"" help:"Show the upcoming windows of a rule." default:"withargs"`
	Validate cli.ValidateCmd   `cmd:"" help:"Check a rule before saving it."`
	Ics      cli.IcsCmd        `cmd:"" help:"Export upcoming windows as iCalendar."`
	List     cli.ListCmd       `cmd:"" help:"List stored maintenances."`
	Show     cli.ShowCmd       `cmd:"" help:"Show a stored maintenance in local time."`
	Create   cli.CreateCmd     `cmd:"" help:"Create or replace a maintenance."`
	Delete   cli.DeleteCmd     `cmd:"" help:"Delete maintenances."`
	API      cli.APIVersionCmd `cmd:"" name:"api-version" help:"Print the API version of the server."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("zbxmaint"),
		kong.Description("Maintenance window scheduler for Zabbix"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	appCtx, err := cli.NewContext(cfg, logger, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer appCtx.Close()

	if err := ctx.Run(appCtx); err != nil {
		appCtx.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
