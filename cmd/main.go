package main

import (
	"os"

	cdkverifier "github.com/0xPolygon/cdk-verifier"
	"github.com/0xPolygon/cdk-verifier/config"
	"github.com/0xPolygon/cdk-verifier/log"
	"github.com/urfave/cli/v2"
)

const appName = "cdk-verifier"

var (
	configFileFlag = cli.StringSliceFlag{
		Name:     config.FlagCfg,
		Aliases:  []string{"c"},
		Usage:    "Configuration file(s), merged over the default configuration",
		Required: false,
	}
	saveConfigFlag = cli.StringFlag{
		Name:     config.FlagSaveConfigPath,
		Aliases:  []string{"s"},
		Usage:    "Save final configuration into to the indicated path (name: cdk_verifier_config.toml)",
		Required: false,
	}
	batchFlag = cli.StringFlag{
		Name:     config.FlagBatch,
		Aliases:  []string{"b"},
		Usage:    "`FILE` holding the hex encoded calldata of the committed batch",
		Required: true,
	}
	pobsFlag = cli.StringFlag{
		Name:     config.FlagPobs,
		Aliases:  []string{"p"},
		Usage:    "JSON `FILE` holding the pobs of the batch, generated from the execution endpoint when omitted",
		Required: false,
	}
	outputFlag = cli.StringFlag{
		Name:     config.FlagOutputFile,
		Aliases:  []string{"o"},
		Usage:    "Write the result to `FILE` instead of the standard output",
		Required: false,
	}
	schemaFlag = cli.BoolFlag{
		Name:     config.FlagSchema,
		Usage:    "Print the JSON schema of the configuration instead of its default values",
		Required: false,
	}
)

func main() {
	app := cli.NewApp()
	app.Name = appName
	app.Version = cdkverifier.Version
	app.Commands = []*cli.Command{
		{
			Name:    "version",
			Aliases: []string{},
			Usage:   "Application version and build",
			Action:  versionCmd,
		},
		{
			Name:    "run",
			Aliases: []string{},
			Usage:   "Run the verifier JSON-RPC server",
			Action:  start,
			Flags:   []cli.Flag{&configFileFlag, &saveConfigFlag},
		},
		{
			Name:    "prove",
			Aliases: []string{},
			Usage:   "Verify a committed batch and print its proof of execution",
			Action:  proveCmd,
			Flags:   []cli.Flag{&configFileFlag, &batchFlag, &pobsFlag, &outputFlag},
		},
		{
			Name:    "cache-key",
			Aliases: []string{},
			Usage:   "Print the key identifying the verification of a batch with its pobs",
			Action:  cacheKeyCmd,
			Flags:   []cli.Flag{&configFileFlag, &batchFlag, &pobsFlag, &outputFlag},
		},
		{
			Name:    "config",
			Aliases: []string{},
			Usage:   "Print the default configuration",
			Action:  configCmd,
			Flags:   []cli.Flag{&schemaFlag},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
		os.Exit(1)
	}
}

func versionCmd(*cli.Context) error {
	cdkverifier.PrintVersion(os.Stdout)
	return nil
}
