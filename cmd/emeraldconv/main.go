package main

import (
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/emeraldconv/emeraldconv"
	"github.com/emeraldconv/emeraldconv/logger"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func loadConfig(c *cli.Context) (*emeraldconv.Config, error) {
	cfg, err := emeraldconv.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("input") {
		cfg.Input = c.String("input")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("animations") {
		cfg.Animations = c.String("animations")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	if c.IsSet("log-file") {
		cfg.Logging.File = c.String("log-file")
	}

	if cfg.Input == "" {
		return nil, fmt.Errorf("no input tree configured, use --input or a config file")
	}
	if cfg.Output == "" {
		cfg.Output = "out"
	}

	return cfg, nil
}

func newConverter(c *cli.Context) (*emeraldconv.Converter, *emeraldconv.Config, *zap.Logger, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, nil, err
	}

	var fileCfg logger.FileConfig
	if cfg.Logging.File != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.File)
	}
	zl := logger.New(cfg.Logging.Level, fileCfg)

	conv, err := emeraldconv.New(cfg, zl)
	if err != nil {
		return nil, nil, nil, err
	}
	return conv, cfg, zl, nil
}

func main() {
	app := cli.NewApp()

	app.Name = "emeraldconv"
	app.Usage = "Convert decomp map and tileset assets to Tiled JSON"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{"EMERALDCONV_CONFIG"},
			Usage:   "path to config file",
		},
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "decomp tree to read",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "directory to write converted assets to",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "parallel decode workers",
		},
		&cli.StringFlag{
			Name:  "animations",
			Usage: "animation definitions file",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "also log to this rotating file",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:  "convert",
			Usage: "Convert every map and write the shared tileset",
			Action: func(c *cli.Context) error {
				conv, _, zl, err := newConverter(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer zl.Sync()

				results, err := conv.ConvertAll(c.Context)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if _, err := conv.FinalizeSharedTilesets(); err != nil {
					return cli.Exit(err, 1)
				}

				if err := conv.GenerateDefinitions(); err != nil {
					return cli.Exit(err, 1)
				}

				failed := 0
				for _, r := range results {
					if !r.Success {
						failed++
					}
				}
				if failed > 0 {
					return cli.Exit(fmt.Sprintf("%d of %d maps failed", failed, len(results)), 1)
				}

				return nil
			},
		},
		{
			Name:  "scan",
			Usage: "List the maps a conversion would process",
			Action: func(c *cli.Context) error {
				conv, _, zl, err := newConverter(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer zl.Sync()

				ids, err := conv.ScanMaps()
				if err != nil {
					return cli.Exit(err, 1)
				}

				for _, id := range ids {
					fmt.Println(id)
				}

				return nil
			},
		},
		{
			Name:      "preview",
			Usage:     "Render one map to a PNG without converting the batch",
			ArgsUsage: "MAP",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				conv, cfg, zl, err := newConverter(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer zl.Sync()

				id := c.Args().First()
				img, err := conv.Preview(id)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
					return cli.Exit(err, 1)
				}

				out := filepath.Join(cfg.Output, id+".png")
				f, err := os.Create(out)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer f.Close()

				if err := png.Encode(f, img); err != nil {
					return cli.Exit(err, 1)
				}

				fmt.Println(out)
				return nil
			},
		},
		{
			Name:  "definitions",
			Usage: "Convert every map and only write the definitions catalog",
			Action: func(c *cli.Context) error {
				conv, _, zl, err := newConverter(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer zl.Sync()

				if _, err := conv.ConvertAll(c.Context); err != nil {
					return cli.Exit(err, 1)
				}

				if err := conv.GenerateDefinitions(); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
