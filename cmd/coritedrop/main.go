// Command coritedrop administers a local drop-engine state database:
// drop creation and capacity, pause flags, whitelist and role sets,
// and trusted-signer rotation. It operates on the bbolt store
// directly; issuing units and moving earnings happen through the
// engine wired to the deployment's ownership and fungible ledgers.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/leomcdev/CoriteNFTDrop/config"
	"github.com/leomcdev/CoriteNFTDrop/registry"
	"github.com/leomcdev/CoriteNFTDrop/signer"
	"github.com/leomcdev/CoriteNFTDrop/store"
)

func main() {
	app := &cli.App{
		Name:  "coritedrop",
		Usage: "administer a drop-engine state database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: defaultConfigPath(),
				Usage: "path to the TOML config file",
			},
		},
		Commands: []*cli.Command{
			initCmd(),
			infoCmd(),
			createDropCmd(),
			setCapacityCmd(),
			pauseCmd(),
			whitelistCmd(),
			adminCmd(),
			signerCmd(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "coritedrop:", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "coritedrop.toml"
	}
	return filepath.Join(home, ".coritedrop", "config.toml")
}

// openStore loads the config and opens the bolt store.
func openStore(c *cli.Context) (*store.BoltStore, config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	log, err := buildLogger(cfg.LogLevel)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	s, err := store.OpenBoltStore(filepath.Join(cfg.DataDir, "state.db"))
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	return s, cfg, log, nil
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "write a default config file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data-dir", Usage: "state directory", Required: true},
		},
		Action: func(c *cli.Context) error {
			cfg := config.Default(c.String("data-dir"))
			if err := config.Save(c.String("config"), cfg); err != nil {
				return err
			}
			fmt.Println("wrote", c.String("config"))
			return nil
		},
	}
}

func infoCmd() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "list drops and lifecycle flags",
		Action: func(c *cli.Context) error {
			s, _, _, err := openStore(c)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			paused, err := s.GlobalPaused()
			if err != nil {
				return err
			}
			enforced, err := s.WhitelistEnforced()
			if err != nil {
				return err
			}
			signerAddr, signerSet, err := s.TrustedSigner()
			if err != nil {
				return err
			}
			fmt.Printf("global pause: %v\nwhitelist enforced: %v\n", paused, enforced)
			if signerSet {
				fmt.Printf("trusted signer: %x\n", signerAddr)
			} else {
				fmt.Println("trusted signer: (unset)")
			}

			drops, err := s.ListDrops()
			if err != nil {
				return err
			}
			for _, d := range drops {
				fmt.Printf("drop %d: capacity=%d issued=%d currency=%s cumulative=%d paused=%v\n",
					d.DropID, d.Capacity, d.Issued, d.RewardCurrency, d.CumulativeEarnings, d.Paused)
			}
			return nil
		},
	}
}

func createDropCmd() *cli.Command {
	return &cli.Command{
		Name:  "create-drop",
		Usage: "reserve an identifier range for a new drop",
		Flags: []cli.Flag{
			&cli.Uint64Flag{Name: "id", Required: true},
			&cli.Uint64Flag{Name: "capacity", Required: true},
			&cli.StringFlag{Name: "currency", Required: true, Usage: "reward currency reference"},
		},
		Action: func(c *cli.Context) error {
			s, _, log, err := openStore(c)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if err := registry.New(s).Create(c.Uint64("id"), c.Uint64("capacity"), c.String("currency")); err != nil {
				return err
			}
			log.Info("drop created",
				zap.Uint64("drop", c.Uint64("id")),
				zap.Uint64("capacity", c.Uint64("capacity")))
			return nil
		},
	}
}

func setCapacityCmd() *cli.Command {
	return &cli.Command{
		Name:  "set-capacity",
		Usage: "move a drop's capacity bound",
		Flags: []cli.Flag{
			&cli.Uint64Flag{Name: "id", Required: true},
			&cli.Uint64Flag{Name: "capacity", Required: true},
		},
		Action: func(c *cli.Context) error {
			s, _, _, err := openStore(c)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			return registry.New(s).UpdateCapacity(c.Uint64("id"), c.Uint64("capacity"))
		},
	}
}

func pauseCmd() *cli.Command {
	return &cli.Command{
		Name:  "pause",
		Usage: "set or clear the global or a per-drop pause flag",
		Flags: []cli.Flag{
			&cli.Uint64Flag{Name: "drop", Usage: "drop id; omit for the global flag"},
			&cli.BoolFlag{Name: "off", Usage: "clear instead of set"},
		},
		Action: func(c *cli.Context) error {
			s, _, _, err := openStore(c)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			paused := !c.Bool("off")
			if c.IsSet("drop") {
				return registry.New(s).SetPaused(c.Uint64("drop"), paused)
			}
			return s.SetGlobalPause(paused)
		},
	}
}

func whitelistCmd() *cli.Command {
	return &cli.Command{
		Name:  "whitelist",
		Usage: "manage whitelist membership and enforcement",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "whitelist addresses (40-hex each)",
				ArgsUsage: "ADDR...",
				Action:    func(c *cli.Context) error { return setWhitelist(c, true) },
			},
			{
				Name:      "remove",
				Usage:     "remove addresses from the whitelist",
				ArgsUsage: "ADDR...",
				Action:    func(c *cli.Context) error { return setWhitelist(c, false) },
			},
			{
				Name:  "enforce",
				Usage: "toggle whitelist enforcement",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "off"}},
				Action: func(c *cli.Context) error {
					s, _, _, err := openStore(c)
					if err != nil {
						return err
					}
					defer func() { _ = s.Close() }()
					return s.SetWhitelistEnforced(!c.Bool("off"))
				},
			},
		},
	}
}

func setWhitelist(c *cli.Context, ok bool) error {
	if c.NArg() == 0 {
		return fmt.Errorf("no addresses given")
	}
	s, _, _, err := openStore(c)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	for _, arg := range c.Args().Slice() {
		addr, err := config.Address(arg)
		if err != nil {
			return err
		}
		if err := s.SetWhitelisted(addr, ok); err != nil {
			return err
		}
	}
	return nil
}

func adminCmd() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "manage the admin role set",
		Subcommands: []*cli.Command{
			{
				Name:      "grant",
				ArgsUsage: "ADDR",
				Action:    func(c *cli.Context) error { return setAdmin(c, true) },
			},
			{
				Name:      "revoke",
				ArgsUsage: "ADDR",
				Action:    func(c *cli.Context) error { return setAdmin(c, false) },
			},
		},
	}
}

func setAdmin(c *cli.Context, ok bool) error {
	addr, err := config.Address(c.Args().First())
	if err != nil {
		return err
	}
	s, _, _, err := openStore(c)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	return s.SetAdmin(addr, ok)
}

func signerCmd() *cli.Command {
	return &cli.Command{
		Name:  "signer",
		Usage: "manage the trusted signer",
		Subcommands: []*cli.Command{
			{
				Name:  "gen",
				Usage: "generate a signer mnemonic and encrypted keyfile",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Required: true, Usage: "keyfile path"},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: func(c *cli.Context) error {
					mnemonic, err := signer.GenerateMnemonic(signer.Mnemonic24Words)
					if err != nil {
						return err
					}
					seed, err := signer.SeedFromMnemonic(mnemonic, "")
					if err != nil {
						return err
					}
					if err := signer.SaveKeyfile(c.String("out"), seed, c.String("password")); err != nil {
						return err
					}
					fmt.Println("mnemonic (back this up):", mnemonic)
					return nil
				},
			},
			{
				Name:  "set",
				Usage: "derive the signer at an index and register its address",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "keyfile", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.UintFlag{Name: "index", Usage: "rotation index"},
				},
				Action: func(c *cli.Context) error {
					seed, err := signer.LoadKeyfile(c.String("keyfile"), c.String("password"))
					if err != nil {
						return err
					}
					sg, err := signer.FromSeed(seed, uint32(c.Uint("index")))
					if err != nil {
						return err
					}
					s, _, log, err := openStore(c)
					if err != nil {
						return err
					}
					defer func() { _ = s.Close() }()

					addr := sg.Address()
					if err := s.SetTrustedSigner(addr); err != nil {
						return err
					}
					log.Info("trusted signer set",
						zap.String("address", fmt.Sprintf("%x", addr)),
						zap.Uint32("index", sg.Index()))
					return nil
				},
			},
		},
	}
}
