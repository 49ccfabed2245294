package lodestone

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"go.lodestone.dev/lodestone/pkg/internal/suggest"
)

func resolveCommand() *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Resolve a dependency name to a mod binary",
		ArgsUsage: "<name>",
		Description: `Runs the discovery pipeline once and resolves a single
assembly-style display name, e.g.:

	lodestone resolve "SphereII.Core, Version=1.0.0.0"

Prints the binary path on success. A name no mod provides exits
non-zero, that is the expected answer for host-owned binaries.`,
		Action: func(c *cli.Context) error {
			name := c.Args().First()
			if name == "" {
				return cli.Exit("missing dependency name argument", 1)
			}

			l, ctx, err := runPipeline(c)
			if err != nil {
				return cli.Exit(err, 1)
			}

			path, ok := l.ResolveDependency(ctx, name)
			if !ok {
				msg := fmt.Sprintf("no mod provides %q", name)
				if s := suggest.Best(name, l.Loader().Registry().Names()); s != "" {
					msg += fmt.Sprintf(", did you mean %q?", s)
				}
				return cli.Exit(msg, 1)
			}
			fmt.Println(path)
			return nil
		},
	}
}
