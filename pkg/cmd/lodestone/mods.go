package lodestone

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"go.lodestone.dev/lodestone/pkg/internal/api"
)

func modsCommand() *cli.Command {
	return &cli.Command{
		Name:  "mods",
		Usage: "Scan the configured mod folders and list the result",
		Description: `Runs the discovery pipeline once and prints every mod that
would be offered to the host, in registration order.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: json or yaml, pretty-printed if empty",
			},
		},
		Action: func(c *cli.Context) error {
			l, _, err := runPipeline(c)
			if err != nil {
				return cli.Exit(err, 1)
			}

			reg := l.Loader().Registry()
			switch format := c.String("output"); format {
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(api.ModsToJSON(reg.Descriptors()))
			case "yaml":
				return yaml.NewEncoder(os.Stdout).Encode(api.ModsToJSON(reg.Descriptors()))
			case "":
			default:
				return cli.Exit(fmt.Sprintf("unknown output format: %s (valid formats: json, yaml)", format), 1)
			}

			if reg.Len() == 0 {
				color.Warn.Println("no mods found")
				return nil
			}

			for _, d := range reg.Descriptors() {
				bullet := color.Gray.Sprint("○")
				if d.HasPatchers() || d.HasPlugins() {
					bullet = color.Green.Sprint("●")
				}
				fmt.Printf("%s %s", bullet, color.OpBold.Sprint(d.Name))
				if v := d.Version(); v != "" {
					fmt.Printf(" %s", color.Gray.Sprint(v))
				}
				if d.HasPatchers() {
					fmt.Printf(" %s", color.Cyan.Sprint("patchers"))
				}
				if d.HasPlugins() {
					fmt.Printf(" %s", color.Magenta.Sprint("plugins"))
				}
				fmt.Println()
				fmt.Printf("  %s\n", color.Gray.Sprint(d.Dir))
			}

			fmt.Printf("\n%d mod(s)\n", reg.Len())
			if dups := reg.Duplicates(); len(dups) != 0 {
				for name, ds := range dups {
					color.Warn.Printf("name %q is used by %d mods, the first one wins lookups\n", name, len(ds))
				}
			}
			return nil
		},
	}
}
