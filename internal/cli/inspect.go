package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/isochrone/isochrone/pkg/entity"
	"github.com/isochrone/isochrone/pkg/workspace"
)

// newInspectCmd creates the "inspect" command, which loads a workspace and
// prints a human-readable summary of its contents.
func newInspectCmd(loadConfig configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <path>",
		Short: "Summarize a workspace's contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ws := workspace.New(cfg, logger)
			if err := ws.Load(args[0]); err != nil {
				printError("could not load workspace: %v", err)
				return err
			}
			d := ws.Data()

			fmt.Println(StyleTitle.Render(ws.Name()))
			printKeyValue("id", ws.ID().String())
			printKeyValue("path", ws.Path())
			printStats(d.NodeCount(), d.LinkCount(), len(d.Services()))
			fmt.Println()

			for _, n := range d.Nodes() {
				printInfo("%s  %s", n.Name, StyleDim.Render(n.Type.String()))
				for _, p := range n.Pins {
					printKeyValue("  "+p.Type.String(), pinBinding(p))
				}
			}

			if svcs := d.Services(); len(svcs) > 0 {
				fmt.Println()
				fmt.Println(StyleTitle.Render("Services"))
				for _, s := range svcs {
					printKeyValue(s.Name, serviceSummary(s))
				}
			}
			if groups := d.ServiceGroups(); len(groups) > 0 {
				fmt.Println()
				fmt.Println(StyleTitle.Render("Service groups"))
				for _, g := range groups {
					printKeyValue(g.Name, strings.Join(g.Services, ", "))
				}
			}
			return nil
		},
	}
}

func pinBinding(p *entity.Pin) string {
	switch {
	case p.Group != "":
		return p.Group + " (group)"
	case p.Service != "":
		return p.Service
	default:
		return "-"
	}
}

func serviceSummary(s *entity.Service) string {
	switch s.Protocol {
	case entity.ProtocolICMP:
		return fmt.Sprintf("icmp type %d code %d", s.ICMPType, s.ICMPCode)
	default:
		if s.PortHigh > s.Port {
			return fmt.Sprintf("%s %d-%d", s.Protocol, s.Port, s.PortHigh)
		}
		return s.Protocol.String() + " " + strconv.Itoa(s.Port)
	}
}
