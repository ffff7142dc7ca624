package ctl

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/libreassistant/poc/internal/poc/httpapi"
)

// NewDefaultLibreAssistantCtlCommand builds the root `libreassistantctl`
// command with its full subcommand tree.
func NewDefaultLibreAssistantCtlCommand() *cobra.Command {
	var addr string

	root := &cobra.Command{
		Use:   "libreassistantctl",
		Short: "libreassistantctl inspects and controls a running libreassistantd",
		Long: heredoc.Doc(`
			libreassistantctl talks to a running libreassistantd over its
			loopback HTTP surface: list and inspect discovered plugins, start
			or stop them, review invocation analytics, and send one-off chat
			turns for manual testing.
		`),
	}
	root.PersistentFlags().StringVar(&addr, "addr", "http://127.0.0.1:8742", "Base URL of the libreassistantd HTTP surface.")

	root.AddCommand(newListCmd(&addr))
	root.AddCommand(newStatusCmd(&addr))
	root.AddCommand(newStartCmd(&addr))
	root.AddCommand(newStopCmd(&addr))
	root.AddCommand(newClearCmd(&addr))
	root.AddCommand(newUsageCmd(&addr))
	root.AddCommand(newChatCmd(&addr))
	return root
}

func newListCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every discovered plugin and its current state",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient(*addr)
			var plugins []httpapi.PluginStatusResponse
			if err := c.do(context.Background(), "GET", "/plugins", nil, &plugins); err != nil {
				return err
			}
			printPluginTable(plugins)
			return nil
		},
	}
}

func newStatusCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status <plugin-id>",
		Short: "Show one plugin's current status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient(*addr)
			var p httpapi.PluginStatusResponse
			if err := c.do(context.Background(), "GET", "/plugins/"+args[0]+"/status", nil, &p); err != nil {
				return err
			}
			printPluginTable([]httpapi.PluginStatusResponse{p})
			return nil
		},
	}
}

func newStartCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start <plugin-id>",
		Short: "Start an approved plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient(*addr)
			var out map[string]interface{}
			if err := c.do(context.Background(), "POST", "/plugins/"+args[0]+"/start", nil, &out); err != nil {
				return err
			}
			fmt.Printf("started %s on port %v\n", args[0], out["port"])
			return nil
		},
	}
}

func newStopCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <plugin-id>",
		Short: "Stop a running plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient(*addr)
			if err := c.do(context.Background(), "POST", "/plugins/"+args[0]+"/stop", nil, nil); err != nil {
				return err
			}
			fmt.Printf("stopped %s\n", args[0])
			return nil
		},
	}
}

func newClearCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <plugin-id>",
		Short: "Clear a failed plugin back to stopped so it can be started again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient(*addr)
			if err := c.do(context.Background(), "POST", "/plugins/"+args[0]+"/clear", nil, nil); err != nil {
				return err
			}
			fmt.Printf("cleared %s\n", args[0])
			return nil
		},
	}
}

func newUsageCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show aggregate plugin invocation analytics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient(*addr)
			var summary httpapi.UsageSnapshotResponse
			if err := c.do(context.Background(), "GET", "/plugins/usage", nil, &summary); err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("PLUGIN", "INVOCATIONS", "SUCCESS RATE")
			for plugin, count := range summary.InvocationsByPlugin {
				table.AddRow(plugin, count, fmt.Sprintf("%.0f%%", summary.SuccessRateByPlugin[plugin]*100))
			}
			fmt.Println(table)
			fmt.Printf("\nsessions recorded: %d, most used: %s\n", summary.SessionCount, summary.MostUsedPlugin)
			return nil
		},
	}
}

func newChatCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a single chat turn and print the response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := args[0]
			for _, a := range args[1:] {
				message += " " + a
			}

			c := newAPIClient(*addr)
			var resp httpapi.ChatResponse
			if err := c.do(context.Background(), "POST", "/chat", httpapi.ChatRequest{Message: message}, &resp); err != nil {
				return err
			}
			fmt.Println(resp.Text)
			return nil
		},
	}
}

func printPluginTable(plugins []httpapi.PluginStatusResponse) {
	table := uitable.New()
	table.AddRow("ID", "NAME", "STATE", "PORT", "RESTARTS", "LAST ERROR")
	for _, p := range plugins {
		table.AddRow(p.ID, p.Name, p.State, p.Port, p.RestartCount, p.LastError)
	}
	fmt.Println(table)
}
