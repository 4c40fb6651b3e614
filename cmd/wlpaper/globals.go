package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	wl "deedles.dev/wlpaper/client"
	"deedles.dev/wlpaper/internal/xslices"
	"deedles.dev/wlpaper/layershell"
	"github.com/spf13/cobra"
)

func newGlobalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "globals",
		Short: "List the globals and outputs that the compositor advertises",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := wl.Dial()
			if err != nil {
				return fmt.Errorf("connect to compositor: %w", err)
			}
			defer client.Close()

			return listGlobals(cmd.OutOrStdout(), client)
		},
	}
}

type outputInfo struct {
	global       wl.Global
	name         string
	description  string
	manufacturer string
	model        string
	width        int32
	height       int32
	refresh      int32
	scale        int32
}

func bindOutput(registry *wl.Registry, g wl.Global) *outputInfo {
	info := outputInfo{global: g, scale: 1}

	output := wl.BindOutput(registry, g.Name, g.Version)
	output.Geometry = func(x, y, pw, ph, subpixel int32, manufacturer, model string, transform wl.OutputTransform) {
		info.manufacturer, info.model = manufacturer, model
	}
	output.Mode = func(flags wl.OutputMode, width, height, refresh int32) {
		if flags&wl.OutputModeCurrent != 0 {
			info.width, info.height, info.refresh = width, height, refresh
		}
	}
	output.Scale = func(factor int32) { info.scale = factor }
	output.Name = func(name string) { info.name = name }
	output.Description = func(desc string) { info.description = desc }
	output.Done = func() { output.Release() }

	return &info
}

type requirement struct {
	iface string
	match func(wl.Global) bool
}

var required = []requirement{
	{wl.CompositorInterface, wl.IsCompositor},
	{wl.ShmInterface, wl.IsShm},
	{layershell.ShellInterface, layershell.IsShell},
}

func listGlobals(w io.Writer, client *wl.Client) error {
	registry := client.Display().GetRegistry()
	err := client.RoundTrip()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tINTERFACE\tVERSION")
	for _, g := range registry.List() {
		fmt.Fprintf(tw, "%v\t%v\t%v\n", g.Name, g.Interface, g.Version)
	}
	err = tw.Flush()
	if err != nil {
		return err
	}

	outputs := xslices.Map(registry.Find(wl.IsOutput), func(g wl.Global) *outputInfo {
		return bindOutput(registry, g)
	})
	var shm *wl.Shm
	if gs := registry.Find(wl.IsShm); len(gs) > 0 {
		shm = wl.BindShm(registry, gs[0].Name, gs[0].Version)
	}
	err = client.RoundTrip()
	if err != nil {
		return err
	}

	if len(outputs) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "OUTPUT\tMODE\tSCALE\tMODEL\tDESCRIPTION")
		for _, out := range outputs {
			name := out.name
			if name == "" {
				name = fmt.Sprintf("wl_output %v", out.global.Name)
			}
			fmt.Fprintf(tw, "%v\t%vx%v@%.3gHz\t%v\t%v\t%v\n",
				name,
				out.width,
				out.height,
				float64(out.refresh)/1000,
				out.scale,
				strings.TrimSpace(out.manufacturer+" "+out.model),
				out.description,
			)
		}
		err = tw.Flush()
		if err != nil {
			return err
		}
	}

	if shm != nil {
		formats := xslices.Map(shm.Formats(), wl.ShmFormat.String)
		fmt.Fprintf(w, "\nshm formats: %v\n", strings.Join(formats, ", "))
	}

	missing := xslices.Filter(required, func(r requirement) bool { return len(registry.Find(r.match)) == 0 })
	if len(missing) > 0 {
		names := xslices.Map(missing, func(r requirement) string { return r.iface })
		fmt.Fprintf(w, "\nmissing for wlpaper: %v\n", strings.Join(names, ", "))
	}

	return nil
}
