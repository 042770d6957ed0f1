/*
meshport exports the visible objects of a scene document as a single
STL mesh, and can optionally hand the result to a post-processing
command.
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spaghettifunk/meshport/exporter"
	"github.com/spaghettifunk/meshport/exporter/document"
	"github.com/spaghettifunk/meshport/exporter/prefs"
	"github.com/spaghettifunk/meshport/exporter/watch"
)

type exportFlags struct {
	prefsPath string
	outDir    string
	postCmd   string
	linear    float32
	angular   float32
	ascii     bool
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.prefsPath, "prefs", "", "preference file (default: per-user config)")
	cmd.Flags().StringVar(&f.outDir, "out-dir", "", "override the export directory")
	cmd.Flags().StringVar(&f.postCmd, "post", "", "override the post-export command")
	cmd.Flags().Float32Var(&f.linear, "linear", 0, "override the linear deflection")
	cmd.Flags().Float32Var(&f.angular, "angular", 0, "override the angular deflection")
	cmd.Flags().BoolVar(&f.ascii, "ascii", false, "write ASCII STL instead of binary")
}

// loadPrefs reads the preference file and layers the command-line
// overrides on top without persisting them.
func (f *exportFlags) loadPrefs() (*prefs.Preferences, error) {
	path := f.prefsPath
	if path == "" {
		var err error
		path, err = prefs.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	p, err := prefs.Load(path)
	if err != nil {
		return nil, err
	}

	if f.outDir != "" {
		p.OutputDir = f.outDir
	}
	if f.postCmd != "" {
		p.PostCommand = f.postCmd
	}
	if f.linear > 0 {
		p.LinearDeflection = f.linear
	}
	if f.angular > 0 {
		p.AngularDeflection = f.angular
	}
	p.Normalize()
	return p, nil
}

func (f *exportFlags) newExporter() (*exporter.Exporter, error) {
	p, err := f.loadPrefs()
	if err != nil {
		return nil, err
	}
	return exporter.New(&exporter.Config{
		Prefs: p,
		ASCII: f.ascii,
	})
}

func newExportCmd() *cobra.Command {
	flags := &exportFlags{}
	cmd := &cobra.Command{
		Use:   "export <scene.toml>",
		Short: "Export the visible objects of a scene document to STL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := flags.newExporter()
			if err != nil {
				return err
			}
			doc, err := document.Load(args[0])
			if err != nil {
				return err
			}
			report, err := exp.Export(cmd.Context(), doc)
			if err != nil {
				return err
			}
			fmt.Printf("wrote %s: %d objects, %d triangles\n", report.Path, report.Objects, report.Triangles)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newWatchCmd() *cobra.Command {
	flags := &exportFlags{}
	cmd := &cobra.Command{
		Use:   "watch <scene.toml>",
		Short: "Re-export whenever the scene document changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := flags.newExporter()
			if err != nil {
				return err
			}
			w, err := watch.New(args[0], exp)
			if err != nil {
				return err
			}

			// signal channel to capture system calls
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
			go func() {
				<-sigCh
				w.Stop()
			}()

			return w.Run(cmd.Context())
		},
	}
	flags.register(cmd)
	return cmd
}

func newPrefsCmd() *cobra.Command {
	var prefsPath string

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect or change the stored export preferences",
	}
	cmd.PersistentFlags().StringVar(&prefsPath, "prefs", "", "preference file (default: per-user config)")

	resolve := func() (string, error) {
		if prefsPath != "" {
			return prefsPath, nil
		}
		return prefs.DefaultPath()
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one preference value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolve()
			if err != nil {
				return err
			}
			p, err := prefs.Load(path)
			if err != nil {
				return err
			}
			v, err := p.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Update one preference value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolve()
			if err != nil {
				return err
			}
			p, err := prefs.Load(path)
			if err != nil {
				return err
			}
			if err := p.Set(args[0], args[1]); err != nil {
				return err
			}
			return p.Save(path)
		},
	})

	return cmd
}

func main() {
	root := &cobra.Command{
		Use:           "meshport",
		Short:         "Export visible scene objects as a merged STL mesh",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newExportCmd(), newWatchCmd(), newPrefsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
