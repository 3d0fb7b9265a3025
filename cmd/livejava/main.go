package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/livejava/java/project"
)

const version = "0.1.0"

// options are the flags shared by every command.
type options struct {
	verbosity    int
	logFile      string
	settingsFile string
	jdk          string
	dir          string

	settings *project.Settings
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "livejava",
		Short:         "Parse and resolve Java source the way an editor needs it",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", "log more (repeat for more detail)")
	flags.StringVar(&opts.logFile, "log", "", "write the log to this file instead of stderr")
	flags.StringVar(&opts.settingsFile, "settings", "", "settings file (default: settings.yaml in the user config directory)")
	flags.StringVar(&opts.jdk, "jdk", "", "JDK home to resolve library classes from")
	flags.StringVarP(&opts.dir, "dir", "C", ".", "project directory")

	rootCmd.AddCommand(newInfoCmd(opts))
	rootCmd.AddCommand(newCtxtCmd(opts))
	rootCmd.AddCommand(newDepsCmd(opts))
	rootCmd.AddCommand(newTreeCmd(opts))
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newEvalCmd(opts))
	rootCmd.AddCommand(newShowCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newLSPCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "livejava:", err)
		os.Exit(1)
	}
}

func (o *options) setup() error {
	settings, err := project.LoadSettings(o.settingsFile)
	if err != nil {
		return err
	}
	o.settings = settings

	verbosity := max(o.verbosity, settings.Verbosity)
	if o.logFile != "" {
		commonlog.Configure(verbosity, &o.logFile)
	} else {
		commonlog.Configure(verbosity, nil)
	}
	return nil
}

// loadProject reads the project of the working directory. A JDK given on
// the command line or in the settings is used when the project file
// names none.
func (o *options) loadProject() (*project.Project, error) {
	dir, err := filepath.Abs(o.dir)
	if err != nil {
		return nil, err
	}
	cfg, err := project.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	switch {
	case o.jdk != "":
		cfg.JDK = o.jdk
	case cfg.JDK == "" && o.settings != nil:
		cfg.JDK = o.settings.JDK
	}
	return project.New(cfg)
}

// scanProject loads the project and reads all of its sources. Unreadable
// files are logged, not fatal.
func (o *options) scanProject() (*project.Project, error) {
	p, err := o.loadProject()
	if err != nil {
		return nil, err
	}
	if err := p.ScanAll(); err != nil {
		commonlog.GetLogger("livejava").Warningf("scan: %s", err)
	}
	return p, nil
}

// addFiles makes sure the named files are part of p, whether or not
// they lie under a source path, and returns their absolute paths.
func addFiles(p *project.Project, names []string) ([]string, error) {
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path, err := filepath.Abs(name)
		if err != nil {
			return nil, err
		}
		if p.File(path) == nil {
			if err := p.ScanFile(path); err != nil {
				return nil, err
			}
		}
		paths = append(paths, path)
	}
	return paths, nil
}
