package main

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jbweber/vbdctl/api/v1alpha1"
	"github.com/jbweber/vbdctl/internal/command"
	"github.com/jbweber/vbdctl/internal/config"
	"github.com/jbweber/vbdctl/internal/helper"
	"github.com/jbweber/vbdctl/internal/libvirt"
	"github.com/jbweber/vbdctl/internal/state"
)

// app holds what one invocation needs: configuration, logger and the
// writers command results go to.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *logrus.Logger
	stdout  io.Writer

	// invoker overrides the configured helper invoker when set.
	invoker command.Invoker
}

func newApp(stdout, stderr io.Writer) *app {
	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(logrus.WarnLevel)

	return &app{
		v:      config.New(),
		logger: logger,
		stdout: stdout,
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vbdctl",
		Short: "vbdctl - virtual block device control",
		Long: `vbdctl manages virtual block devices (VBDs) for Xen domains.

A VBD binds a domain and VBD number to a virtual disk or a raw partition
with an access mode. vbdctl also grants and revokes a domain's raw access
to physical partitions through the privileged xi_* helpers.

Each invocation loads the state file, runs one command and saves the
state only if the command succeeded.

Partition arguments may contain "+", which is replaced by the domain id
(or by -s where supported): "-p hda+ -n 3" refers to hda3.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: vbdctl.yaml in /etc/vbdctl or $HOME/.config/vbdctl)")
	flags.String("state-file", "", "state file path")
	flags.String("tools-dir", "", "directory containing the xi_* helpers")
	flags.Bool("dry-run", false, "print helper command lines instead of running them")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error)")

	_ = a.v.BindPFlag(config.KeyStateFile, flags.Lookup("state-file"))
	_ = a.v.BindPFlag(config.KeyToolsDir, flags.Lookup("tools-dir"))
	_ = a.v.BindPFlag(config.KeyDryRun, flags.Lookup("dry-run"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(a.vbdCmd())
	root.AddCommand(a.physicalCmd())
	root.AddCommand(a.vdCmd())
	root.AddCommand(a.partitionCmd())

	return root
}

func (a *app) loadConfig() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger.SetLevel(cfg.Level())
	a.logger.WithFields(logrus.Fields{
		"state_file": cfg.StateFile,
		"dry_run":    cfg.DryRun,
		"config":     a.v.ConfigFileUsed(),
	}).Debug("configuration loaded")
	return nil
}

// env builds the collaborators shared by the commands of this invocation.
func (a *app) env() command.Env {
	inv := a.invoker
	if inv == nil {
		if a.cfg.DryRun {
			inv = helper.NewDryRun(a.logger)
		} else {
			inv = helper.NewExec(a.logger)
		}
	}

	env := command.Env{
		Invoker:  inv,
		ToolsDir: a.cfg.ToolsDir,
		Logger:   a.logger,
	}
	if a.cfg.ExpandNames {
		env.Expander = helper.NewExpander(inv, a.cfg.ToolsDir)
	}
	return env
}

func (a *app) store() *state.FileStore {
	return state.NewFileStore(a.cfg.StateFile, a.cfg.PartitionsFile)
}

// run executes one command inside a state transaction and prints its
// result. Output is printed even when saving the state failed afterwards.
func (a *app) run(ctx context.Context, build func(st *v1alpha1.State, env command.Env) command.Command) error {
	env := a.env()
	runner := state.NewRunner(a.store(), a.logger)

	out, err := runner.Run(ctx, func(st *v1alpha1.State) (state.Executor, error) {
		c := build(st, env)
		a.logger.WithField("command", command.Name(c)).Debug("executing command")
		return c, nil
	})
	if out != "" {
		_, _ = fmt.Fprintln(a.stdout, out)
	}
	return err
}

// load reads the state for read-only commands. Nothing is saved.
func (a *app) load(ctx context.Context) (*v1alpha1.State, error) {
	return a.store().Load(ctx)
}

// verifyDomain checks the domain id against libvirt when configured to.
func (a *app) verifyDomain(ctx context.Context, id int) error {
	if !a.cfg.Libvirt.VerifyDomains {
		return nil
	}

	client, err := libvirt.ConnectWithContext(ctx, a.cfg.Libvirt.Socket, a.cfg.Libvirt.Timeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			a.logger.WithError(err).Warn("failed to close libvirt connection")
		}
	}()

	return libvirt.NewVerifier(client.Libvirt(), a.logger).Verify(id)
}

// print writes formatted output as is.
func (a *app) print(s string) {
	_, _ = fmt.Fprint(a.stdout, s)
}
