package main

import (
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/the-maldridge/gur/pkg/config"
	"github.com/the-maldridge/gur/pkg/mirrors"
	"github.com/the-maldridge/gur/pkg/pkgdb"
	"github.com/the-maldridge/gur/pkg/storage"
	_ "github.com/the-maldridge/gur/pkg/storage/bc"
	_ "github.com/the-maldridge/gur/pkg/storage/file"
	"github.com/the-maldridge/gur/pkg/update"
	"github.com/the-maldridge/gur/pkg/view"
)

type runner struct {
	cfg     *config.Config
	cfgFile string

	update bool
	list   bool

	l hclog.Logger
}

func newRootCmd() *cobra.Command {
	r := &runner{cfg: config.NewConfig()}
	r.cfg.LoadFromEnv()

	c := &cobra.Command{
		Use:   "gur",
		Short: "Sync packages published through git master repositories",
		Long: "gur keeps a local store of master repositories, each listing " +
			"packages that live in their own upstream repository, and " +
			"records the upstream commit of every package.",
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.preRun,
		RunE:              r.runE,
	}

	c.Flags().BoolVarP(&r.update, "update", "u", false, "sync the local database with every mirror")
	c.Flags().BoolVarP(&r.list, "list-pkgs", "l", false, "list the packages of every master repository")

	c.PersistentFlags().StringVar(&r.cfgFile, "config", "", "JSON config file")
	r.cfg.AddFlags(c.PersistentFlags())

	c.AddCommand(newServeCmd(r))
	return c
}

// preRun loads the config file underneath any flag given on the
// command line and sets up the logger tree.
func (r *runner) preRun(c *cobra.Command, _ []string) error {
	if r.cfgFile != "" {
		changed := map[string]string{}
		c.Flags().Visit(func(f *pflag.Flag) {
			changed[f.Name] = f.Value.String()
		})
		if err := r.cfg.LoadFromFile(r.cfgFile); err != nil {
			return err
		}
		for name, val := range changed {
			if err := c.Flags().Set(name, val); err != nil {
				return err
			}
		}
	}
	if err := r.cfg.Absolute(); err != nil {
		return err
	}

	r.l = hclog.New(&hclog.LoggerOptions{
		Name:   "gur",
		Level:  hclog.LevelFromString(r.cfg.LogLevel),
		Output: c.ErrOrStderr(),
	})
	r.l.Debug("gur is initializing", "store", r.cfg.StoreDir, "mirrors", r.cfg.MirrorsFile)

	storage.SetLogger(r.l)
	storage.DoCallbacks()
	return nil
}

func (r *runner) openDB() (*pkgdb.Manager, error) {
	s, err := storage.Initialize(r.cfg.Storage, r.cfg.StoreDir)
	if err != nil {
		return nil, err
	}
	return pkgdb.New(r.l, r.cfg.StoreDir, s, r.cfg.Database), nil
}

func (r *runner) runE(c *cobra.Command, _ []string) error {
	if !r.update && !r.list {
		return c.Help()
	}

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if r.update {
		u := update.New(
			update.WithLogger(r.l),
			update.WithDatabase(db),
			update.WithMirrors(mirrors.New(r.l, r.cfg.MirrorsFile)),
		)
		if err := u.Execute(c.Context(), view.NewUpdateView(c.OutOrStdout())); err != nil {
			r.l.Error("Update failed", "error", err)
			return err
		}
	}

	if r.list {
		lv := view.NewListView(c.OutOrStdout())
		if err := update.NewLister(r.l, db).Execute(lv); err != nil {
			r.l.Error("Listing failed", "error", err)
			return err
		}
		lv.Render()
	}
	return nil
}
