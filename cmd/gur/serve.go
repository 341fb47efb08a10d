package main

import (
	"github.com/spf13/cobra"

	"github.com/the-maldridge/gur/pkg/http"
	"github.com/the-maldridge/gur/pkg/update"
)

func newServeCmd(r *runner) *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the package listing over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			db, err := r.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			srv, err := http.New(r.l)
			if err != nil {
				return err
			}
			srv.Mount("/api/pkgs", update.NewLister(r.l, db).HTTPEntry())
			return srv.Serve(c.Context(), r.cfg.Listen)
		},
	}
	c.Flags().StringVar(&r.cfg.Listen, "listen", r.cfg.Listen, "address to bind")
	return c
}
