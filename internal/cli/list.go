package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/shoe-inventory/internal/model"
	"github.com/dtroode/shoe-inventory/internal/query"
	"github.com/dtroode/shoe-inventory/internal/service"
)

type viewFlags struct {
	search  string
	minSize string
	maxSize string
	seasons []string
	sortBy  string
	order   string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "Search by size, season or details")
	cmd.Flags().StringVar(&f.minSize, "min-size", "", "Minimum shoe size")
	cmd.Flags().StringVar(&f.maxSize, "max-size", "", "Maximum shoe size")
	cmd.Flags().StringSliceVar(&f.seasons, "season", nil, "Season filter, repeatable (Summer, Autumn/Spring, Winter)")
	cmd.Flags().StringVar(&f.sortBy, "sort", "size", "Sort key: size, season or details")
	cmd.Flags().StringVar(&f.order, "order", "asc", "Sort order: asc or desc")
}

func (f *viewFlags) spec() (model.QuerySpec, error) {
	seasons := make([]model.Season, 0, len(f.seasons))
	for _, raw := range f.seasons {
		season, ok := model.ParseSeason(raw)
		if !ok {
			return model.QuerySpec{}, fmt.Errorf("unknown season %q", raw)
		}
		seasons = append(seasons, season)
	}

	return model.QuerySpec{
		Search:  f.search,
		MinSize: f.minSize,
		MaxSize: f.maxSize,
		Seasons: seasons,
		Sort: model.SortSpec{
			Key:       query.ParseSortKey(f.sortBy),
			Direction: query.ParseDirection(f.order),
		},
	}, nil
}

func newListCommand(app *App) *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shoes matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := flags.spec()
			if err != nil {
				return err
			}
			if err := app.awaitSnapshot(cmd.Context()); err != nil {
				return err
			}
			return renderTable(app.Out, app.Session.View(spec))
		},
	}
	flags.register(cmd)

	return cmd
}

func newWatchCommand(app *App) *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the filtered table on every change until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := flags.spec()
			if err != nil {
				return err
			}
			return watch(cmd.Context(), app, spec)
		},
	}
	flags.register(cmd)

	return cmd
}

// watch renders the view on every record set change and prints a warning
// whenever the sync error changes.
func watch(ctx context.Context, app *App, spec model.QuerySpec) error {
	changed := make(chan struct{}, 1)
	unregister := app.Session.OnChange(func(service.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unregister()

	var (
		rendered uint64
		shown    error
	)
	for {
		version, syncErr := app.Session.Version(), app.Session.Err()
		if syncErr != nil && syncErr != shown {
			fmt.Fprintf(app.Out, "warning: %v\n", syncErr)
		}
		shown = syncErr

		if version > 0 && version != rendered {
			rendered = version
			if err := renderTable(app.Out, app.Session.View(spec)); err != nil {
				return err
			}
			fmt.Fprintln(app.Out)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-changed:
		}
	}
}

func newWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in subject and the shared collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, ok := app.Session.Subject()
			if !ok {
				return &model.NotReadyError{Op: "show subject"}
			}
			fmt.Fprintf(app.Out, "User ID: %s\nCollection: %s\n", subject, app.Session.CollectionPath())
			return nil
		},
	}
}
