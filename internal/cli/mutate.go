package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dtroode/shoe-inventory/internal/model"
)

// Form defaults for a new shoe.
const (
	defaultSize   = "20"
	defaultSeason = string(model.SeasonSummer)
)

type fieldFlags struct {
	size      string
	season    string
	imageURL  string
	imageFile string
	details   string
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.size, "size", "s", defaultSize, "Shoe size, 20 to 50")
	cmd.Flags().StringVar(&f.season, "season", defaultSeason, "Summer, Autumn/Spring or Winter")
	cmd.Flags().StringVar(&f.imageURL, "image-url", "", "Image URL")
	cmd.Flags().StringVar(&f.imageFile, "image-file", "", "Upload this image and use its URL")
	cmd.Flags().StringVarP(&f.details, "details", "d", "", "Free-text details")
	cmd.MarkFlagsMutuallyExclusive("image-url", "image-file")
}

// apply overrides the candidate with every flag the user set.
func (f *fieldFlags) apply(cmd *cobra.Command, c *model.Candidate) {
	flags := cmd.Flags()
	if flags.Changed("size") {
		c.Size = f.size
	}
	if flags.Changed("season") {
		c.Season = f.season
	}
	if flags.Changed("image-url") {
		c.ImageURL = f.imageURL
	}
	if flags.Changed("details") {
		c.Details = f.details
	}
}

func (f *fieldFlags) anyChanged(cmd *cobra.Command) bool {
	for _, name := range []string{"size", "season", "image-url", "image-file", "details"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// ask fills the candidate interactively, offering current values as defaults.
func (a *App) ask(c *model.Candidate) error {
	fields := []struct {
		label string
		value *string
	}{
		{"Shoe size", &c.Size},
		{"Season (Summer, Autumn/Spring, Winter)", &c.Season},
		{"Image URL", &c.ImageURL},
		{"Details", &c.Details},
	}

	for _, field := range fields {
		answer, err := a.Prompter.Ask(field.label, *field.value)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", field.label, err)
		}
		*field.value = answer
	}

	return nil
}

func (a *App) uploadImage(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return a.Gateway.AttachImage(ctx, filepath.Base(path), f)
}

func newAddCommand(app *App) *cobra.Command {
	var flags fieldFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a shoe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			candidate := model.Candidate{Size: defaultSize, Season: defaultSeason}

			if !flags.anyChanged(cmd) && app.Prompter != nil && app.Prompter.Interactive() {
				if err := app.ask(&candidate); err != nil {
					return err
				}
			} else {
				flags.apply(cmd, &candidate)
			}

			if flags.imageFile != "" {
				url, err := app.uploadImage(cmd.Context(), flags.imageFile)
				if err != nil {
					return err
				}
				candidate.ImageURL = url
			}

			id, err := app.Gateway.Create(cmd.Context(), candidate)
			if err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "Added shoe %s\n", id)
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func newEditCommand(app *App) *cobra.Command {
	var flags fieldFlags

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a shoe; unset fields keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			if err := app.awaitSnapshot(cmd.Context()); err != nil {
				return err
			}

			records := app.Session.Records()
			i := slices.IndexFunc(records, func(s model.Shoe) bool { return s.ID == id })
			if i < 0 {
				return fmt.Errorf("shoe %s not found", id)
			}
			candidate := model.CandidateFromShoe(records[i])

			if !flags.anyChanged(cmd) && app.Prompter != nil && app.Prompter.Interactive() {
				if err := app.ask(&candidate); err != nil {
					return err
				}
			} else {
				flags.apply(cmd, &candidate)
			}

			if flags.imageFile != "" {
				url, err := app.uploadImage(cmd.Context(), flags.imageFile)
				if err != nil {
					return err
				}
				candidate.ImageURL = url
			}

			if err := app.Gateway.Update(cmd.Context(), id, candidate); err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "Updated shoe %s\n", id)
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func newDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a shoe after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := app.Gateway.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if deleted {
				fmt.Fprintf(app.Out, "Deleted shoe %s\n", args[0])
			} else {
				fmt.Fprintln(app.Out, "Delete cancelled")
			}
			return nil
		},
	}
}
