package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/emojiqr/pkg/errors"
	"github.com/matzehuels/emojiqr/pkg/presets"
	"github.com/matzehuels/emojiqr/pkg/render/qr/styles"
)

// presetsCommand creates the presets command and its subcommands.
func (c *CLI) presetsCommand() *cobra.Command {
	var libraryPath string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List, show and pick factory looks",
	}
	cmd.PersistentFlags().StringVar(&libraryPath, "library", "", "preset library TOML (default: built-in)")

	load := func() (*presets.Library, error) { return loadLibrary(libraryPath) }
	cmd.AddCommand(c.presetsListCommand(load))
	cmd.AddCommand(c.presetsShowCommand(load))
	cmd.AddCommand(c.presetsPickCommand(load))

	return cmd
}

func loadLibrary(path string) (*presets.Library, error) {
	if path == "" {
		return presets.Factory(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset library: %w", err)
	}
	return presets.Parse(data)
}

func (c *CLI) presetsListCommand(load func() (*presets.Library, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List preset types and their looks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printInfo(out, "Preset library v%d", lib.Version)
			for _, name := range lib.TypeNames() {
				fmt.Fprintln(out, StyleTitle.Render(name))
				for i, caption := range lib.Captions(name) {
					printDetail(out, "%2d  %s", i, caption)
				}
			}
			printNextStep(out, "Render a look", "emojiqr render DATA --preset url --look 1")
			return nil
		},
	}
}

func (c *CLI) presetsShowCommand(load func() (*presets.Library, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "show TYPE [INDEX]",
		Short: "Print a look as a TOML style file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := load()
			if err != nil {
				return err
			}
			index := 0
			if len(args) == 2 {
				if index, err = strconv.Atoi(args[1]); err != nil {
					return errors.New(errors.ErrCodeInvalidInput, "look index %q is not an integer", args[1])
				}
			}
			cfg, err := lib.Resolve(args[0], index)
			if err != nil {
				return err
			}
			return writeStyleTOML(cmd.OutOrStdout(), cfg)
		},
	}
}

func (c *CLI) presetsPickCommand(load func() (*presets.Library, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "pick [TYPE]",
		Short: "Pick a look interactively and print it as TOML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := load()
			if err != nil {
				return err
			}
			kind := ""
			if len(args) == 1 {
				if _, ok := lib.Find(args[0]); !ok {
					return errors.New(errors.ErrCodePresetNotFound, "no presets for type %q", args[0])
				}
				kind = args[0]
			}

			model := NewLookPickerModel(lookChoices(lib, kind))
			final, err := tea.NewProgram(model,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.ErrOrStderr()),
			).Run()
			if err != nil {
				return fmt.Errorf("look picker: %w", err)
			}
			picked, ok := final.(LookPickerModel)
			if !ok || picked.Selected == nil {
				return nil
			}

			sel := picked.Selected
			if err := writeStyleTOML(cmd.OutOrStdout(), sel.Style); err != nil {
				return err
			}
			printNextStep(cmd.ErrOrStderr(), "Render it", fmt.Sprintf("emojiqr render DATA --preset %s --look %d", sel.Type, sel.Index))
			return nil
		},
	}
}

// writeStyleTOML encodes cfg in the --config file format.
func writeStyleTOML(w io.Writer, cfg styles.Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
