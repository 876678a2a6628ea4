package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/recipe-decider/internal/cli"
	"github.com/aretw0/recipe-decider/internal/presentation/tui"
	"github.com/aretw0/recipe-decider/pkg/controller"
	"github.com/aretw0/recipe-decider/pkg/domain"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show the recipe list and the session view state",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *cli.Client) error {
			tui.RenderSnapshot(cmd.OutOrStdout(), c.Store.Snapshot(), c.Controller.Status())
			return nil
		})
	},
}

var addCmd = &cobra.Command{
	Use:   "add <name> <instructions>",
	Short: "Add a recipe",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *cli.Client) error {
			if err := c.Controller.Add(ctx, args[0], args[1]); err != nil {
				if controller.IsInvalid(err) {
					return errors.New("name and instructions are required")
				}
				return err
			}
			c.Controller.Wait()
			tui.RenderList(cmd.OutOrStdout(), c.Store.Recipes(), c.Store.UI())
			return nil
		})
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <index>",
	Short: "Edit the recipe at index",
	Long:  `Replaces the recipe at index. Fields that are not given keep their current value.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *cli.Client) error {
			if err := c.Controller.BeginEdit(index); err != nil {
				return err
			}
			current := c.Store.Recipes()[index]
			name, instructions := current.Name, current.Instructions
			if cmd.Flags().Changed("name") {
				name, _ = cmd.Flags().GetString("name")
			}
			if cmd.Flags().Changed("instructions") {
				instructions, _ = cmd.Flags().GetString("instructions")
			}

			if err := c.Controller.Submit(ctx, name, instructions); err != nil {
				return err
			}
			c.Controller.Wait()
			tui.RenderList(cmd.OutOrStdout(), c.Store.Recipes(), c.Store.UI())
			return nil
		})
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <index>",
	Short: "Delete the recipe at index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")

		return withClient(cmd, func(ctx context.Context, c *cli.Client) error {
			if err := c.Controller.RequestDelete(index); err != nil {
				return err
			}
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), c.Store.Recipes()[index].Name) {
				c.Controller.CancelDelete()
				cli.PrintSystemMessage(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := c.Controller.ConfirmDelete(ctx); err != nil {
				return err
			}
			c.Controller.Wait()
			tui.RenderList(cmd.OutOrStdout(), c.Store.Recipes(), c.Store.UI())
			return nil
		})
	},
}

var rollCmd = &cobra.Command{
	Use:   "roll",
	Short: "Pick a random recipe",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *cli.Client) error {
			c.Controller.SelectTab(domain.TabRoll)
			if err := c.Controller.Roll(ctx); err != nil {
				return err
			}
			rolled := c.Store.UI().RolledRecipe
			if rolled == nil {
				cli.PrintSystemMessage(cmd.OutOrStdout(), "No recipes to roll. Add one first.")
				return nil
			}

			md := tui.RecipeMarkdown(*rolled)
			if tui.IsTerminal(cmd.OutOrStdout()) {
				if rendered, err := tui.NewRenderer()(md); err == nil {
					md = rendered
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		})
	},
}

var tabCmd = &cobra.Command{
	Use:       "tab [roll|input]",
	Short:     "Show or switch the active tab",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(domain.TabRoll), string(domain.TabInput)},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *cli.Client) error {
			if len(args) == 1 {
				tab, err := domain.ParseTab(args[0])
				if err != nil {
					return err
				}
				c.Controller.SelectTab(tab)
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Store.UI().CurrentTab)
			return nil
		})
	},
}

func parseIndex(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return index, nil
}

// confirm asks a yes/no question; anything but y/yes is a no.
func confirm(in io.Reader, out io.Writer, name string) bool {
	fmt.Fprintf(out, "Delete %q? [y/N] ", name)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	rootCmd.AddCommand(listCmd, addCmd, editCmd, rmCmd, rollCmd, tabCmd)

	editCmd.Flags().String("name", "", "New recipe name")
	editCmd.Flags().String("instructions", "", "New instructions")
	rmCmd.Flags().BoolP("yes", "y", false, "Delete without asking")
}
