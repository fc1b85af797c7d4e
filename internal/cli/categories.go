// internal/cli/categories.go
package cli

import (
	"fmt"
	"strconv"

	"taskdesk/internal/app"
	"taskdesk/internal/domain/category"

	"github.com/spf13/cobra"
)

var categoryHeader = []string{"ID", "NAME", "DESCRIPTION"}

func categoryRow(c category.Category) []string {
	return []string{strconv.FormatInt(c.ID, 10), c.Name, c.Description}
}

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage categories",
	}

	var createName, createDesc string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		RunE: withAuth(opts, func(cmd *cobra.Command, c *app.Container, args []string) error {
			if createName == "" {
				return fmt.Errorf("--name is required")
			}
			cat, err := c.Categories.CreateCategory(cmd.Context(), &category.CreateCategoryData{
				Name:        createName,
				Description: createDesc,
			})
			if err != nil {
				return userError(err)
			}
			return printer{w: cmd.OutOrStdout(), format: opts.output}.print(cat, categoryHeader, [][]string{categoryRow(*cat)})
		}),
	}
	createCmd.Flags().StringVar(&createName, "name", "", "Category name")
	createCmd.Flags().StringVar(&createDesc, "description", "", "Category description")

	var updateName, updateDesc string
	updateCmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
		RunE: withAuth(opts, func(cmd *cobra.Command, c *app.Container, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cur, err := c.Categories.GetCategory(cmd.Context(), id)
			if err != nil {
				return userError(err)
			}

			req := &category.UpdateCategoryData{ID: id, Name: cur.Name, Description: cur.Description}
			if cmd.Flags().Changed("name") {
				req.Name = updateName
			}
			if cmd.Flags().Changed("description") {
				req.Description = updateDesc
			}

			cat, err := c.Categories.UpdateCategory(cmd.Context(), req)
			if err != nil {
				return userError(err)
			}
			return printer{w: cmd.OutOrStdout(), format: opts.output}.print(cat, categoryHeader, [][]string{categoryRow(*cat)})
		}),
	}
	updateCmd.Flags().StringVar(&updateName, "name", "", "Category name")
	updateCmd.Flags().StringVar(&updateDesc, "description", "", "Category description")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List categories",
			RunE: withAuth(opts, func(cmd *cobra.Command, c *app.Container, args []string) error {
				cats, err := c.Categories.GetCategories(cmd.Context())
				if err != nil {
					return userError(err)
				}
				rows := make([][]string, 0, len(cats))
				for _, cat := range cats {
					rows = append(rows, categoryRow(cat))
				}
				return printer{w: cmd.OutOrStdout(), format: opts.output}.print(cats, categoryHeader, rows)
			}),
		},
		&cobra.Command{
			Use:   "get [id]",
			Short: "Show one category",
			Args:  cobra.ExactArgs(1),
			RunE: withAuth(opts, func(cmd *cobra.Command, c *app.Container, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				cat, err := c.Categories.GetCategory(cmd.Context(), id)
				if err != nil {
					return userError(err)
				}
				return printer{w: cmd.OutOrStdout(), format: opts.output}.print(cat, categoryHeader, [][]string{categoryRow(*cat)})
			}),
		},
		createCmd,
		updateCmd,
		&cobra.Command{
			Use:   "delete [id]",
			Short: "Delete a category",
			Args:  cobra.ExactArgs(1),
			RunE: withAuth(opts, func(cmd *cobra.Command, c *app.Container, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := c.Categories.DeleteCategory(cmd.Context(), id); err != nil {
					return userError(err)
				}
				return printer{w: cmd.OutOrStdout(), format: opts.output}.message(fmt.Sprintf("category %d deleted", id), nil)
			}),
		},
	)
	return cmd
}
