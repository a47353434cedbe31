package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"periodical/internal/domain/entity"
	"periodical/internal/usecase/catalog"
)

func newDemoCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Play the Sensors scenario against an empty catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd, c.service(cmd))
		},
	}
}

func runDemo(cmd *cobra.Command, svc *catalog.Service) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	mag, err := svc.CreateMagazine(ctx, "Sensors", "Internet of Things")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "magazine: %s (%s)\n", mag.Name(), mag.Category())

	category := "Science & Technology"
	if _, err := svc.UpdateMagazine(ctx, catalog.UpdateMagazineInput{ID: mag.ID(), Category: &category}); err != nil {
		return err
	}
	fmt.Fprintf(out, "recategorised: %s (%s)\n", mag.Name(), mag.Category())

	author, err := svc.CreateAuthor(ctx, "Alexander O'niel")
	if err != nil {
		return err
	}
	art, err := svc.AddArticle(ctx, catalog.AddArticleInput{
		AuthorID:   author.ID(),
		MagazineID: mag.ID(),
		Title:      "The mind of a programmer",
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "article: %q by %s in %s\n", art.Title(), author.Name(), mag.Name())

	if _, err := svc.RetitleArticle(ctx, art.ID(), "Updated Title"); err != nil {
		return err
	}
	fmt.Fprintf(out, "retitled: %q\n", art.Title())

	err = svc.RenameAuthor(ctx, author.ID(), "Alexander O'niel")
	if !errors.Is(err, entity.ErrImmutableField) {
		return fmt.Errorf("renaming author: want immutable field error, got %v", err)
	}
	fmt.Fprintf(out, "rename rejected: %v\n", err)

	areas, _, err := svc.AuthorTopicAreas(ctx, author.ID())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "topic areas: %v\n", areas)
	return nil
}
