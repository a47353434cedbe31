package seed

import (
	"context"
	"fmt"

	"periodical/internal/domain/entity"
	"periodical/internal/usecase/catalog"
)

// Report is a YAML-friendly view of every derived query in a catalog.
// Nil slices in the optional fields mean "no data".
type Report struct {
	Authors   []AuthorReport   `yaml:"authors"`
	Magazines []MagazineReport `yaml:"magazines"`
}

// AuthorReport holds the derived queries of one author.
type AuthorReport struct {
	Name       string   `yaml:"name"`
	Articles   []string `yaml:"articles"`
	Magazines  []string `yaml:"magazines"`
	TopicAreas []string `yaml:"topic_areas"`
}

// MagazineReport holds the derived queries of one magazine.
type MagazineReport struct {
	Name                string   `yaml:"name"`
	Category            string   `yaml:"category"`
	Contributors        []string `yaml:"contributors"`
	ArticleTitles       []string `yaml:"article_titles"`
	ContributingAuthors []string `yaml:"contributing_authors"`
}

// BuildReport runs every derived query for every author and magazine in svc.
func BuildReport(ctx context.Context, svc *catalog.Service) (*Report, error) {
	reg := svc.Registry()
	rep := &Report{
		Authors:   make([]AuthorReport, 0),
		Magazines: make([]MagazineReport, 0),
	}

	for _, a := range reg.Authors() {
		arts, err := svc.AuthorArticles(ctx, a.ID())
		if err != nil {
			return nil, fmt.Errorf("author %s articles: %w", a.ID(), err)
		}
		mags, err := svc.AuthorMagazines(ctx, a.ID())
		if err != nil {
			return nil, fmt.Errorf("author %s magazines: %w", a.ID(), err)
		}
		areas, _, err := svc.AuthorTopicAreas(ctx, a.ID())
		if err != nil {
			return nil, fmt.Errorf("author %s topic areas: %w", a.ID(), err)
		}
		rep.Authors = append(rep.Authors, AuthorReport{
			Name:       a.Name(),
			Articles:   titles(arts),
			Magazines:  names(mags, (*entity.Magazine).Name),
			TopicAreas: areas,
		})
	}

	for _, m := range reg.Magazines() {
		contributors, err := svc.MagazineContributors(ctx, m.ID())
		if err != nil {
			return nil, fmt.Errorf("magazine %s contributors: %w", m.ID(), err)
		}
		articleTitles, _, err := svc.MagazineArticleTitles(ctx, m.ID())
		if err != nil {
			return nil, fmt.Errorf("magazine %s titles: %w", m.ID(), err)
		}
		contributing, _, err := svc.MagazineContributingAuthors(ctx, m.ID())
		if err != nil {
			return nil, fmt.Errorf("magazine %s contributing authors: %w", m.ID(), err)
		}
		rep.Magazines = append(rep.Magazines, MagazineReport{
			Name:                m.Name(),
			Category:            m.Category(),
			Contributors:        names(contributors, (*entity.Author).Name),
			ArticleTitles:       articleTitles,
			ContributingAuthors: names(contributing, (*entity.Author).Name),
		})
	}
	return rep, nil
}

func titles(arts []*entity.Article) []string {
	return names(arts, (*entity.Article).Title)
}

// names maps es through name. A nil input stays nil.
func names[E any](es []E, name func(E) string) []string {
	if es == nil {
		return nil
	}
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = name(e)
	}
	return out
}
