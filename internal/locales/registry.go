package locales

import (
	"context"
	"errors"
	"slices"
)

// ErrNoActiveLanguages is returned when a registry has no active language.
var ErrNoActiveLanguages = errors.New("locales: no active languages")

// Registry lists the languages enabled for content, in registry order.
type Registry interface {
	ActiveLanguages(ctx context.Context) ([]string, error)
}

// StaticRegistry serves a fixed language list, typically from configuration.
type StaticRegistry struct {
	codes []string
}

// NewStaticRegistry normalizes codes and drops blanks and duplicates.
func NewStaticRegistry(codes ...string) *StaticRegistry {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = normalizeCode(code)
		if code == "" || slices.Contains(out, code) {
			continue
		}
		out = append(out, code)
	}
	return &StaticRegistry{codes: out}
}

func (r *StaticRegistry) ActiveLanguages(context.Context) ([]string, error) {
	if len(r.codes) == 0 {
		return nil, ErrNoActiveLanguages
	}
	return slices.Clone(r.codes), nil
}

// RepositoryRegistry reads active locales from a LocaleRepository.
type RepositoryRegistry struct {
	repo LocaleRepository
}

func NewRepositoryRegistry(repo LocaleRepository) *RepositoryRegistry {
	return &RepositoryRegistry{repo: repo}
}

// ActiveLanguages returns active codes ordered by position, the default
// locale first when one is flagged.
func (r *RepositoryRegistry) ActiveLanguages(ctx context.Context) ([]string, error) {
	records, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var (
		def   string
		codes []string
	)
	for _, record := range records {
		if !record.IsActive {
			continue
		}
		if record.IsDefault && def == "" {
			def = record.Code
		}
		codes = append(codes, record.Code)
	}
	if len(codes) == 0 {
		return nil, ErrNoActiveLanguages
	}
	if def != "" {
		return Prioritize(codes, def), nil
	}
	return codes, nil
}

// Seed upserts one active locale per code, in order, marking defaultCode.
func Seed(ctx context.Context, repo LocaleRepository, defaultCode string, codes ...string) error {
	defaultCode = normalizeCode(defaultCode)
	for i, code := range NewStaticRegistry(codes...).codes {
		if _, err := repo.Upsert(ctx, &Locale{
			Code:      code,
			IsActive:  true,
			IsDefault: code == defaultCode,
			Position:  i,
		}); err != nil {
			return err
		}
	}
	return nil
}
