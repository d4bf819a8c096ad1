// Package plancatalog загружает тарифы и их лимиты из YAML-файла.
package plancatalog

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/validation"
)

// Catalog - корневой элемент файла тарифов.
type Catalog struct {
	Plans []Plan `yaml:"plans"`
}

// Plan описывает тариф для одного типа пользователя.
type Plan struct {
	Tier             string  `yaml:"tier" validate:"notblank,max=50"`
	UserType         string  `yaml:"user_type" validate:"oneof=client provider both"`
	ResetPeriod      string  `yaml:"reset_period" validate:"oneof=daily weekly monthly yearly never"`
	SearchBoost      bool    `yaml:"search_boost"`
	ProfileHighlight bool    `yaml:"profile_highlight"`
	Price            float64 `yaml:"price" validate:"gte=0"`
	Limits           Limits  `yaml:"limits"`
}

type Limits struct {
	ContactViews Limit `yaml:"contact_views"`
	Proposals    Limit `yaml:"proposals"`
	GigResponses Limit `yaml:"gig_responses"`
}

// Limit - неотрицательное число или строка "unlimited".
type Limit int

func (l *Limit) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("строка %d: лимит должен быть числом или unlimited", value.Line)
	}
	if strings.EqualFold(strings.TrimSpace(value.Value), "unlimited") {
		*l = Limit(entity.UnlimitedQuota)
		return nil
	}
	n, err := strconv.Atoi(value.Value)
	if err != nil || n < 0 {
		return fmt.Errorf("строка %d: некорректный лимит %q", value.Line, value.Value)
	}
	if n > entity.UnlimitedQuota {
		n = entity.UnlimitedQuota
	}
	*l = Limit(n)
	return nil
}

// Load читает и проверяет каталог из файла.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plancatalog: не удалось прочитать %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("plancatalog: некорректный YAML: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// Validate проверяет значения и уникальность пар (тариф, тип пользователя).
func (c *Catalog) Validate() error {
	if len(c.Plans) == 0 {
		return fmt.Errorf("plancatalog: каталог не содержит тарифов")
	}

	v, err := validation.New()
	if err != nil {
		return fmt.Errorf("plancatalog: %w", err)
	}

	seen := make(map[string]struct{}, len(c.Plans))
	for i := range c.Plans {
		p := &c.Plans[i]
		p.Tier = strings.TrimSpace(p.Tier)
		if p.UserType == "" {
			p.UserType = string(valueobject.UserTypeBoth)
		}
		if p.ResetPeriod == "" {
			p.ResetPeriod = string(valueobject.ResetMonthly)
		}
		if err := v.Struct(p); err != nil {
			return fmt.Errorf("plancatalog: тариф #%d (%s): %w", i+1, p.Tier, err)
		}

		key := p.Tier + "/" + p.UserType
		if _, dup := seen[key]; dup {
			return fmt.Errorf("plancatalog: тариф %s для %s описан дважды", p.Tier, p.UserType)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Entities преобразует каталог в доменные лимиты.
func (c *Catalog) Entities() []*entity.PlanLimit {
	limits := make([]*entity.PlanLimit, 0, len(c.Plans))
	for _, p := range c.Plans {
		limits = append(limits, &entity.PlanLimit{
			PlanTier:         p.Tier,
			UserType:         valueobject.UserType(p.UserType),
			ContactViews:     int(p.Limits.ContactViews),
			Proposals:        int(p.Limits.Proposals),
			GigResponses:     int(p.Limits.GigResponses),
			ResetPeriod:      valueobject.ResetPeriod(p.ResetPeriod),
			SearchBoost:      p.SearchBoost,
			ProfileHighlight: p.ProfileHighlight,
			Price:            p.Price,
		})
	}
	return limits
}

// Apply сохраняет все тарифы каталога и возвращает их число.
func (c *Catalog) Apply(ctx context.Context, repo repository.PlanRepository) (int, error) {
	limits := c.Entities()
	for _, limit := range limits {
		if err := repo.Upsert(ctx, limit); err != nil {
			return 0, fmt.Errorf("plancatalog: не удалось сохранить тариф %s/%s: %w", limit.PlanTier, limit.UserType, err)
		}
	}
	return len(limits), nil
}
