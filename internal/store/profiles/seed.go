package profiles

import (
	"context"
	"strings"
)

var seedProfiles = []Profile{
	{
		ClientID:              "C101",
		Name:                  "Shah Rukh Khan",
		Address:               "Mannat, Bandra, Mumbai",
		RiskAppetite:          "High",
		InvestmentPreferences: []string{"Entertainment", "Tech"},
	},
	{
		ClientID:              "C102",
		Name:                  "Virat Kohli",
		Address:               "Gurugram, Haryana",
		RiskAppetite:          "Medium",
		InvestmentPreferences: []string{"Apparel", "Fintech", "Health"},
	},
	{
		ClientID:              "C103",
		Name:                  "Priyanka Chopra",
		Address:               "Los Angeles, California",
		RiskAppetite:          "High",
		InvestmentPreferences: []string{"Startups", "Real Estate"},
	},
}

// Seed wipes and reloads the demo profile documents.
func (s *Store) Seed(ctx context.Context) error {
	if err := s.clear(ctx); err != nil {
		return err
	}

	for _, profile := range seedProfiles {
		if err := s.Save(ctx, profile); err != nil {
			return err
		}
	}

	s.logger.Info("profile mock data seeded", map[string]interface{}{
		"profiles": len(seedProfiles),
	})
	return nil
}

// clear removes every document and index entry tracked in the catalog set.
func (s *Store) clear(ctx context.Context) error {
	client := s.rdb.GetClient()

	ids, err := client.SMembers(ctx, allKey).Result()
	if err != nil {
		return err
	}

	for _, id := range ids {
		profile, err := s.getByID(ctx, id)
		if err != nil {
			continue
		}
		if err := s.rdb.Del(ctx,
			clientKeyPrefix+id,
			nameKeyPrefix+strings.ToLower(profile.Name),
		); err != nil {
			return err
		}
		if err := client.SRem(ctx, riskKeyPrefix+profile.RiskAppetite, id).Err(); err != nil {
			return err
		}
	}

	return s.rdb.Del(ctx, allKey)
}
