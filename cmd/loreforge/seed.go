// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/loreforge/loreforge/internal/faction"
	factionpg "github.com/loreforge/loreforge/internal/faction/postgres"
	"github.com/loreforge/loreforge/internal/store"
)

const defaultSeedTimeout = 30 * time.Second

// defaultSeed is the built-in starter world used when no seed file is
// given.
const defaultSeed = `
tenant: default
world: 01HZN3XS000000000000000000
factions:
  - name: Dawnward Compact
    ideology:
      type: egalitarian
      name: The Open Accord
      description: Power is held in trust for every member, never owned.
    leader:
      authority: 7
    members:
      - role: officer
      - role: member
    resources:
      - type: gold
        amount: 250
      - type: food
        amount: 120
  - name: Ashen Guild
    parent: Dawnward Compact
    ideology:
      type: mercantile
      name: Ledger and Lantern
      description: Every debt repaid, every route mapped, every coin counted.
    leader:
      authority: 5
    resources:
      - type: timber
        amount: 80
territories:
  - name: The Nexus Crossroads
    area: 12.5
  - name: Lanternmere
    owner: Ashen Guild
    area: 4.0
`

type seedFile struct {
	Tenant      string          `yaml:"tenant"`
	World       string          `yaml:"world"`
	Factions    []seedFaction   `yaml:"factions"`
	Territories []seedTerritory `yaml:"territories"`
}

type seedFaction struct {
	Name      string         `yaml:"name"`
	Parent    string         `yaml:"parent"`
	Ideology  *seedIdeology  `yaml:"ideology"`
	Leader    *seedLeader    `yaml:"leader"`
	Members   []seedMember   `yaml:"members"`
	Resources []seedResource `yaml:"resources"`
}

type seedIdeology struct {
	Type        string `yaml:"type"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type seedLeader struct {
	Authority int `yaml:"authority"`
}

type seedMember struct {
	Role string `yaml:"role"`
}

type seedResource struct {
	Type   string  `yaml:"type"`
	Amount float64 `yaml:"amount"`
}

type seedTerritory struct {
	Name  string  `yaml:"name"`
	Owner string  `yaml:"owner"`
	Area  float64 `yaml:"area"`
}

type seedConfig struct {
	file    string
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed a world with initial faction data",
		Long: `Creates initial faction data from a YAML seed file, or a built-in
starter world when none is given. Seeding a world that already has
faction data is skipped, so the command is safe to re-run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.file, "file", "", "YAML seed file (default: built-in starter world)")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	appCfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	seed, err := loadSeed(cfg.file)
	if err != nil {
		return err
	}
	worldID, err := ulid.Parse(seed.World)
	if err != nil {
		return oops.Code("SEED_FAILED").With("world", seed.World).Wrapf(err, "invalid world ID")
	}
	if seed.Tenant == "" {
		return oops.Code("SEED_FAILED").Errorf("seed file must name a tenant")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.NewPool(ctx, appCfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	factions := factionpg.NewStore(pool)
	svc := faction.NewService(factions.ServiceConfig())

	existing, err := svc.ListHierarchiesByWorld(ctx, seed.Tenant, worldID, faction.Page{Limit: 1})
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "check existing data").Wrap(err)
	}
	if len(existing) > 0 {
		cmd.Println("World already seeded, skipping")
		slog.Info("world already seeded", "tenant", seed.Tenant, "world", worldID)
		return nil
	}

	if err := applySeed(ctx, svc, seed, worldID); err != nil {
		return err
	}

	cmd.Println("World seeding complete")
	slog.Info("world seeded", "tenant", seed.Tenant, "world", worldID, "factions", len(seed.Factions))
	return nil
}

func loadSeed(path string) (*seedFile, error) {
	data := []byte(defaultSeed)
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, oops.Code("SEED_FAILED").With("path", path).Wrap(err)
		}
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, oops.Code("SEED_FAILED").With("operation", "parse seed file").Wrap(err)
	}
	return &seed, nil
}

// applySeed creates the seed entities in dependency order: factions
// before children that name them as parents, leaders and memberships
// after their factions.
func applySeed(ctx context.Context, svc *faction.Service, seed *seedFile, worldID ulid.ULID) error {
	ids := faction.NewIDGenerator()
	factionIDs := make(map[string]ulid.ULID, len(seed.Factions))
	for _, f := range seed.Factions {
		if f.Name == "" {
			return oops.Code("SEED_FAILED").Errorf("faction entries must be named")
		}
		factionIDs[f.Name] = ids.Next(seed.Tenant)
	}

	for _, f := range seed.Factions {
		factionID := factionIDs[f.Name]

		h := &faction.Hierarchy{
			TenantID:  seed.Tenant,
			WorldID:   worldID,
			FactionID: factionID,
		}
		if f.Parent != "" {
			parentID, ok := factionIDs[f.Parent]
			if !ok {
				return oops.Code("SEED_FAILED").With("faction", f.Name).
					Errorf("unknown parent faction %q", f.Parent)
			}
			h.ParentFaction = &parentID
		}
		if err := svc.SaveHierarchy(ctx, h); err != nil {
			return oops.Code("SEED_FAILED").With("faction", f.Name).Wrap(err)
		}

		if f.Ideology != nil {
			i := &faction.Ideology{
				TenantID:    seed.Tenant,
				WorldID:     worldID,
				FactionID:   factionID,
				Type:        faction.IdeologyType(f.Ideology.Type),
				Name:        f.Ideology.Name,
				Description: f.Ideology.Description,
			}
			if err := svc.SaveIdeology(ctx, i); err != nil {
				return oops.Code("SEED_FAILED").With("faction", f.Name).Wrap(err)
			}
		}

		if f.Leader != nil {
			characterID := ids.Next(seed.Tenant)
			if _, err := svc.AppointLeader(ctx, seed.Tenant, worldID, factionID, characterID, f.Leader.Authority); err != nil {
				return oops.Code("SEED_FAILED").With("faction", f.Name).Wrap(err)
			}
		}

		for _, m := range f.Members {
			membership := &faction.Membership{
				TenantID:    seed.Tenant,
				WorldID:     worldID,
				FactionID:   factionID,
				CharacterID: ids.Next(seed.Tenant),
				Role:        faction.Role(m.Role),
			}
			if err := svc.SaveMembership(ctx, membership); err != nil {
				return oops.Code("SEED_FAILED").With("faction", f.Name).Wrap(err)
			}
		}

		for _, r := range f.Resources {
			if _, err := svc.GenerateResource(ctx, seed.Tenant, worldID, factionID,
				faction.ResourceType(r.Type), r.Amount); err != nil {
				return oops.Code("SEED_FAILED").With("faction", f.Name).Wrap(err)
			}
		}
	}

	for _, t := range seed.Territories {
		territory := &faction.Territory{
			TenantID: seed.Tenant,
			WorldID:  worldID,
			Name:     t.Name,
			Area:     t.Area,
		}
		if t.Owner != "" {
			ownerID, ok := factionIDs[t.Owner]
			if !ok {
				return oops.Code("SEED_FAILED").With("territory", t.Name).
					Errorf("unknown owner faction %q", t.Owner)
			}
			territory.OwnerFaction = &ownerID
			territory.ControlLevel = 1
		}
		if err := svc.SaveTerritory(ctx, territory); err != nil {
			return oops.Code("SEED_FAILED").With("territory", t.Name).Wrap(err)
		}
	}

	return nil
}
