// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package faction

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ServiceConfig holds dependencies for Service.
type ServiceConfig struct {
	Hierarchies HierarchyRepository
	Ideologies  IdeologyRepository
	Leaders     LeaderRepository
	Memberships MembershipRepository
	Resources   ResourceRepository
	Territories TerritoryRepository

	Succession SuccessionStrategy // defaults to NopSuccession
	Offsets    OffsetSource       // defaults to RandomOffsets
	Now        func() time.Time   // defaults to time.Now
	Logger     *slog.Logger       // defaults to slog.Default
}

// Service provides the faction system's business operations on top of
// the six repositories. Every operation executes synchronously to
// completion; cross-store flows are not transactional and callers must
// tolerate partial completion.
type Service struct {
	hierarchies HierarchyRepository
	ideologies  IdeologyRepository
	leaders     LeaderRepository
	memberships MembershipRepository
	resources   ResourceRepository
	territories TerritoryRepository

	succession SuccessionStrategy
	offsets    OffsetSource
	now        func() time.Time
	logger     *slog.Logger
}

// NewService creates a new Service with the given configuration.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		hierarchies: cfg.Hierarchies,
		ideologies:  cfg.Ideologies,
		leaders:     cfg.Leaders,
		memberships: cfg.Memberships,
		resources:   cfg.Resources,
		territories: cfg.Territories,
		succession:  cfg.Succession,
		offsets:     cfg.Offsets,
		now:         cfg.Now,
		logger:      cfg.Logger,
	}
	if s.succession == nil {
		s.succession = NopSuccession{}
	}
	if s.offsets == nil {
		s.offsets = RandomOffsets{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// statusOf maps an operation error to a metrics status label.
func statusOf(err error) string {
	var (
		validationErr *ValidationError
		ruleErr       *BusinessRuleError
		cycleErr      *CircularDependencyError
	)
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	case errors.As(err, &validationErr), errors.As(err, &ruleErr), errors.As(err, &cycleErr):
		return StatusRejected
	default:
		return StatusError
	}
}

// observe starts timing one store operation and returns a completion
// callback recording the counter and duration metrics.
func observe(store, operation string) func(status string) {
	start := time.Now()
	return func(status string) {
		RecordOperation(store, operation, status)
		RecordDuration(store, operation, time.Since(start))
	}
}

// --- Hierarchy ---

// SaveHierarchy persists a hierarchy node, running global cycle detection
// when a parent is set.
func (s *Service) SaveHierarchy(ctx context.Context, h *Hierarchy) (err error) {
	done := observe("hierarchy", "save")
	defer func() { done(statusOf(err)) }()
	if err = s.hierarchies.Save(ctx, h); err != nil {
		return oops.Wrapf(err, "save hierarchy for faction %s", h.FactionID)
	}
	return nil
}

// GetHierarchy retrieves a hierarchy node by ID.
func (s *Service) GetHierarchy(ctx context.Context, tenantID string, id ulid.ULID) (h *Hierarchy, err error) {
	done := observe("hierarchy", "find_by_id")
	defer func() { done(statusOf(err)) }()
	h, err = s.hierarchies.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, oops.Wrapf(err, "get hierarchy %s", id)
	}
	return h, nil
}

// ListHierarchiesByWorld returns hierarchy nodes in insertion order.
func (s *Service) ListHierarchiesByWorld(ctx context.Context, tenantID string, worldID ulid.ULID, page Page) (hs []*Hierarchy, err error) {
	done := observe("hierarchy", "list_by_world")
	defer func() { done(statusOf(err)) }()
	hs, err = s.hierarchies.ListByWorld(ctx, tenantID, worldID, page)
	if err != nil {
		return nil, oops.Wrapf(err, "list hierarchies in world %s", worldID)
	}
	return hs, nil
}

// DeleteHierarchy removes a hierarchy node. Nodes still referenced as a
// parent are protected by the repository.
func (s *Service) DeleteHierarchy(ctx context.Context, tenantID string, id ulid.ULID) (err error) {
	done := observe("hierarchy", "delete")
	defer func() { done(statusOf(err)) }()
	if err = s.hierarchies.Delete(ctx, tenantID, id); err != nil {
		return oops.Wrapf(err, "delete hierarchy %s", id)
	}
	return nil
}

// GetFactionTree returns the subtree below the root faction.
func (s *Service) GetFactionTree(ctx context.Context, tenantID string, rootFactionID ulid.ULID) (tree *FactionTree, err error) {
	done := observe("hierarchy", "faction_tree")
	defer func() { done(statusOf(err)) }()
	tree, err = s.hierarchies.FactionTree(ctx, tenantID, rootFactionID)
	if err != nil {
		return nil, oops.Wrapf(err, "build faction tree from %s", rootFactionID)
	}
	return tree, nil
}

// CalculateInfluence computes the influence score for a hierarchy node
// from its cached rollup counts. The score is returned, not persisted;
// callers store it through SaveHierarchy.
func (s *Service) CalculateInfluence(ctx context.Context, tenantID string, id ulid.ULID) (score float64, err error) {
	done := observe("hierarchy", "calculate_influence")
	defer func() { done(statusOf(err)) }()
	h, err := s.hierarchies.FindByID(ctx, tenantID, id)
	if err != nil {
		return 0, oops.Wrapf(err, "calculate influence for hierarchy %s", id)
	}
	return h.CalculateInfluence(), nil
}

// --- Ideology ---

// SaveIdeology persists an ideology.
func (s *Service) SaveIdeology(ctx context.Context, i *Ideology) (err error) {
	done := observe("ideology", "save")
	defer func() { done(statusOf(err)) }()
	if err = s.ideologies.Save(ctx, i); err != nil {
		return oops.Wrapf(err, "save ideology %q", i.Name)
	}
	return nil
}

// GetIdeology retrieves an ideology by ID.
func (s *Service) GetIdeology(ctx context.Context, tenantID string, id ulid.ULID) (i *Ideology, err error) {
	done := observe("ideology", "find_by_id")
	defer func() { done(statusOf(err)) }()
	i, err = s.ideologies.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, oops.Wrapf(err, "get ideology %s", id)
	}
	return i, nil
}

// ListIdeologiesByWorld returns ideologies in insertion order.
func (s *Service) ListIdeologiesByWorld(ctx context.Context, tenantID string, worldID ulid.ULID, page Page) (is []*Ideology, err error) {
	done := observe("ideology", "list_by_world")
	defer func() { done(statusOf(err)) }()
	is, err = s.ideologies.ListByWorld(ctx, tenantID, worldID, page)
	if err != nil {
		return nil, oops.Wrapf(err, "list ideologies in world %s", worldID)
	}
	return is, nil
}

// DeleteIdeology removes an ideology.
func (s *Service) DeleteIdeology(ctx context.Context, tenantID string, id ulid.ULID) (err error) {
	done := observe("ideology", "delete")
	defer func() { done(statusOf(err)) }()
	if err = s.ideologies.Delete(ctx, tenantID, id); err != nil {
		return oops.Wrapf(err, "delete ideology %s", id)
	}
	return nil
}

// CheckCompatibility reports whether two ideologies can ally. The result
// is symmetric in its arguments.
func (s *Service) CheckCompatibility(ctx context.Context, tenantID string, idA, idB ulid.ULID) (ok bool, err error) {
	done := observe("ideology", "check_compatibility")
	defer func() { done(statusOf(err)) }()
	a, err := s.ideologies.FindByID(ctx, tenantID, idA)
	if err != nil {
		return false, oops.Wrapf(err, "get ideology %s", idA)
	}
	b, err := s.ideologies.FindByID(ctx, tenantID, idB)
	if err != nil {
		return false, oops.Wrapf(err, "get ideology %s", idB)
	}
	return Compatible(a, b), nil
}

// GetIdeologyRules projects an ideology's rules into a read-only view.
// A missing ideology yields an empty view, not an error.
func (s *Service) GetIdeologyRules(ctx context.Context, tenantID string, id ulid.ULID) (view RulesView, err error) {
	done := observe("ideology", "get_rules")
	defer func() { done(statusOf(err)) }()
	i, err := s.ideologies.FindByID(ctx, tenantID, id)
	if errors.Is(err, ErrNotFound) {
		return RulesView{}, nil
	}
	if err != nil {
		return RulesView{}, oops.Wrapf(err, "get ideology rules %s", id)
	}
	return i.RulesView(), nil
}

// --- Leader ---

// AppointLeader constructs and saves a new leader record. It does not
// revoke a prior leader; succession orchestration removes the old record
// explicitly through RemoveLeader.
func (s *Service) AppointLeader(ctx context.Context, tenantID string, worldID, factionID, characterID ulid.ULID, authorityLevel int) (l *Leader, err error) {
	done := observe("leader", "appoint")
	defer func() { done(statusOf(err)) }()
	if authorityLevel < MinAuthorityLevel || authorityLevel > MaxAuthorityLevel {
		return nil, &ValidationError{Field: "authority_level", Message: "must be between 1 and 10"}
	}
	l = &Leader{
		TenantID:       tenantID,
		WorldID:        worldID,
		FactionID:      factionID,
		CharacterID:    characterID,
		AuthorityLevel: authorityLevel,
		StartDate:      s.now(),
	}
	if err = s.leaders.Save(ctx, l); err != nil {
		return nil, oops.Wrapf(err, "appoint leader for faction %s", factionID)
	}
	s.logger.Info("leader appointed",
		"tenant", tenantID,
		"faction_id", factionID.String(),
		"character_id", characterID.String(),
		"authority_level", authorityLevel)
	return l, nil
}

// SaveLeader persists a leader record.
func (s *Service) SaveLeader(ctx context.Context, l *Leader) (err error) {
	done := observe("leader", "save")
	defer func() { done(statusOf(err)) }()
	if err = s.leaders.Save(ctx, l); err != nil {
		return oops.Wrapf(err, "save leader for faction %s", l.FactionID)
	}
	return nil
}

// GetLeader retrieves a leader record by ID.
func (s *Service) GetLeader(ctx context.Context, tenantID string, id ulid.ULID) (l *Leader, err error) {
	done := observe("leader", "find_by_id")
	defer func() { done(statusOf(err)) }()
	l, err = s.leaders.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, oops.Wrapf(err, "get leader %s", id)
	}
	return l, nil
}

// ListLeadersByFaction returns a faction's leader records in insertion order.
func (s *Service) ListLeadersByFaction(ctx context.Context, tenantID string, factionID ulid.ULID, page Page) (ls []*Leader, err error) {
	done := observe("leader", "list_by_faction")
	defer func() { done(statusOf(err)) }()
	ls, err = s.leaders.ListByFaction(ctx, tenantID, factionID, page)
	if err != nil {
		return nil, oops.Wrapf(err, "list leaders of faction %s", factionID)
	}
	return ls, nil
}

// ListLeadersByWorld returns leader records in insertion order.
func (s *Service) ListLeadersByWorld(ctx context.Context, tenantID string, worldID ulid.ULID, page Page) (ls []*Leader, err error) {
	done := observe("leader", "list_by_world")
	defer func() { done(statusOf(err)) }()
	ls, err = s.leaders.ListByWorld(ctx, tenantID, worldID, page)
	if err != nil {
		return nil, oops.Wrapf(err, "list leaders in world %s", worldID)
	}
	return ls, nil
}

// RemoveLeader deletes a leader record and triggers succession. The
// repository rejects removing a faction's last leader. Succession runs
// after the delete has committed; a strategy failure leaves the delete
// in place and is reported to the caller.
func (s *Service) RemoveLeader(ctx context.Context, tenantID string, id ulid.ULID) (err error) {
	done := observe("leader", "remove")
	defer func() { done(statusOf(err)) }()
	l, err := s.leaders.FindByID(ctx, tenantID, id)
	if err != nil {
		return oops.Wrapf(err, "get leader %s", id)
	}
	if err = s.leaders.Delete(ctx, tenantID, id); err != nil {
		return oops.Wrapf(err, "delete leader %s", id)
	}

	successor, ok, serr := s.succession.ChooseSuccessor(ctx, tenantID, l.FactionID)
	if serr != nil {
		// The delete has already committed; surface the strategy failure
		// without attempting a rollback.
		return oops.With("faction_id", l.FactionID.String()).
			Wrapf(serr, "succession after removing leader %s", id)
	}
	if !ok {
		s.logger.Debug("succession strategy named no successor",
			"tenant", tenantID, "faction_id", l.FactionID.String())
		return nil
	}
	if _, err = s.AppointLeader(ctx, tenantID, l.WorldID, l.FactionID, successor, l.AuthorityLevel); err != nil {
		return oops.Wrapf(err, "appoint successor for faction %s", l.FactionID)
	}
	return nil
}

// CheckLeaderAuthority reports whether the leader exists and meets the
// required authority level. A missing leader is simply false.
func (s *Service) CheckLeaderAuthority(ctx context.Context, tenantID string, leaderID ulid.ULID, requiredLevel int) (ok bool, err error) {
	done := observe("leader", "check_authority")
	defer func() { done(statusOf(err)) }()
	l, err := s.leaders.FindByID(ctx, tenantID, leaderID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, oops.Wrapf(err, "get leader %s", leaderID)
	}
	return l.HasAuthority(requiredLevel), nil
}

// --- Membership ---

// SaveMembership persists a membership.
func (s *Service) SaveMembership(ctx context.Context, m *Membership) (err error) {
	done := observe("membership", "save")
	defer func() { done(statusOf(err)) }()
	if err = s.memberships.Save(ctx, m); err != nil {
		return oops.Wrapf(err, "save membership for character %s", m.CharacterID)
	}
	return nil
}

// GetMembership retrieves a membership by ID.
func (s *Service) GetMembership(ctx context.Context, tenantID string, id ulid.ULID) (m *Membership, err error) {
	done := observe("membership", "find_by_id")
	defer func() { done(statusOf(err)) }()
	m, err = s.memberships.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, oops.Wrapf(err, "get membership %s", id)
	}
	return m, nil
}

// ListMembershipsByFaction returns a faction's memberships in insertion order.
func (s *Service) ListMembershipsByFaction(ctx context.Context, tenantID string, factionID ulid.ULID, page Page) (ms []*Membership, err error) {
	done := observe("membership", "list_by_faction")
	defer func() { done(statusOf(err)) }()
	ms, err = s.memberships.ListByFaction(ctx, tenantID, factionID, page)
	if err != nil {
		return nil, oops.Wrapf(err, "list memberships of faction %s", factionID)
	}
	return ms, nil
}

// ListMembershipsByCharacter returns a character's memberships in insertion order.
func (s *Service) ListMembershipsByCharacter(ctx context.Context, tenantID string, characterID ulid.ULID, page Page) (ms []*Membership, err error) {
	done := observe("membership", "list_by_character")
	defer func() { done(statusOf(err)) }()
	ms, err = s.memberships.ListByCharacter(ctx, tenantID, characterID, page)
	if err != nil {
		return nil, oops.Wrapf(err, "list memberships of character %s", characterID)
	}
	return ms, nil
}

// DeleteMembership removes a membership. Leader-role memberships are
// protected by the repository and must go through leader succession.
func (s *Service) DeleteMembership(ctx context.Context, tenantID string, id ulid.ULID) (err error) {
	done := observe("membership", "delete")
	defer func() { done(statusOf(err)) }()
	if err = s.memberships.Delete(ctx, tenantID, id); err != nil {
		return oops.Wrapf(err, "delete membership %s", id)
	}
	return nil
}

// PromoteMember reassigns a membership's role. No rank-ordering check is
// applied: arbitrary reassignment is allowed for GM override scenarios.
func (s *Service) PromoteMember(ctx context.Context, tenantID string, id ulid.ULID, newRole Role) error {
	return s.setRole(ctx, tenantID, id, newRole, "promote")
}

// DemoteMember reassigns a membership's role, with the same GM-override
// semantics as PromoteMember.
func (s *Service) DemoteMember(ctx context.Context, tenantID string, id ulid.ULID, newRole Role) error {
	return s.setRole(ctx, tenantID, id, newRole, "demote")
}

func (s *Service) setRole(ctx context.Context, tenantID string, id ulid.ULID, newRole Role, operation string) (err error) {
	done := observe("membership", operation)
	defer func() { done(statusOf(err)) }()
	if err = newRole.Validate(); err != nil {
		return err
	}
	m, err := s.memberships.FindByID(ctx, tenantID, id)
	if err != nil {
		return oops.Wrapf(err, "get membership %s", id)
	}
	m.Role = newRole
	if err = s.memberships.Save(ctx, m); err != nil {
		return oops.Wrapf(err, "%s membership %s", operation, id)
	}
	return nil
}

// BanMember sets a membership to the banned role for durationDays. Bans
// are not lifted automatically; callers compare BanEndDate to the clock.
func (s *Service) BanMember(ctx context.Context, tenantID string, id ulid.ULID, reason string, durationDays int) (err error) {
	done := observe("membership", "ban")
	defer func() { done(statusOf(err)) }()
	if durationDays <= 0 {
		return &ValidationError{Field: "duration_days", Message: "must be positive"}
	}
	m, err := s.memberships.FindByID(ctx, tenantID, id)
	if err != nil {
		return oops.Wrapf(err, "get membership %s", id)
	}
	end := s.now().AddDate(0, 0, durationDays)
	m.Role = RoleBanned
	m.BanReason = reason
	m.BanEndDate = &end
	if err = s.memberships.Save(ctx, m); err != nil {
		return oops.Wrapf(err, "ban membership %s", id)
	}
	s.logger.Info("member banned",
		"tenant", tenantID,
		"membership_id", id.String(),
		"ban_end", end,
		"reason", reason)
	return nil
}

// --- Resource ---

// SaveResource persists a resource ledger entry.
func (s *Service) SaveResource(ctx context.Context, r *Resource) (err error) {
	done := observe("resource", "save")
	defer func() { done(statusOf(err)) }()
	if err = s.resources.Save(ctx, r); err != nil {
		return oops.Wrapf(err, "save resource for faction %s", r.FactionID)
	}
	return nil
}

// GetResource retrieves a resource ledger entry by ID.
func (s *Service) GetResource(ctx context.Context, tenantID string, id ulid.ULID) (r *Resource, err error) {
	done := observe("resource", "find_by_id")
	defer func() { done(statusOf(err)) }()
	r, err = s.resources.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, oops.Wrapf(err, "get resource %s", id)
	}
	return r, nil
}

// ListResourcesByFaction returns a faction's ledger entries in insertion order.
func (s *Service) ListResourcesByFaction(ctx context.Context, tenantID string, factionID ulid.ULID, page Page) (rs []*Resource, err error) {
	done := observe("resource", "list_by_faction")
	defer func() { done(statusOf(err)) }()
	rs, err = s.resources.ListByFaction(ctx, tenantID, factionID, page)
	if err != nil {
		return nil, oops.Wrapf(err, "list resources of faction %s", factionID)
	}
	return rs, nil
}

// ListResourcesByWorld returns ledger entries in insertion order.
func (s *Service) ListResourcesByWorld(ctx context.Context, tenantID string, worldID ulid.ULID, page Page) (rs []*Resource, err error) {
	done := observe("resource", "list_by_world")
	defer func() { done(statusOf(err)) }()
	rs, err = s.resources.ListByWorld(ctx, tenantID, worldID, page)
	if err != nil {
		return nil, oops.Wrapf(err, "list resources in world %s", worldID)
	}
	return rs, nil
}

// DeleteResource removes a resource ledger entry.
func (s *Service) DeleteResource(ctx context.Context, tenantID string, id ulid.ULID) (err error) {
	done := observe("resource", "delete")
	defer func() { done(statusOf(err)) }()
	if err = s.resources.Delete(ctx, tenantID, id); err != nil {
		return oops.Wrapf(err, "delete resource %s", id)
	}
	return nil
}

// GenerateResource appends a new ledger entry stamped with the current
// time. Entries of the same type are never merged; aggregation across
// generation events is a caller responsibility.
func (s *Service) GenerateResource(ctx context.Context, tenantID string, worldID, factionID ulid.ULID, resourceType ResourceType, amount float64) (r *Resource, err error) {
	done := observe("resource", "generate")
	defer func() { done(statusOf(err)) }()
	r = &Resource{
		TenantID:    tenantID,
		WorldID:     worldID,
		FactionID:   factionID,
		Type:        resourceType,
		Amount:      amount,
		GeneratedAt: s.now(),
	}
	if err = s.resources.Save(ctx, r); err != nil {
		return nil, oops.Wrapf(err, "generate %s for faction %s", resourceType, factionID)
	}
	return r, nil
}

// TransferResource moves amount between faction ledgers. An insufficient
// or missing source is a soft failure: false is returned and neither
// ledger changes.
func (s *Service) TransferResource(ctx context.Context, tenantID string, fromFactionID, toFactionID, resourceID ulid.ULID, amount float64) (ok bool, err error) {
	done := observe("resource", "transfer")
	defer func() {
		status := statusOf(err)
		if err == nil && !ok {
			status = StatusNoop
		}
		done(status)
	}()
	if amount <= 0 {
		return false, &ValidationError{Field: "amount", Message: "must be positive"}
	}
	ok, err = s.resources.Transfer(ctx, tenantID, fromFactionID, toFactionID, resourceID, amount)
	if err != nil {
		return false, oops.Wrapf(err, "transfer resource %s", resourceID)
	}
	return ok, nil
}

// --- Territory ---

// SaveTerritory persists a territory.
func (s *Service) SaveTerritory(ctx context.Context, t *Territory) (err error) {
	done := observe("territory", "save")
	defer func() { done(statusOf(err)) }()
	if err = s.territories.Save(ctx, t); err != nil {
		return oops.Wrapf(err, "save territory %q", t.Name)
	}
	return nil
}

// GetTerritory retrieves a territory by ID.
func (s *Service) GetTerritory(ctx context.Context, tenantID string, id ulid.ULID) (t *Territory, err error) {
	done := observe("territory", "find_by_id")
	defer func() { done(statusOf(err)) }()
	t, err = s.territories.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, oops.Wrapf(err, "get territory %s", id)
	}
	return t, nil
}

// ListTerritoriesByFaction returns a faction's territories in insertion order.
func (s *Service) ListTerritoriesByFaction(ctx context.Context, tenantID string, factionID ulid.ULID, page Page) (ts []*Territory, err error) {
	done := observe("territory", "list_by_faction")
	defer func() { done(statusOf(err)) }()
	ts, err = s.territories.ListByFaction(ctx, tenantID, factionID, page)
	if err != nil {
		return nil, oops.Wrapf(err, "list territories of faction %s", factionID)
	}
	return ts, nil
}

// ListTerritoriesByWorld returns territories in insertion order.
func (s *Service) ListTerritoriesByWorld(ctx context.Context, tenantID string, worldID ulid.ULID, page Page) (ts []*Territory, err error) {
	done := observe("territory", "list_by_world")
	defer func() { done(statusOf(err)) }()
	ts, err = s.territories.ListByWorld(ctx, tenantID, worldID, page)
	if err != nil {
		return nil, oops.Wrapf(err, "list territories in world %s", worldID)
	}
	return ts, nil
}

// DeleteTerritory removes a territory.
func (s *Service) DeleteTerritory(ctx context.Context, tenantID string, id ulid.ULID) (err error) {
	done := observe("territory", "delete")
	defer func() { done(statusOf(err)) }()
	if err = s.territories.Delete(ctx, tenantID, id); err != nil {
		return oops.Wrapf(err, "delete territory %s", id)
	}
	return nil
}

// ClaimTerritory assigns a territory to a new owner. Claiming a territory
// the faction already owns is a soft no-op returning false.
func (s *Service) ClaimTerritory(ctx context.Context, tenantID string, territoryID, newOwnerID ulid.ULID, influenceCost float64) (ok bool, err error) {
	done := observe("territory", "claim")
	defer func() {
		status := statusOf(err)
		if err == nil && !ok {
			status = StatusNoop
		}
		done(status)
	}()
	ok, err = s.territories.Claim(ctx, tenantID, territoryID, newOwnerID, influenceCost)
	if err != nil {
		return false, oops.Wrapf(err, "claim territory %s", territoryID)
	}
	if ok {
		s.logger.Info("territory claimed",
			"tenant", tenantID,
			"territory_id", territoryID.String(),
			"owner_id", newOwnerID.String(),
			"influence_cost", influenceCost)
	}
	return ok, nil
}

// ResolveConflict rolls a conquest attempt against a territory. The
// attacker wins on a strictly higher attack strength and takes ownership;
// a strictly lower roll leaves the defender in place (soft false); an
// exact tie clears the territory to neutral. The resulting owner change
// persists through the same save path as other mutations.
func (s *Service) ResolveConflict(ctx context.Context, tenantID string, territoryID, attackerID ulid.ULID, defenseStrength int) (outcome ConflictOutcome, err error) {
	done := observe("territory", "resolve_conflict")
	defer func() { done(statusOf(err)) }()
	t, err := s.territories.FindByID(ctx, tenantID, territoryID)
	if err != nil {
		return DefenderHolds, oops.Wrapf(err, "get territory %s", territoryID)
	}

	offset := s.offsets.ConquestOffset()
	outcome = ResolveConflict(defenseStrength, offset)
	RecordConflictOutcome(outcome)
	s.logger.Info("territory conflict resolved",
		"tenant", tenantID,
		"territory_id", territoryID.String(),
		"attacker_id", attackerID.String(),
		"defense_strength", defenseStrength,
		"offset", offset,
		"outcome", outcome.String())

	switch outcome {
	case AttackerWins:
		owner := attackerID
		t.OwnerFaction = &owner
		t.ControlLevel = 1
	case TerritoryNeutralized:
		t.OwnerFaction = nil
		t.ControlLevel = 0
	case DefenderHolds:
		return DefenderHolds, nil
	}
	if err = s.territories.Save(ctx, t); err != nil {
		return outcome, oops.Wrapf(err, "persist conflict outcome for territory %s", territoryID)
	}
	return outcome, nil
}

// FactionTerritorySummary aggregates territory count and total area for a
// faction. Border computation is an unimplemented extension point; the
// set is always empty.
func (s *Service) FactionTerritorySummary(ctx context.Context, tenantID string, factionID ulid.ULID) (sum *TerritorySummary, err error) {
	done := observe("territory", "summary")
	defer func() { done(statusOf(err)) }()
	ts, err := s.territories.ListByFaction(ctx, tenantID, factionID, Page{})
	if err != nil {
		return nil, oops.Wrapf(err, "list territories of faction %s", factionID)
	}
	sum = &TerritorySummary{FactionID: factionID}
	for _, t := range ts {
		sum.TerritoryCount++
		sum.TotalArea += t.Area
	}
	return sum, nil
}
