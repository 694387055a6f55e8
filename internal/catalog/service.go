package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service coordinates catalog operations.
type Service struct {
	repo *Repository
}

// NewService constructs Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// ListParties returns all parties.
func (s *Service) ListParties(ctx context.Context) ([]Party, error) {
	return s.repo.ListParties(ctx)
}

// GetParty returns one party.
func (s *Service) GetParty(ctx context.Context, id string) (Party, error) {
	return s.repo.GetParty(ctx, id)
}

// CreateParty stores a new party. No two parties may share the same
// (name, station) pair, compared case-insensitively.
func (s *Service) CreateParty(ctx context.Context, party Party) (Party, error) {
	if strings.TrimSpace(party.Name) == "" {
		return Party{}, fmt.Errorf("%w: party name is required", ErrInvalidInput)
	}
	existing, err := s.repo.ListParties(ctx)
	if err != nil {
		return Party{}, err
	}
	for _, other := range existing {
		if strings.EqualFold(other.Name, party.Name) && strings.EqualFold(other.Station, party.Station) {
			return Party{}, ErrDuplicateParty
		}
	}
	if party.ID == "" {
		party.ID = uuid.NewString()
	}
	if party.PriceList == nil {
		party.PriceList = make(map[string]float64)
	}
	if err := s.repo.PutParty(ctx, party); err != nil {
		return Party{}, err
	}
	return party, nil
}

// UpdateParty overwrites an existing party.
func (s *Service) UpdateParty(ctx context.Context, id string, party Party) (Party, error) {
	if _, err := s.repo.GetParty(ctx, id); err != nil {
		return Party{}, err
	}
	party.ID = id
	if party.PriceList == nil {
		party.PriceList = make(map[string]float64)
	}
	if err := s.repo.PutParty(ctx, party); err != nil {
		return Party{}, err
	}
	return party, nil
}

// DeleteParty removes a party.
func (s *Service) DeleteParty(ctx context.Context, id string) error {
	return s.repo.DeleteParty(ctx, id)
}

// FindPartyByName resolves a party by case-insensitive name match.
func (s *Service) FindPartyByName(ctx context.Context, name string) (Party, bool, error) {
	parties, err := s.repo.ListParties(ctx)
	if err != nil {
		return Party{}, false, err
	}
	for _, party := range parties {
		if strings.EqualFold(party.Name, name) {
			return party, true, nil
		}
	}
	return Party{}, false, nil
}

// MergePartyPrices folds per-group manual prices into the named party's
// price list under lowercased group keys. Unknown parties are a no-op.
func (s *Service) MergePartyPrices(ctx context.Context, partyName string, prices map[string]float64) error {
	if len(prices) == 0 {
		return nil
	}
	party, ok, err := s.FindPartyByName(ctx, partyName)
	if err != nil || !ok {
		return err
	}
	if party.PriceList == nil {
		party.PriceList = make(map[string]float64, len(prices))
	}
	for group, price := range prices {
		party.PriceList[strings.ToLower(group)] = price
	}
	return s.repo.PutParty(ctx, party)
}

// ListItems returns all items.
func (s *Service) ListItems(ctx context.Context) ([]Item, error) {
	return s.repo.ListItems(ctx)
}

// GetItem returns one item.
func (s *Service) GetItem(ctx context.Context, id string) (Item, error) {
	return s.repo.GetItem(ctx, id)
}

// CreateItem stores a new item.
func (s *Service) CreateItem(ctx context.Context, item Item) (Item, error) {
	if strings.TrimSpace(item.Name) == "" {
		return Item{}, fmt.Errorf("%w: item name is required", ErrInvalidInput)
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if err := s.repo.PutItem(ctx, item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// UpdateItem overwrites an existing item.
func (s *Service) UpdateItem(ctx context.Context, id string, item Item) (Item, error) {
	if _, err := s.repo.GetItem(ctx, id); err != nil {
		return Item{}, err
	}
	item.ID = id
	if err := s.repo.PutItem(ctx, item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// DeleteItem removes an item.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	return s.repo.DeleteItem(ctx, id)
}

// FindItemByName resolves an item by case-insensitive name match.
func (s *Service) FindItemByName(ctx context.Context, name string) (Item, bool, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return Item{}, false, err
	}
	for _, item := range items {
		if strings.EqualFold(item.Name, name) {
			return item, true, nil
		}
	}
	return Item{}, false, nil
}

// AdjustBalanceByID adds delta to the item's running balance.
func (s *Service) AdjustBalanceByID(ctx context.Context, id string, delta float64) error {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return err
	}
	item.Balance += delta
	return s.repo.PutItem(ctx, item)
}

// AdjustBalanceByName adds delta to the balance of the item resolved by
// case-insensitive name. Returns false when no item matches; that is not
// an error.
func (s *Service) AdjustBalanceByName(ctx context.Context, name string, delta float64) (bool, error) {
	item, ok, err := s.FindItemByName(ctx, name)
	if err != nil || !ok {
		return false, err
	}
	item.Balance += delta
	if err := s.repo.PutItem(ctx, item); err != nil {
		return false, err
	}
	return true, nil
}

// ListGroups returns all item groups.
func (s *Service) ListGroups(ctx context.Context) ([]ItemGroup, error) {
	return s.repo.ListGroups(ctx)
}

// CreateGroup stores a new item group.
func (s *Service) CreateGroup(ctx context.Context, group ItemGroup) (ItemGroup, error) {
	if strings.TrimSpace(group.Name) == "" {
		return ItemGroup{}, fmt.Errorf("%w: group name is required", ErrInvalidInput)
	}
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	if err := s.repo.PutGroup(ctx, group); err != nil {
		return ItemGroup{}, err
	}
	return group, nil
}

// DeleteGroup removes an item group.
func (s *Service) DeleteGroup(ctx context.Context, id string) error {
	return s.repo.DeleteGroup(ctx, id)
}
