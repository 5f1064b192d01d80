package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/consalud/herederos-bff/internal/domain/menu"
	"github.com/consalud/herederos-bff/internal/ports"
	"golang.org/x/sync/errgroup"
)

// MenuService resolves the navigation menu for a user's role set. Variant
// menus are data (the gateway's role→element mapping), not separate
// components: one service serves every role.
type MenuService struct {
	gateway ports.ProfileGateway
	appCode string
	logger  *slog.Logger
}

// NewMenuService constructs a MenuService.
func NewMenuService(gateway ports.ProfileGateway, appCode string, logger *slog.Logger) *MenuService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MenuService{gateway: gateway, appCode: appCode, logger: logger}
}

// MenuFor fetches the menu elements for each role concurrently and merges
// them, de-duplicated by element ID, preserving role order. A failed role
// fetch does not abort the siblings; an error is returned only when no
// role produced a menu.
func (s *MenuService) MenuFor(ctx context.Context, roleNames []string) ([]menu.Element, error) {
	if len(roleNames) == 0 {
		return []menu.Element{}, nil
	}

	results := make([][]menu.Element, len(roleNames))
	var mu sync.Mutex

	var g errgroup.Group
	for i, role := range roleNames {
		i, role := i, role
		g.Go(func() error {
			elements, err := s.gateway.GetMenu(ctx, role, s.appCode)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = elements
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()

	merged := make([]menu.Element, 0)
	for _, elements := range results {
		merged = append(merged, elements...)
	}
	merged = menu.Dedupe(merged)

	if len(merged) == 0 && err != nil {
		return nil, err
	}
	if err != nil {
		s.logger.WarnContext(ctx, "partial menu fetch failure", "error", err)
	}
	return merged, nil
}
