package catalog

import "fmt"

// Service is a purchasable coaching offering.
type Service struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PriceCents      int64  `json:"price_cents"`
	Kind            Kind   `json:"kind"`
	SessionsPerWeek int    `json:"sessions_per_week"`
}

// Catalog is an in-memory lookup of the services on offer.
type Catalog struct {
	services []Service
	byID     map[string]Service
}

// New builds a catalog from the given services, deriving ids from names.
func New(services []Service) *Catalog {
	c := &Catalog{byID: make(map[string]Service, len(services))}
	for _, svc := range services {
		if svc.ID == "" {
			svc.ID = Slugify(svc.Name)
		}
		c.services = append(c.services, svc)
		c.byID[svc.ID] = svc
	}
	return c
}

// Default returns the academy's standard offerings.
func Default() *Catalog {
	return New([]Service{
		{Name: "Boxing Basics", PriceCents: 12000, Kind: KindPrivate, SessionsPerWeek: 2},
		{Name: "Group Conditioning", PriceCents: 6000, Kind: KindGroup, SessionsPerWeek: 1},
		{Name: "Sparring Fundamentals", PriceCents: 9500, Kind: KindGroup, SessionsPerWeek: 2},
		{Name: "One-on-One Technique", PriceCents: 15000, Kind: KindPrivate, SessionsPerWeek: 1},
	})
}

// Services returns every offering in display order.
func (c *Catalog) Services() []Service {
	out := make([]Service, len(c.services))
	copy(out, c.services)
	return out
}

// Get looks up a service by id.
func (c *Catalog) Get(id string) (Service, error) {
	svc, ok := c.byID[id]
	if !ok {
		return Service{}, fmt.Errorf("catalog: unknown service %q", id)
	}
	return svc, nil
}
