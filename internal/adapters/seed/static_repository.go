package seed

import (
	"context"
	"strings"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/repositories"
)

// StaticRepository serves the built-in places dataset from memory
type StaticRepository struct {
	places []entities.RawResult
}

var _ repositories.SeedRepository = (*StaticRepository)(nil)

// NewStaticRepository returns a repository over the built-in dataset
func NewStaticRepository() *StaticRepository {
	return NewStaticRepositoryWith(defaultPlaces)
}

// NewStaticRepositoryWith returns a repository over the given places
func NewStaticRepositoryWith(places []entities.RawResult) *StaticRepository {
	return &StaticRepository{places: places}
}

// Cities returns the distinct city names in dataset order
func (r *StaticRepository) Cities(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	cities := make([]string, 0)
	for _, p := range r.places {
		if _, ok := seen[p.City]; ok {
			continue
		}
		seen[p.City] = struct{}{}
		cities = append(cities, p.City)
	}
	return cities, nil
}

// ListByCity returns the places of one city, matched case-insensitively
func (r *StaticRepository) ListByCity(ctx context.Context, city string) ([]entities.RawResult, error) {
	if city == "" || city == repositories.AllCities {
		return r.All(ctx)
	}
	out := make([]entities.RawResult, 0)
	for _, p := range r.places {
		if strings.EqualFold(p.City, city) {
			out = append(out, clonePlace(p))
		}
	}
	return out, nil
}

// All returns a copy of the dataset
func (r *StaticRepository) All(ctx context.Context) ([]entities.RawResult, error) {
	out := make([]entities.RawResult, 0, len(r.places))
	for _, p := range r.places {
		out = append(out, clonePlace(p))
	}
	return out, nil
}

// clonePlace copies the coordinates so callers cannot mutate the dataset.
func clonePlace(p entities.RawResult) entities.RawResult {
	if p.Coordinates != nil {
		c := *p.Coordinates
		p.Coordinates = &c
	}
	return p
}

func at(lat, lng float64) *entities.Coordinates {
	return &entities.Coordinates{Lat: lat, Lng: lng}
}

var defaultPlaces = []entities.RawResult{
	{
		Type:        entities.ResultTypeMall,
		Name:        "Select Citywalk",
		Description: "A popular shopping mall with a variety of international and domestic brands.",
		Location:    "Saket, New Delhi",
		City:        "Delhi",
		Coordinates: at(28.5285, 77.2194),
	},
	{
		Type:        entities.ResultTypeShop,
		Name:        "Khan Market",
		Description: "An upscale market with designer boutiques, bookstores, and restaurants.",
		Location:    "Khan Market, New Delhi",
		City:        "Delhi",
		Coordinates: at(28.6003, 77.2272),
	},
	{
		Type:        entities.ResultTypeEvent,
		Name:        "Qutub Festival",
		Description: "An annual cultural festival featuring classical music and dance performances.",
		Location:    "Qutub Minar Complex, New Delhi",
		City:        "Delhi",
		Coordinates: at(28.5245, 77.1855),
	},
	{
		Type:        entities.ResultTypeMall,
		Name:        "High Street Phoenix",
		Description: "One of the largest malls in India, offering a luxury shopping experience.",
		Location:    "Lower Parel, Mumbai",
		City:        "Mumbai",
		Coordinates: at(18.9947, 72.8258),
	},
	{
		Type:        entities.ResultTypeShop,
		Name:        "Colaba Causeway",
		Description: "A bustling street market famous for fashion, accessories, and antiques.",
		Location:    "Colaba, Mumbai",
		City:        "Mumbai",
		Coordinates: at(18.922, 72.831),
	},
	{
		Type:        entities.ResultTypeEvent,
		Name:        "Kala Ghoda Arts Festival",
		Description: "A vibrant annual arts festival showcasing visual arts, music, dance, and theater.",
		Location:    "Kala Ghoda, Mumbai",
		City:        "Mumbai",
		Coordinates: at(18.9322, 72.8322),
	},
	{
		Type:        entities.ResultTypeMall,
		Name:        "Phoenix Marketcity",
		Description: "A large mall with a wide range of stores, a cinema, and a food court.",
		Location:    "Whitefield, Bangalore",
		City:        "Bangalore",
		Coordinates: at(12.9961, 77.6961),
	},
	{
		Type:        entities.ResultTypeShop,
		Name:        "Commercial Street",
		Description: "A busy shopping street known for clothing, footwear, and accessories at great prices.",
		Location:    "Tasker Town, Bangalore",
		City:        "Bangalore",
		Coordinates: at(12.9819, 77.6079),
	},
	{
		Type:        entities.ResultTypeBusiness,
		Name:        "Mavalli Tiffin Rooms (MTR)",
		Description: "A legendary restaurant serving authentic South Indian cuisine since 1924.",
		Location:    "Lalbagh Road, Bangalore",
		City:        "Bangalore",
		Coordinates: at(12.9558, 77.5833),
	},
	{
		Type:        entities.ResultTypeMall,
		Name:        "Express Avenue",
		Description: "A premium shopping mall located in the heart of Chennai.",
		Location:    "Royapettah, Chennai",
		City:        "Chennai",
		Coordinates: at(13.0583, 80.2635),
	},
	{
		Type:        entities.ResultTypeShop,
		Name:        "T. Nagar",
		Description: "A major shopping district known for its silk sarees and gold jewelry shops.",
		Location:    "Thyagaraya Nagar, Chennai",
		City:        "Chennai",
		Coordinates: at(13.0400, 80.2334),
	},
	{
		Type:        entities.ResultTypeBusiness,
		Name:        "Murugan Idli Shop",
		Description: "Famous for its soft idlis and a wide variety of chutneys.",
		Location:    "T. Nagar, Chennai",
		City:        "Chennai",
		Coordinates: at(13.0378, 80.2323),
	},
}
