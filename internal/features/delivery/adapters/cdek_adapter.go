package adapters

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"checkout-orchestrator/internal/core/commerce"
	"checkout-orchestrator/internal/features/delivery/domain"
)

// CdekAdapter implements the CarrierProvider port against the commerce
// backend's CDEK sync endpoints.
type CdekAdapter struct {
	client *commerce.Client
}

// NewCdekAdapter creates a new CdekAdapter.
func NewCdekAdapter(baseURL string, timeout time.Duration) *CdekAdapter {
	return &CdekAdapter{
		client: commerce.NewClient(baseURL, timeout),
	}
}

// calculateRequest is the wire shape of the calculate request.
type calculateRequest struct {
	ToLocation struct {
		City    string `json:"city"`
		Address string `json:"address"`
	} `json:"toLocation"`
	Packages   []carrierPackage `json:"packages"`
	TariffCode int              `json:"tariffCode"`
}

// carrierPackage is a single parcel with placeholder dimensions.
type carrierPackage struct {
	Weight int `json:"weight"`
	Length int `json:"length"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// calculateResponse is the wire shape of the carrier tariff list.
type calculateResponse struct {
	TariffCodes []struct {
		TariffCode  int     `json:"tariff_code"`
		TariffName  string  `json:"tariff_name"`
		DeliverySum float64 `json:"delivery_sum"`
		PeriodMin   int     `json:"period_min"`
		PeriodMax   int     `json:"period_max"`
	} `json:"tariff_codes"`
}

// cityResponse is the wire shape of a city directory entry.
type cityResponse struct {
	Code        int      `json:"code"`
	City        string   `json:"city"`
	Region      string   `json:"region"`
	RegionCode  int      `json:"region_code"`
	Country     string   `json:"country"`
	PostalCodes []string `json:"postal_codes"`
}

// pvzResponse is the wire shape of a pickup point entry.
type pvzResponse struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Location struct {
		Address     string  `json:"address"`
		AddressFull string  `json:"address_full"`
		City        string  `json:"city"`
		Region      string  `json:"region"`
		PostalCode  string  `json:"postal_code"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
	} `json:"location"`
	WorkTime string `json:"work_time"`
	Phones   []struct {
		Number string `json:"number"`
	} `json:"phones"`
	Email string `json:"email"`
}

// Calculate returns the carrier tariffs for the given destination and lines.
func (a *CdekAdapter) Calculate(ctx context.Context, address domain.Address, lines []domain.Line, tariffCode int) ([]domain.Tariff, error) {
	var req calculateRequest
	req.ToLocation.City = address.City
	req.ToLocation.Address = formatStreetAddress(address)
	req.TariffCode = tariffCode

	req.Packages = make([]carrierPackage, 0, len(lines))
	for _, line := range lines {
		req.Packages = append(req.Packages, carrierPackage{
			Weight: domain.PackageWeightGrams * line.Quantity,
			Length: domain.PackageLengthCm,
			Width:  domain.PackageWidthCm,
			Height: domain.PackageHeightCm,
		})
	}

	var resp calculateResponse
	if err := a.client.Post(ctx, "/api/cdek-sync/calculate", "", req, &resp); err != nil {
		return nil, fmt.Errorf("carrier calculation failed: %w", err)
	}

	tariffs := make([]domain.Tariff, 0, len(resp.TariffCodes))
	for _, t := range resp.TariffCodes {
		tariffs = append(tariffs, domain.Tariff{
			Code:      t.TariffCode,
			Name:      t.TariffName,
			Cost:      t.DeliverySum,
			PeriodMin: t.PeriodMin,
			PeriodMax: t.PeriodMax,
		})
	}

	return tariffs, nil
}

// SearchCities returns city directory matches for the query.
func (a *CdekAdapter) SearchCities(ctx context.Context, query string) ([]domain.City, error) {
	path := "/api/cdek-sync/cities?query=" + url.QueryEscape(query)

	var raw []cityResponse
	if err := a.client.Get(ctx, path, "", &raw); err != nil {
		return nil, fmt.Errorf("city search failed: %w", err)
	}

	cities := make([]domain.City, 0, len(raw))
	for _, c := range raw {
		cities = append(cities, domain.City{
			Code:        c.Code,
			City:        c.City,
			Region:      c.Region,
			RegionCode:  c.RegionCode,
			Country:     c.Country,
			PostalCodes: c.PostalCodes,
		})
	}

	return cities, nil
}

// ListPickupPoints returns the pickup points available in a city.
func (a *CdekAdapter) ListPickupPoints(ctx context.Context, cityCode int) ([]domain.PickupPoint, error) {
	path := "/api/cdek-sync/pvz-list?cityCode=" + strconv.Itoa(cityCode)

	var raw []pvzResponse
	if err := a.client.Get(ctx, path, "", &raw); err != nil {
		return nil, fmt.Errorf("pickup point listing failed: %w", err)
	}

	points := make([]domain.PickupPoint, 0, len(raw))
	for _, p := range raw {
		point := domain.PickupPoint{
			Code:        p.Code,
			Name:        p.Name,
			Address:     p.Location.Address,
			AddressFull: p.Location.AddressFull,
			City:        p.Location.City,
			Region:      p.Location.Region,
			PostalCode:  p.Location.PostalCode,
			Latitude:    p.Location.Latitude,
			Longitude:   p.Location.Longitude,
			WorkTime:    p.WorkTime,
			Email:       p.Email,
		}
		for _, phone := range p.Phones {
			point.Phones = append(point.Phones, domain.Phone{Number: phone.Number})
		}
		points = append(points, point)
	}

	return points, nil
}

// formatStreetAddress builds the single-line street address the carrier expects.
func formatStreetAddress(address domain.Address) string {
	s := fmt.Sprintf("%s, %s", address.Street, address.House)
	if address.Apartment != "" {
		s += fmt.Sprintf(", кв. %s", address.Apartment)
	}
	return s
}
