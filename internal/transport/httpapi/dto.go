package httpapi

import (
	"github.com/halcyon-media/imagery/internal/domain"
	healthuc "github.com/halcyon-media/imagery/internal/usecase/health"
)

type imageDTO struct {
	Identifier        string   `json:"identifier"`
	Title             string   `json:"title"`
	Creator           string   `json:"creator,omitempty"`
	CreatorURL        string   `json:"creator_url,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	URL               string   `json:"url"`
	Thumbnail         string   `json:"thumbnail,omitempty"`
	Provider          string   `json:"provider"`
	Source            string   `json:"source,omitempty"`
	License           string   `json:"license"`
	LicenseVersion    string   `json:"license_version,omitempty"`
	LicenseURL        string   `json:"license_url,omitempty"`
	ForeignLandingURL string   `json:"foreign_landing_url"`
	Detail            string   `json:"detail"`
}

type searchResponseDTO struct {
	ResultCount int        `json:"result_count"`
	PageCount   int        `json:"page_count"`
	Results     []imageDTO `json:"results"`
}

// imageDetailDTO carries the full record. Unlike search results, provider
// holds the resolved display name; the raw identifier stays in source.
type imageDetailDTO struct {
	Identifier        string   `json:"identifier"`
	Title             string   `json:"title"`
	Creator           string   `json:"creator,omitempty"`
	CreatorURL        string   `json:"creator_url,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	URL               string   `json:"url"`
	Thumbnail         string   `json:"thumbnail,omitempty"`
	Provider          string   `json:"provider"`
	ProviderURL       string   `json:"provider_url"`
	Source            string   `json:"source,omitempty"`
	License           string   `json:"license"`
	LicenseVersion    string   `json:"license_version,omitempty"`
	LicenseURL        string   `json:"license_url,omitempty"`
	ForeignLandingURL string   `json:"foreign_landing_url"`
	Attribution       string   `json:"attribution,omitempty"`
	ViewCount         int64    `json:"view_count"`
}

type healthDTO struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func hitToDTO(h domain.Hit) imageDTO {
	return imageDTO{
		Identifier:        h.Identifier,
		Title:             h.Title,
		Creator:           h.Creator,
		CreatorURL:        h.CreatorURL,
		Tags:              h.Tags,
		URL:               h.URL,
		Thumbnail:         h.Thumbnail,
		Provider:          h.Provider,
		Source:            h.Source,
		License:           h.License,
		LicenseVersion:    h.LicenseVersion,
		LicenseURL:        h.LicenseURL,
		ForeignLandingURL: h.ForeignLandingURL,
		Detail:            h.Detail,
	}
}

func resultPageToDTO(p domain.ResultPage) searchResponseDTO {
	items := make([]imageDTO, len(p.Results))
	for i, h := range p.Results {
		items[i] = hitToDTO(h)
	}
	return searchResponseDTO{
		ResultCount: p.ResultCount,
		PageCount:   p.PageCount,
		Results:     items,
	}
}

func detailToDTO(d domain.ImageDetail) imageDetailDTO {
	return imageDetailDTO{
		Identifier:        d.Identifier,
		Title:             d.Title,
		Creator:           d.Creator,
		CreatorURL:        d.CreatorURL,
		Tags:              d.Tags,
		URL:               d.URL,
		Thumbnail:         d.Thumbnail,
		Provider:          d.ProviderName,
		ProviderURL:       d.ProviderURL,
		Source:            d.Source,
		License:           d.License,
		LicenseVersion:    d.LicenseVersion,
		LicenseURL:        d.LicenseURL,
		ForeignLandingURL: d.ForeignLandingURL,
		Attribution:       d.Attribution,
		ViewCount:         d.ViewCount,
	}
}

func healthToDTO(report healthuc.Report) healthDTO {
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return healthDTO{Status: string(report.Status), Checks: checks}
}
