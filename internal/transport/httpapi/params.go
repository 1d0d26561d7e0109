package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/halcyon-media/imagery/internal/domain"
)

// parseSearchParams validates the search query surface. All invalid fields
// are reported together rather than one at a time.
func (s *Server) parseSearchParams(r *http.Request) (domain.SearchQuery, error) {
	qs := r.URL.Query()
	fields := make(map[string]string)

	text := strings.TrimSpace(qs.Get("q"))
	if text == "" {
		fields["q"] = "this field is required"
	}

	pageNum := 1
	if raw := qs.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields["page"] = "must be an integer greater than or equal to 1"
		} else {
			pageNum = n
		}
	}

	pageSize := s.limits.DefaultPageSize
	if raw := qs.Get("pagesize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > s.limits.MaxPageSize {
			fields["pagesize"] = fmt.Sprintf("must be an integer between 1 and %d", s.limits.MaxPageSize)
		} else {
			pageSize = n
		}
	}

	licenses := parseLicenses(qs.Get("li"), qs.Get("lt"), fields)

	filterDead := false
	if raw := qs.Get("filter_dead"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			fields["filter_dead"] = "must be a boolean"
		} else {
			filterDead = b
		}
	}

	if len(fields) > 0 {
		return domain.SearchQuery{}, domain.NewValidation(fields)
	}

	return domain.SearchQuery{
		Text:       text,
		Licenses:   licenses,
		FilterDead: filterDead,
		Page:       pageNum,
		PageSize:   pageSize,
	}, nil
}

// parseLicenses resolves the li/lt pair into a flat license code list.
// License types expand to their member codes here, so the index only ever
// sees concrete licenses.
func parseLicenses(li, lt string, fields map[string]string) []string {
	if li != "" && lt != "" {
		fields["lt"] = "cannot be combined with li"
		return nil
	}

	var licenses []string
	switch {
	case li != "":
		for _, code := range strings.Split(li, ",") {
			code = strings.ToLower(strings.TrimSpace(code))
			if code == "" {
				continue
			}
			if !domain.ValidLicense(code) {
				fields["li"] = fmt.Sprintf("unknown license %q", code)
				return nil
			}
			licenses = append(licenses, code)
		}
	case lt != "":
		seen := make(map[string]struct{})
		for _, t := range strings.Split(lt, ",") {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			codes, ok := domain.LicensesForType(t)
			if !ok {
				fields["lt"] = fmt.Sprintf("unknown license type %q", t)
				return nil
			}
			for _, c := range codes {
				if _, dup := seen[c]; dup {
					continue
				}
				seen[c] = struct{}{}
				licenses = append(licenses, c)
			}
		}
	}
	return licenses
}
